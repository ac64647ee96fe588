// Command wasmdump decodes a .wasm module and prints a textual dump of its
// sections and instructions, one line (or indented block) per entry.
package main

import (
	"fmt"
	"os"

	"github.com/kjx98/gowasm/wasm/binary"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	root := &cobra.Command{
		Use:   "wasmdump [file.wasm]",
		Short: "Decode a WebAssembly module and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(logger, args[0])
		},
		SilenceUsage: true,
	}

	if err := root.Execute(); err != nil {
		logger.Error("wasmdump failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	m, err := binary.DecodeModule(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	logger.Info("decoded module",
		zap.String("path", path),
		zap.Int("types", len(m.Types)),
		zap.Int("funcs", len(m.Funcs)),
		zap.Int("imports", len(m.Imports)),
		zap.Int("exports", len(m.Exports)),
	)
	binary.Dump(os.Stdout, m)
	return nil
}
