// Command wasmrun instantiates a .wasm module against the spectest host
// module and invokes one of its exported functions, printing the results.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kjx98/gowasm/wasm/binary"
	"github.com/kjx98/gowasm/wasm/interpreter"
	"github.com/kjx98/gowasm/wasm/interpreter/spectest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	invokeName string
	invokeArgs string
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	root := &cobra.Command{
		Use:   "wasmrun [file.wasm]",
		Short: "Instantiate and run a WebAssembly module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(logger, args[0])
		},
		SilenceUsage: true,
	}
	root.Flags().StringVar(&invokeName, "invoke", "", "name of an exported function to call after instantiation")
	root.Flags().StringVar(&invokeArgs, "args", "", "comma-separated i32 arguments for --invoke")

	if err := root.Execute(); err != nil {
		logger.Error("wasmrun failed", zap.Error(err))
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

	host := spectest.New()
	mi, err := interpreter.Instantiate(m, host)
	if err != nil {
		return fmt.Errorf("instantiating %s: %w", path, err)
	}
	logger.Info("instantiated module", zap.String("path", path))

	if invokeName == "" {
		return nil
	}
	fn, ok := mi.ExportedFunction(invokeName)
	if !ok {
		return fmt.Errorf("module has no exported function %q", invokeName)
	}

	args, err := parseArgs(invokeArgs)
	if err != nil {
		return err
	}
	results, err := fn.Invoke(args)
	if err != nil {
		return fmt.Errorf("invoking %s: %w", invokeName, err)
	}
	logger.Info("invocation complete", zap.String("function", invokeName), zap.Uint64s("results", results))
	for _, r := range results {
		fmt.Println(int32(uint32(r)))
	}
	return nil
}

func parseArgs(raw string) ([]uint64, error) {
	if raw == "" {
		return nil, nil
	}
	fields := strings.Split(raw, ",")
	args := make([]uint64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%q): %w", i, f, err)
		}
		args[i] = uint64(uint32(int32(v)))
	}
	return args, nil
}
