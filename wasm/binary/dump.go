package binary

import (
	"fmt"
	"io"

	"github.com/kjx98/gowasm/wasm/instruction"
	"github.com/kjx98/gowasm/wasm/module"
)

// Dump writes a human-readable, indented rendering of m: one block per
// populated section. Diagnostic only, never read back.
func Dump(w io.Writer, m *module.Module) {
	for i, t := range m.Types {
		fmt.Fprintf(w, "type[%d] %s\n", i, t.String())
	}
	for i, e := range m.Imports {
		fmt.Fprintf(w, "import[%d] %s.%s kind=%s\n", i, e.Module, e.Field, e.Kind)
	}
	for i, idx := range m.Funcs {
		fmt.Fprintf(w, "func[%d] type=%d\n", i, idx)
	}
	for i, t := range m.Tables {
		fmt.Fprintf(w, "table[%d] limits=%s\n", i, t.Limits)
	}
	for i, mt := range m.Memories {
		fmt.Fprintf(w, "memory[%d] limits=%s\n", i, mt.Limits)
	}
	for i, g := range m.Globals {
		fmt.Fprintf(w, "global[%d] kind=%s mutable=%v\n", i, g.Type.Content, g.Type.Mutable)
		instruction.Dump(w, g.Init.Instructions, 1)
	}
	for i, e := range m.Exports {
		fmt.Fprintf(w, "export[%d] %q kind=%s index=%d\n", i, e.Field, e.Kind, e.Index)
	}
	if m.HasStart {
		fmt.Fprintf(w, "start=%d\n", m.Start)
	}
	for i, e := range m.Elements {
		fmt.Fprintf(w, "elem[%d] table=%d elements=%v\n", i, e.TableIndex, e.Elements)
	}
	for i, fn := range m.Code {
		fmt.Fprintf(w, "code[%d] type=%d locals=%v\n", i, fn.TypeIndex, fn.Locals)
		instruction.Dump(w, fn.Instructions, 1)
	}
	for i, d := range m.Data {
		fmt.Fprintf(w, "data[%d] memory=%d len=%d\n", i, d.MemoryIndex, len(d.Data))
	}
	for i, c := range m.Customs {
		fmt.Fprintf(w, "custom[%d] %q len=%d\n", i, c.Name, len(c.Payload))
	}
}
