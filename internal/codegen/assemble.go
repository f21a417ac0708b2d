package codegen

import (
	"fmt"
	"strings"
)

// assemble stitches the generator's accumulated state — constant pool,
// global slots, and the lowered body() statements — into one Go source
// file. The emitted program links against pkg/genruntime (this repository's
// public seam into the evaluator) rather than any internal/ package, since
// it is compiled as an independent module by internal/hostcompile.
func (g *Generator) assemble(pkgName string, fb *funcBuilder, bodyResult string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "package %s\n\n", pkgName)
	sb.WriteString(`import (
	"os"

	"github.com/glisp-lang/glisp/pkg/genruntime"
)

`)

	sb.WriteString("// eng is the shared evaluator instance every generated closure dispatches\n")
	sb.WriteString("// non-open-coded calls through (spec.md §8: generated and interpreted\n")
	sb.WriteString("// programs must agree, so both paths share one primitive registry).\n")
	sb.WriteString("var eng = genruntime.NewEngine()\n\n")

	sb.WriteString("func mustGlobal(name string) genruntime.Value {\n")
	sb.WriteString("\tv, err := eng.GetValue(name)\n")
	sb.WriteString("\tif err != nil {\n\t\tpanic(err)\n\t}\n")
	sb.WriteString("\treturn v\n}\n\n")

	for i, src := range g.pool.order {
		fmt.Fprintf(&sb, "var %s = genruntime.Quote(%s)\n", slotName(i), goStringLiteral(src))
	}
	if len(g.pool.order) > 0 {
		sb.WriteString("\n")
	}

	for _, sym := range g.order {
		fmt.Fprintf(&sb, "var %s genruntime.Value = genruntime.Nil\n", g.globals[sym])
	}
	if len(g.order) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString("// body runs every top-level form once, in source order, and returns the\n")
	sb.WriteString("// value of the last one (spec.md §4.4's body() entry point).\n")
	sb.WriteString("func body() (genruntime.Value, error) {\n")
	sb.WriteString(fb.body())
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "\treturn %s, nil\n", bodyResult)
	sb.WriteString("}\n\n")

	sb.WriteString("// getValue returns the current value of a top-level binding (spec.md §6).\n")
	sb.WriteString("func getValue(name string) (genruntime.Value, error) { return eng.GetValue(name) }\n\n")
	sb.WriteString("// getFunction returns a callable adapter over a primitive or closure (spec.md §6).\n")
	sb.WriteString("func getFunction(name string) (genruntime.Value, error) { return eng.GetFunction(name) }\n\n")

	sb.WriteString(`func main() {
	eng.SetCommandLineArgs(os.Args[1:])
	v, err := body()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	_ = v
}
`)

	return sb.String()
}
