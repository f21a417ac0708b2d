package codegen

import (
	"strconv"

	"github.com/glisp-lang/glisp/internal/runtime"
)

// constPool deduplicates quoted-literal initializers by exact printed source
// text (spec.md §4.4: "keyed by exact source text; on emit, duplicates
// collapse"), so two top-level occurrences of the same quoted form share a
// single generated slot (spec.md §8's constant-pool-dedup testable
// property).
type constPool struct {
	order []string       // printed source text, in first-seen order
	index map[string]int // printed source text -> slot index
}

func newConstPool() *constPool {
	return &constPool{index: make(map[string]int)}
}

// intern returns the slot index for the quoted value's printed form,
// creating a new slot on first sight.
func (p *constPool) intern(v runtime.Value) int {
	src := runtime.Print(v, true)
	if idx, ok := p.index[src]; ok {
		return idx
	}
	idx := len(p.order)
	p.order = append(p.order, src)
	p.index[src] = idx
	return idx
}

// slotName is the generated package-level variable name for pool slot i.
func slotName(i int) string {
	return "q" + strconv.Itoa(i)
}
