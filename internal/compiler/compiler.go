// Package compiler implements Orus's two-pass compiler backend from
// spec.md 4.7: an optimizer (constant folding, small-loop unrolling,
// loop-invariant hoisting), a structural code generator, and an
// optional peephole pass, tied together by Compile.
package compiler

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/diag"
	"github.com/orus-lang/orus/internal/regfile"
)

// Result is everything one compilation unit produces: the entry chunk,
// every nested function's chunk keyed by declared name, and the global
// register each top-level name (including function names) was bound
// to, so the caller (internal/interp's loader) can construct closure
// values and write them into place before running the entry chunk.
type Result struct {
	Chunk      *bytecode.Chunk
	FuncChunks map[string]*bytecode.Chunk
	Globals    map[string]regfile.LogicalID
}

// Compile runs Pass 1 (Optimize), Pass 2 (codegen), and the peephole
// pass over stmts, returning the finished chunk and any diagnostics
// accumulated along the way. A non-empty Bag does not necessarily mean
// Chunk is nil: codegen keeps emitting past a recoverable error so a
// single compile reports as many problems as possible, per spec.md
// section 7's "errors are accumulated" policy.
func Compile(name string, stmts []ast.Node) (*Result, *diag.Bag) {
	diags := &diag.Bag{}

	resetFoldOverflows()
	hoistCounter = 0

	optimized := Optimize(stmts)

	for _, pos := range overflowingFolds {
		diags.Add(diag.New(diag.SeverityCompile, diag.CodeConstFoldOverflow, pos, "",
			"constant expression overflows its target integer kind"))
	}

	gen := NewCodegen(name, diags)
	chunk := gen.Compile(optimized)

	for _, fc := range gen.FuncChunks {
		Peephole(fc)
	}
	Peephole(chunk)

	return &Result{Chunk: chunk, FuncChunks: gen.FuncChunks, Globals: gen.globals}, diags
}
