// Package orus is the embedding surface spec.md section 6 asks for: one
// entry point that takes an already-parsed program and a module
// identifier and runs it to completion against a caller-owned
// VirtualMachine, reporting success or a batch of diagnostics without
// ever panicking out to the caller.
//
// Lexing, parsing, and name/type resolution are out of this tree's
// scope (spec.md section 1 lists them as external collaborators), so
// the "source string" spec.md describes arrives here as []ast.Node:
// whatever front end a host embeds is responsible for producing that
// tree before calling Execute.
package orus

import (
	"io"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/compiler"
	"github.com/orus-lang/orus/internal/diag"
	"github.com/orus-lang/orus/internal/interp"
)

// Outcome tags which of the three variants spec.md section 6 names an
// Execution landed in.
type Outcome uint8

const (
	Ok Outcome = iota
	CompileError
	RuntimeError
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case CompileError:
		return "compile_error"
	case RuntimeError:
		return "runtime_error"
	default:
		return "unknown"
	}
}

// Execution is the result Execute returns: Outcome says which case
// this is, and Diagnostics carries whatever that case produced. Ok
// always has an empty Diagnostics; CompileError may carry several (the
// compiler accumulates and keeps going per spec.md section 7);
// RuntimeError carries exactly one, the first unhandled failure.
type Execution struct {
	Outcome     Outcome
	Diagnostics []*diag.Diagnostic
}

// Execute compiles stmts under moduleName and, on a clean compile, runs
// the result against vm, writing any print output to out. vm is a
// mutable context the caller owns and may reuse across repeated
// Execute calls (a REPL line, a benchmark iteration) so that globals
// and heap state persist the way spec.md section 6's "VM passed in as
// a mutable context" calls for.
func Execute(vm *interp.VirtualMachine, stmts []ast.Node, moduleName string, out io.Writer) Execution {
	res, diags := compiler.Compile(moduleName, stmts)
	if diags.HasErrors() {
		return Execution{Outcome: CompileError, Diagnostics: diags.Diagnostics()}
	}

	entry, err := vm.Load(res, nil)
	if err != nil {
		return Execution{
			Outcome: RuntimeError,
			Diagnostics: []*diag.Diagnostic{
				diag.New(diag.SeverityRuntimeFatal, diag.CodeMalformedBytecode, ast.Pos{File: moduleName}, "", "%s", err.Error()),
			},
		}
	}

	if d := vm.Run(entry, out); d != nil {
		return Execution{Outcome: RuntimeError, Diagnostics: []*diag.Diagnostic{d}}
	}
	return Execution{Outcome: Ok}
}

// ExecuteModule is Execute extended with spec.md 6's module-loader
// boundary: imports names modules vm's resolver (see
// interp.WithResolver) must already know how to produce before stmts'
// own top-level code runs.
func ExecuteModule(vm *interp.VirtualMachine, stmts []ast.Node, moduleName string, imports []string, out io.Writer) Execution {
	res, diags := compiler.Compile(moduleName, stmts)
	if diags.HasErrors() {
		return Execution{Outcome: CompileError, Diagnostics: diags.Diagnostics()}
	}

	entry, err := vm.Load(res, imports)
	if err != nil {
		return Execution{
			Outcome: RuntimeError,
			Diagnostics: []*diag.Diagnostic{
				diag.New(diag.SeverityRuntimeFatal, diag.CodeMalformedBytecode, ast.Pos{File: moduleName}, "", "%s", err.Error()),
			},
		}
	}

	if d := vm.Run(entry, out); d != nil {
		return Execution{Outcome: RuntimeError, Diagnostics: []*diag.Diagnostic{d}}
	}
	return Execution{Outcome: Ok}
}
