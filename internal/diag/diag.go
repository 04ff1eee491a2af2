// Package diag implements Orus's structured diagnostic type and the
// reporter format from spec.md section 7: a `-- KIND: summary --
// file:line:column` header, a source-excerpt line with a caret, and
// optional help/note stanzas. Grounded on GVM's error wrapping
// discipline (main.go reports parse/compile failures with file context
// before exiting) generalized from a single fatal path into an
// accumulating, recoverable one.
package diag

import (
	"fmt"
	"strings"

	"github.com/orus-lang/orus/internal/ast"
)

// Severity distinguishes the four error taxonomy buckets named in
// spec.md section 7.
type Severity uint8

const (
	SeverityCompile Severity = iota
	SeverityRuntimeRecoverable
	SeverityRuntimeFatal
	SeverityCancelled
)

func (s Severity) String() string {
	switch s {
	case SeverityCompile:
		return "compile error"
	case SeverityRuntimeRecoverable:
		return "runtime error"
	case SeverityRuntimeFatal:
		return "fatal error"
	case SeverityCancelled:
		return "cancelled"
	default:
		return "error"
	}
}

// Code is a stable per-diagnostic identifier used to look up
// pre-registered help/note stanzas.
type Code string

const (
	CodeLexInvalidToken    Code = "E0001"
	CodeSyntaxUnexpected   Code = "E0002"
	CodeSemanticMismatch   Code = "E0003"
	CodeUndefinedVariable  Code = "E0004"
	CodeArityMismatch      Code = "E0005"
	CodeBreakOutsideLoop   Code = "E0006"
	CodeContinueOutsideLoop Code = "E0007"
	CodeConstFoldOverflow  Code = "E0008"
	CodeTypeError          Code = "R0001"
	CodeDivisionByZero     Code = "R0002"
	CodeIndexOutOfRange    Code = "R0003"
	CodeNilDereference     Code = "R0004"
	CodeConversionFailure  Code = "R0005"
	CodeUserRaised         Code = "R0006"
	CodeArithmeticOverflow Code = "R0007"
	CodeRecursionError     Code = "F0001"
	CodeOutOfMemory        Code = "F0002"
	CodeMalformedBytecode  Code = "F0003"
	CodeReentrantGC        Code = "F0004"
	CodeCancelled          Code = "X0001"
)

// names maps a Code to the human-readable identifier spec.md section 8's
// end-to-end scenarios print (e.g. a caught division-by-zero error's
// string form begins with "DivisionByZero", not the stable "R0002"
// wire code). The stable code still drives diagnostic formatting and
// the notes table above; this is only for values user code observes.
var names = map[Code]string{
	CodeLexInvalidToken:     "LexInvalidToken",
	CodeSyntaxUnexpected:    "SyntaxUnexpected",
	CodeSemanticMismatch:    "SemanticMismatch",
	CodeUndefinedVariable:   "UndefinedVariable",
	CodeArityMismatch:       "ArityMismatch",
	CodeBreakOutsideLoop:    "BreakOutsideLoop",
	CodeContinueOutsideLoop: "ContinueOutsideLoop",
	CodeConstFoldOverflow:   "ConstFoldOverflow",
	CodeTypeError:           "TypeError",
	CodeDivisionByZero:      "DivisionByZero",
	CodeIndexOutOfRange:     "IndexOutOfRange",
	CodeNilDereference:      "NilDereference",
	CodeConversionFailure:   "ConversionFailure",
	CodeUserRaised:          "UserRaised",
	CodeArithmeticOverflow:  "ArithmeticOverflow",
	CodeRecursionError:      "RecursionError",
	CodeOutOfMemory:         "OutOfMemory",
	CodeMalformedBytecode:   "MalformedBytecode",
	CodeReentrantGC:         "ReentrantGC",
	CodeCancelled:           "Cancelled",
}

// Name returns the human-readable identifier for c, falling back to the
// stable wire code itself if c isn't registered.
func (c Code) Name() string {
	if n, ok := names[c]; ok {
		return n
	}
	return string(c)
}

// notes maps a Code to fixed help text shown under the diagnostic,
// pre-registered per spec.md section 7 ("optional help/note stanzas
// pre-registered per error code").
var notes = map[Code]string{
	CodeDivisionByZero:      "division and modulo by zero are always an error; guard the divisor first",
	CodeIndexOutOfRange:     "array indices must satisfy 0 <= i < len(array)",
	CodeBreakOutsideLoop:    "break is only valid inside a while or for loop body",
	CodeContinueOutsideLoop: "continue is only valid inside a while or for loop body",
	CodeConstFoldOverflow:   "this expression is folded at compile time; its signed result does not fit the target kind",
	CodeRecursionError:      "the call stack exceeded the interpreter's fixed frame-depth limit",
}

// Diagnostic is one reported problem, carrying enough context to format
// itself without consulting the original source again (the Excerpt is
// captured at report time).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Pos      ast.Pos
	Excerpt  string // the offending source line, if available
}

func New(sev Severity, code Code, pos ast.Pos, excerpt string, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Excerpt:  excerpt,
	}
}

func (d *Diagnostic) Error() string { return d.Format() }

// Format renders the diagnostic in the header/excerpt/caret/note shape
// spec.md section 7 requires.
func (d *Diagnostic) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- %s [%s]: %s -- %s:%d:%d\n",
		strings.ToUpper(d.Severity.String()), d.Code, d.Message, d.Pos.File, d.Pos.Line, d.Pos.Column)
	if d.Excerpt != "" {
		fmt.Fprintf(&b, "  %s\n", d.Excerpt)
		col := d.Pos.Column
		if col < 1 {
			col = 1
		}
		b.WriteString("  " + strings.Repeat(" ", col-1) + "^\n")
	}
	if note, ok := notes[d.Code]; ok {
		fmt.Fprintf(&b, "  note: %s\n", note)
	}
	return b.String()
}

// Bag accumulates compile diagnostics across a compilation unit, per
// spec.md section 7's "errors are accumulated, not fatal" policy. It is
// not used for runtime diagnostics, which are single-shot.
type Bag struct {
	diags []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) { b.diags = append(b.diags, d) }

func (b *Bag) HasErrors() bool { return len(b.diags) > 0 }

func (b *Bag) Diagnostics() []*Diagnostic { return b.diags }

func (b *Bag) Error() string {
	var out strings.Builder
	for _, d := range b.diags {
		out.WriteString(d.Format())
	}
	return out.String()
}
