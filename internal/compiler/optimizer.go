package compiler

import "github.com/orus-lang/orus/internal/ast"

// Optimize runs Pass 1 over a typed AST: constant folding, small-loop
// unrolling, then loop-invariant hoisting, in that order, per spec.md
// 4.7. Each sub-pass returns a new node tree; none mutate the input.
func Optimize(stmts []ast.Node) []ast.Node {
	stmts = foldConstantsList(stmts)
	stmts = unrollSmallLoopsList(stmts)
	stmts = hoistLoopInvariantsList(stmts)
	return stmts
}

// ---- Constant folding ----

func foldConstantsList(stmts []ast.Node) []ast.Node {
	out := make([]ast.Node, len(stmts))
	for i, s := range stmts {
		out[i] = foldConstants(s)
	}
	return out
}

// foldConstants evaluates pure expressions whose operands are all
// literals of the same kind at compile time, replacing the node with
// the folded Literal. Overflow during folding of signed kinds is a
// compile error surfaced by the caller (internal/compiler.Compile)
// rather than here, since this pass has no diagnostic sink of its own;
// it flags overflow by keeping the original (unfolded) node and
// recording the position in overflowingFolds.
func foldConstants(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.Binary:
		left := foldConstants(v.Left)
		right := foldConstants(v.Right)
		if folded, ok := tryFoldBinary(v, left, right); ok {
			return folded
		}
		return ast.NewBinary(v.Position(), v.ResolvedKind(), v.Op, left, right)
	case *ast.Unary:
		operand := foldConstants(v.Operand)
		if folded, ok := tryFoldUnary(v, operand); ok {
			return folded
		}
		return ast.NewUnary(v.Position(), v.ResolvedKind(), v.Op, operand)
	case *ast.If:
		return ast.NewIf(v.Position(), v.ResolvedKind(), foldConstants(v.Cond), foldConstantsList(v.Then), foldConstantsList(v.Else))
	case *ast.While:
		return ast.NewWhile(v.Position(), v.Label, foldConstants(v.Cond), foldConstantsList(v.Body))
	case *ast.ForRange:
		step := v.Step
		if step != nil {
			step = foldConstants(step)
		}
		return ast.NewForRange(v.Position(), v.Label, v.Var, foldConstants(v.Start), foldConstants(v.End), step, v.Inclusive, foldConstantsList(v.Body))
	case *ast.Block:
		return ast.NewBlock(v.Position(), v.ResolvedKind(), foldConstantsList(v.Stmts))
	case *ast.FuncDecl:
		return ast.NewFuncDecl(v.Position(), v.Name, v.Params, v.ReturnKind, foldConstantsList(v.Body))
	case *ast.Call:
		args := make([]ast.Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = foldConstants(a)
		}
		return ast.NewCall(v.Position(), v.ResolvedKind(), foldConstants(v.Callee), args)
	case *ast.Return:
		if v.Value == nil {
			return v
		}
		return ast.NewReturn(v.Position(), foldConstants(v.Value))
	case *ast.Assign:
		return ast.NewAssign(v.Position(), v.Target, foldConstants(v.Value))
	case *ast.Print:
		args := make([]ast.Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = foldConstants(a)
		}
		return ast.NewPrint(v.Position(), args, v.Newline)
	case *ast.TryCatch:
		return ast.NewTryCatch(v.Position(), foldConstantsList(v.Body), v.HandlerVar, foldConstantsList(v.Handler))
	case *ast.ArrayLiteral:
		elems := make([]ast.Node, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = foldConstants(e)
		}
		return ast.NewArrayLiteral(v.Position(), v.ResolvedKind(), elems)
	case *ast.Index:
		return ast.NewIndex(v.Position(), v.ResolvedKind(), foldConstants(v.Array), foldConstants(v.At))
	case *ast.IndexAssign:
		return ast.NewIndexAssign(v.Position(), foldConstants(v.Array), foldConstants(v.At), foldConstants(v.Value))
	case *ast.Coerce:
		return ast.NewCoerce(v.Position(), v.From, v.ResolvedKind(), foldConstants(v.Value))
	default:
		return n
	}
}

// overflowingFolds records signed-overflow sites discovered during
// folding, for Compile to surface as CodeConstFoldOverflow diagnostics.
// Package-level because foldConstants has no context parameter;
// Compile resets it before each compilation unit.
var overflowingFolds []ast.Pos

func resetFoldOverflows() { overflowingFolds = nil }

func tryFoldBinary(orig *ast.Binary, left, right ast.Node) (ast.Node, bool) {
	ll, lok := left.(*ast.Literal)
	rl, rok := right.(*ast.Literal)
	if !lok || !rok {
		return nil, false
	}
	pos := orig.Position()
	switch {
	case ll.IsInt && rl.IsInt:
		return foldIntBinary(pos, orig.ResolvedKind(), orig.Op, ll.I64, rl.I64)
	case ll.IsUint && rl.IsUint:
		return foldUintBinary(pos, orig.ResolvedKind(), orig.Op, ll.U64, rl.U64), true
	case ll.IsF64 && rl.IsF64:
		return foldFloatBinary(pos, orig.Op, ll.F64, rl.F64), true
	case ll.IsBool && rl.IsBool:
		return foldBoolBinary(pos, orig.Op, ll.Bool, rl.Bool), true
	case ll.IsStr && rl.IsStr && orig.Op == ast.OpAdd:
		return ast.NewStringLiteral(pos, ll.Str+rl.Str), true
	default:
		return nil, false
	}
}

// foldIntBinary folds signed-integer arithmetic; per spec.md 4.7,
// overflow during folding of a signed kind is a compile-time error, so
// on overflow it records the position and returns the unfolded node.
func foldIntBinary(pos ast.Pos, kind ast.Kind, op ast.BinOp, a, b int64) (ast.Node, bool) {
	var r int64
	switch op {
	case ast.OpAdd:
		r = a + b
		if (b > 0 && r < a) || (b < 0 && r > a) {
			overflowingFolds = append(overflowingFolds, pos)
			return nil, false
		}
	case ast.OpSub:
		r = a - b
		if (b < 0 && r < a) || (b > 0 && r > a) {
			overflowingFolds = append(overflowingFolds, pos)
			return nil, false
		}
	case ast.OpMul:
		r = a * b
		if a != 0 && r/a != b {
			overflowingFolds = append(overflowingFolds, pos)
			return nil, false
		}
	case ast.OpDiv:
		if b == 0 {
			return nil, false
		}
		r = a / b
	case ast.OpMod:
		if b == 0 {
			return nil, false
		}
		r = a % b
	case ast.OpEq:
		return ast.NewBoolLiteral(pos, a == b), true
	case ast.OpNe:
		return ast.NewBoolLiteral(pos, a != b), true
	case ast.OpLt:
		return ast.NewBoolLiteral(pos, a < b), true
	case ast.OpLe:
		return ast.NewBoolLiteral(pos, a <= b), true
	case ast.OpGt:
		return ast.NewBoolLiteral(pos, a > b), true
	case ast.OpGe:
		return ast.NewBoolLiteral(pos, a >= b), true
	case ast.OpBitAnd:
		r = a & b
	case ast.OpBitOr:
		r = a | b
	case ast.OpBitXor:
		r = a ^ b
	case ast.OpShl:
		r = a << uint(b)
	case ast.OpShr:
		r = a >> uint(b)
	default:
		return nil, false
	}
	if kind == ast.KindI32 && (op == ast.OpAdd || op == ast.OpSub || op == ast.OpMul) && (r < -1<<31 || r > 1<<31-1) {
		overflowingFolds = append(overflowingFolds, pos)
		return nil, false
	}
	return ast.NewIntLiteral(pos, kind, r), true
}

// foldUintBinary folds unsigned arithmetic; per spec.md 4.7 unsigned
// overflow during folding wraps rather than erroring, which Go's
// uint64 arithmetic already does natively.
func foldUintBinary(pos ast.Pos, kind ast.Kind, op ast.BinOp, a, b uint64) ast.Node {
	switch op {
	case ast.OpAdd:
		return ast.NewUintLiteral(pos, kind, a+b)
	case ast.OpSub:
		return ast.NewUintLiteral(pos, kind, a-b)
	case ast.OpMul:
		return ast.NewUintLiteral(pos, kind, a*b)
	case ast.OpDiv:
		if b == 0 {
			return ast.NewUintLiteral(pos, kind, 0)
		}
		return ast.NewUintLiteral(pos, kind, a/b)
	case ast.OpMod:
		if b == 0 {
			return ast.NewUintLiteral(pos, kind, 0)
		}
		return ast.NewUintLiteral(pos, kind, a%b)
	case ast.OpEq:
		return ast.NewBoolLiteral(pos, a == b)
	case ast.OpNe:
		return ast.NewBoolLiteral(pos, a != b)
	case ast.OpLt:
		return ast.NewBoolLiteral(pos, a < b)
	case ast.OpLe:
		return ast.NewBoolLiteral(pos, a <= b)
	case ast.OpGt:
		return ast.NewBoolLiteral(pos, a > b)
	case ast.OpGe:
		return ast.NewBoolLiteral(pos, a >= b)
	case ast.OpBitAnd:
		return ast.NewUintLiteral(pos, kind, a&b)
	case ast.OpBitOr:
		return ast.NewUintLiteral(pos, kind, a|b)
	case ast.OpBitXor:
		return ast.NewUintLiteral(pos, kind, a^b)
	case ast.OpShl:
		return ast.NewUintLiteral(pos, kind, a<<b)
	case ast.OpShr:
		return ast.NewUintLiteral(pos, kind, a>>b)
	default:
		return ast.NewUintLiteral(pos, kind, 0)
	}
}

func foldFloatBinary(pos ast.Pos, op ast.BinOp, a, b float64) ast.Node {
	switch op {
	case ast.OpAdd:
		return ast.NewFloatLiteral(pos, a+b)
	case ast.OpSub:
		return ast.NewFloatLiteral(pos, a-b)
	case ast.OpMul:
		return ast.NewFloatLiteral(pos, a*b)
	case ast.OpDiv:
		return ast.NewFloatLiteral(pos, a/b)
	case ast.OpEq:
		return ast.NewBoolLiteral(pos, a == b)
	case ast.OpNe:
		return ast.NewBoolLiteral(pos, a != b)
	case ast.OpLt:
		return ast.NewBoolLiteral(pos, a < b)
	case ast.OpLe:
		return ast.NewBoolLiteral(pos, a <= b)
	case ast.OpGt:
		return ast.NewBoolLiteral(pos, a > b)
	case ast.OpGe:
		return ast.NewBoolLiteral(pos, a >= b)
	default:
		return ast.NewFloatLiteral(pos, 0)
	}
}

func foldBoolBinary(pos ast.Pos, op ast.BinOp, a, b bool) ast.Node {
	switch op {
	case ast.OpLogAnd:
		return ast.NewBoolLiteral(pos, a && b)
	case ast.OpLogOr:
		return ast.NewBoolLiteral(pos, a || b)
	case ast.OpEq:
		return ast.NewBoolLiteral(pos, a == b)
	case ast.OpNe:
		return ast.NewBoolLiteral(pos, a != b)
	default:
		return ast.NewBoolLiteral(pos, false)
	}
}

func tryFoldUnary(orig *ast.Unary, operand ast.Node) (ast.Node, bool) {
	lit, ok := operand.(*ast.Literal)
	if !ok {
		return nil, false
	}
	pos := orig.Position()
	switch orig.Op {
	case ast.OpNeg:
		if lit.IsInt {
			return ast.NewIntLiteral(pos, orig.ResolvedKind(), -lit.I64), true
		}
		if lit.IsF64 {
			return ast.NewFloatLiteral(pos, -lit.F64), true
		}
	case ast.OpNot:
		if lit.IsBool {
			return ast.NewBoolLiteral(pos, !lit.Bool), true
		}
	case ast.OpBitNot:
		if lit.IsInt {
			return ast.NewIntLiteral(pos, orig.ResolvedKind(), ^lit.I64), true
		}
		if lit.IsUint {
			return ast.NewUintLiteral(pos, orig.ResolvedKind(), ^lit.U64), true
		}
	}
	return nil, false
}

// ---- Small-loop unrolling ----

const maxUnrollIterations = 8

func unrollSmallLoopsList(stmts []ast.Node) []ast.Node {
	var out []ast.Node
	for _, s := range stmts {
		out = append(out, unrollSmallLoops(s)...)
	}
	return out
}

// unrollSmallLoops replaces a for-range with integer-literal bounds, a
// literal (or default 1) step, no break/continue in the body, and an
// iteration count <= 8, with the concatenation of its body with the
// induction variable substituted by each literal value, per spec.md
// 4.7. Returns a slice since unrolling turns one statement into many.
func unrollSmallLoops(n ast.Node) []ast.Node {
	fr, ok := n.(*ast.ForRange)
	if !ok {
		return []ast.Node{recurseIntoChildrenSingular(n)}
	}
	startLit, sok := fr.Start.(*ast.Literal)
	endLit, eok := fr.End.(*ast.Literal)
	if !sok || !eok || !startLit.IsInt || !endLit.IsInt {
		return []ast.Node{recurseIntoChildrenSingular(fr)}
	}
	step := int64(1)
	if fr.Step != nil {
		stepLit, ok := fr.Step.(*ast.Literal)
		if !ok || !stepLit.IsInt {
			return []ast.Node{recurseIntoChildrenSingular(fr)}
		}
		step = stepLit.I64
	}
	if step <= 0 || containsBreakContinue(fr.Body) {
		return []ast.Node{recurseIntoChildrenSingular(fr)}
	}

	end := endLit.I64
	if fr.Inclusive {
		end++
	}
	count := (end - startLit.I64 + step - 1) / step
	if count <= 0 || count > maxUnrollIterations {
		return []ast.Node{recurseIntoChildrenSingular(fr)}
	}

	var out []ast.Node
	for i := startLit.I64; i < end; i += step {
		body := foldConstantsList(substituteVar(fr.Body, fr.Var, i))
		out = append(out, unrollSmallLoopsList(body)...)
	}
	return out
}

func recurseIntoChildrenSingular(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.If:
		return ast.NewIf(v.Position(), v.ResolvedKind(), v.Cond, unrollSmallLoopsList(v.Then), unrollSmallLoopsList(v.Else))
	case *ast.While:
		return ast.NewWhile(v.Position(), v.Label, v.Cond, unrollSmallLoopsList(v.Body))
	case *ast.Block:
		return ast.NewBlock(v.Position(), v.ResolvedKind(), unrollSmallLoopsList(v.Stmts))
	case *ast.FuncDecl:
		return ast.NewFuncDecl(v.Position(), v.Name, v.Params, v.ReturnKind, unrollSmallLoopsList(v.Body))
	case *ast.TryCatch:
		return ast.NewTryCatch(v.Position(), unrollSmallLoopsList(v.Body), v.HandlerVar, unrollSmallLoopsList(v.Handler))
	case *ast.ForRange:
		return ast.NewForRange(v.Position(), v.Label, v.Var, v.Start, v.End, v.Step, v.Inclusive, unrollSmallLoopsList(v.Body))
	default:
		return n
	}
}

func containsBreakContinue(stmts []ast.Node) bool {
	for _, s := range stmts {
		switch v := s.(type) {
		case *ast.BreakContinue:
			return true
		case *ast.If:
			if containsBreakContinue(v.Then) || containsBreakContinue(v.Else) {
				return true
			}
		case *ast.Block:
			if containsBreakContinue(v.Stmts) {
				return true
			}
		case *ast.TryCatch:
			if containsBreakContinue(v.Body) || containsBreakContinue(v.Handler) {
				return true
			}
			// Nested While/ForRange own their own break/continue scope,
			// so their contents do not count against the outer loop.
		}
	}
	return false
}

// substituteVar replaces every VarRef named `name` in stmts with an
// integer literal `val`, used by unrolling to specialize the loop body
// per iteration.
func substituteVar(stmts []ast.Node, name string, val int64) []ast.Node {
	out := make([]ast.Node, len(stmts))
	for i, s := range stmts {
		out[i] = substituteVarNode(s, name, val)
	}
	return out
}

func substituteVarNode(n ast.Node, name string, val int64) ast.Node {
	switch v := n.(type) {
	case *ast.VarRef:
		if v.Name == name {
			return ast.NewIntLiteral(v.Position(), v.ResolvedKind(), val)
		}
		return v
	case *ast.Binary:
		return ast.NewBinary(v.Position(), v.ResolvedKind(), v.Op, substituteVarNode(v.Left, name, val), substituteVarNode(v.Right, name, val))
	case *ast.Unary:
		return ast.NewUnary(v.Position(), v.ResolvedKind(), v.Op, substituteVarNode(v.Operand, name, val))
	case *ast.If:
		return ast.NewIf(v.Position(), v.ResolvedKind(), substituteVarNode(v.Cond, name, val), substituteVar(v.Then, name, val), substituteVar(v.Else, name, val))
	case *ast.Block:
		return ast.NewBlock(v.Position(), v.ResolvedKind(), substituteVar(v.Stmts, name, val))
	case *ast.Call:
		args := make([]ast.Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = substituteVarNode(a, name, val)
		}
		return ast.NewCall(v.Position(), v.ResolvedKind(), substituteVarNode(v.Callee, name, val), args)
	case *ast.Print:
		args := make([]ast.Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = substituteVarNode(a, name, val)
		}
		return ast.NewPrint(v.Position(), args, v.Newline)
	case *ast.Assign:
		return ast.NewAssign(v.Position(), v.Target, substituteVarNode(v.Value, name, val))
	case *ast.Return:
		if v.Value == nil {
			return v
		}
		return ast.NewReturn(v.Position(), substituteVarNode(v.Value, name, val))
	case *ast.ArrayLiteral:
		elems := make([]ast.Node, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = substituteVarNode(e, name, val)
		}
		return ast.NewArrayLiteral(v.Position(), v.ResolvedKind(), elems)
	case *ast.Index:
		return ast.NewIndex(v.Position(), v.ResolvedKind(), substituteVarNode(v.Array, name, val), substituteVarNode(v.At, name, val))
	case *ast.IndexAssign:
		return ast.NewIndexAssign(v.Position(), substituteVarNode(v.Array, name, val), substituteVarNode(v.At, name, val), substituteVarNode(v.Value, name, val))
	case *ast.Coerce:
		return ast.NewCoerce(v.Position(), v.From, v.ResolvedKind(), substituteVarNode(v.Value, name, val))
	default:
		return n
	}
}

// ---- Loop-invariant hoisting ----

func hoistLoopInvariantsList(stmts []ast.Node) []ast.Node {
	var out []ast.Node
	for _, s := range stmts {
		out = append(out, hoistLoopInvariants(s)...)
	}
	return out
}

// hoistLoopInvariants finds, within a While or ForRange body, pure
// Binary expressions whose operands are all literals or references to
// variables never assigned inside the loop and never the induction
// variable, and lifts them before the loop header as a synthetic
// binding, rewriting in-body references to a fresh VarRef. Per spec.md
// 4.7's three conditions: no side effects, independent of
// loop-mutated variables, independent of the induction variable.
func hoistLoopInvariants(n ast.Node) []ast.Node {
	switch v := n.(type) {
	case *ast.While:
		return hoistFromLoop(v.Position(), "", v.Cond, v.Body, func(cond ast.Node, body []ast.Node) ast.Node {
			return ast.NewWhile(v.Position(), v.Label, cond, body)
		})
	case *ast.ForRange:
		mutated := mutatedNames(v.Body)
		mutated[v.Var] = true
		hoisted, body := hoistPure(v.Body, mutated)
		newLoop := ast.NewForRange(v.Position(), v.Label, v.Var, v.Start, v.End, v.Step, v.Inclusive, body)
		return append(hoisted, newLoop)
	case *ast.If:
		return []ast.Node{ast.NewIf(v.Position(), v.ResolvedKind(), v.Cond, hoistLoopInvariantsList(v.Then), hoistLoopInvariantsList(v.Else))}
	case *ast.Block:
		return []ast.Node{ast.NewBlock(v.Position(), v.ResolvedKind(), hoistLoopInvariantsList(v.Stmts))}
	case *ast.FuncDecl:
		return []ast.Node{ast.NewFuncDecl(v.Position(), v.Name, v.Params, v.ReturnKind, hoistLoopInvariantsList(v.Body))}
	default:
		return []ast.Node{n}
	}
}

func hoistFromLoop(pos ast.Pos, inductionVar string, cond ast.Node, body []ast.Node, rebuild func(ast.Node, []ast.Node) ast.Node) []ast.Node {
	mutated := mutatedNames(body)
	if inductionVar != "" {
		mutated[inductionVar] = true
	}
	hoisted, newBody := hoistPure(body, mutated)
	return append(hoisted, rebuild(cond, newBody))
}

var hoistCounter int

// hoistPure walks stmts looking for top-level ExpressionStatement-like
// Binary nodes assigned nowhere in particular; in this AST shape,
// invariant hoisting targets the right-hand sides of Assign nodes and
// Print arguments, the two places a bare Binary subexpression commonly
// appears as a loop-body statement.
func hoistPure(stmts []ast.Node, mutated map[string]bool) ([]ast.Node, []ast.Node) {
	var hoisted []ast.Node
	newStmts := make([]ast.Node, len(stmts))
	for i, s := range stmts {
		newStmts[i] = hoistInStmt(s, mutated, &hoisted)
	}
	return hoisted, newStmts
}

func hoistInStmt(s ast.Node, mutated map[string]bool, hoisted *[]ast.Node) ast.Node {
	switch v := s.(type) {
	case *ast.Assign:
		return ast.NewAssign(v.Position(), v.Target, hoistExpr(v.Value, mutated, hoisted))
	case *ast.Print:
		args := make([]ast.Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = hoistExpr(a, mutated, hoisted)
		}
		return ast.NewPrint(v.Position(), args, v.Newline)
	case *ast.If:
		return ast.NewIf(v.Position(), v.ResolvedKind(), v.Cond, v.Then, v.Else)
	default:
		return s
	}
}

// hoistExpr lifts n itself if it qualifies as invariant; otherwise
// returns n unchanged (sub-expression hoisting is not attempted, to
// keep the rewrite obviously safe).
func hoistExpr(n ast.Node, mutated map[string]bool, hoisted *[]ast.Node) ast.Node {
	bin, ok := n.(*ast.Binary)
	if !ok || !isPure(bin) || !isInvariant(bin, mutated) {
		return n
	}
	hoistCounter++
	tmpName := hoistedTempName(hoistCounter)
	*hoisted = append(*hoisted, ast.NewAssign(bin.Position(), tmpName, bin))
	return ast.NewVarRef(bin.Position(), bin.ResolvedKind(), tmpName)
}

func hoistedTempName(n int) string {
	const letters = "0123456789abcdef"
	digits := ""
	for {
		digits = string(letters[n%16]) + digits
		n /= 16
		if n == 0 {
			break
		}
	}
	return "$hoist" + digits
}

func isPure(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Literal, *ast.VarRef:
		return true
	case *ast.Binary:
		return isPure(v.Left) && isPure(v.Right)
	case *ast.Unary:
		return isPure(v.Operand)
	default:
		return false
	}
}

func isInvariant(n ast.Node, mutated map[string]bool) bool {
	switch v := n.(type) {
	case *ast.Literal:
		return true
	case *ast.VarRef:
		return !mutated[v.Name]
	case *ast.Binary:
		return isInvariant(v.Left, mutated) && isInvariant(v.Right, mutated)
	case *ast.Unary:
		return isInvariant(v.Operand, mutated)
	default:
		return false
	}
}

// mutatedNames collects every name assigned anywhere within stmts,
// including nested blocks/ifs/try bodies and nested loops' bodies, and
// also nested for-range loops' own induction variables.
func mutatedNames(stmts []ast.Node) map[string]bool {
	m := make(map[string]bool)
	var walk func([]ast.Node)
	walk = func(ss []ast.Node) {
		for _, s := range ss {
			switch v := s.(type) {
			case *ast.Assign:
				m[v.Target] = true
				walk([]ast.Node{v.Value})
			case *ast.If:
				walk(v.Then)
				walk(v.Else)
			case *ast.Block:
				walk(v.Stmts)
			case *ast.While:
				walk(v.Body)
			case *ast.ForRange:
				m[v.Var] = true
				walk(v.Body)
			case *ast.TryCatch:
				walk(v.Body)
				walk(v.Handler)
			}
		}
	}
	walk(stmts)
	return m
}
