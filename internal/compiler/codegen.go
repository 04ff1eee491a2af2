package compiler

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/diag"
	"github.com/orus-lang/orus/internal/regfile"
	"github.com/orus-lang/orus/internal/value"
)

// Codegen implements Pass 2 of spec.md 4.7: a structural walk of the
// optimized typed AST into a Chunk, following the per-node-kind
// contract table. One Codegen compiles exactly one function body (or
// the top-level script, treated as an implicit function); nested
// FuncDecls recurse into a fresh Codegen for their own chunk.
type Codegen struct {
	chunk   *bytecode.Chunk
	patcher *Patcher
	alloc   *regfile.Allocator
	scopes  *scopeStack
	diags   *diag.Bag

	isTopLevel bool
	globals    map[string]regfile.LogicalID // shared across the whole compilation unit

	// FuncChunks collects every nested function's compiled chunk, keyed
	// by declared name, so the caller can link them into closures.
	FuncChunks map[string]*bytecode.Chunk
}

// NewCodegen constructs a codegen for the top-level script. globals is
// shared by reference with every nested FuncDecl's Codegen so a name
// bound at script scope resolves consistently across function bodies.
func NewCodegen(name string, diags *diag.Bag) *Codegen {
	g := &Codegen{
		chunk:      bytecode.NewChunk(name),
		alloc:      regfile.NewAllocator(),
		diags:      diags,
		globals:    make(map[string]regfile.LogicalID),
		isTopLevel: true,
		FuncChunks: make(map[string]*bytecode.Chunk),
	}
	g.patcher = NewPatcher(g.chunk)
	g.scopes = newScopeStack(g.alloc)
	return g
}

func newFunctionCodegen(name string, diags *diag.Bag, globals map[string]regfile.LogicalID) *Codegen {
	g := &Codegen{
		chunk:      bytecode.NewChunk(name),
		alloc:      regfile.NewAllocator(),
		diags:      diags,
		globals:    globals,
		isTopLevel: false,
		FuncChunks: make(map[string]*bytecode.Chunk),
	}
	g.patcher = NewPatcher(g.chunk)
	g.scopes = newScopeStack(g.alloc)
	return g
}

// Compile runs the structural walk over stmts (already optimized by
// Pass 1) and returns the finished chunk, terminated with halt.
func (g *Codegen) Compile(stmts []ast.Node) *bytecode.Chunk {
	if g.isTopLevel {
		g.scopes.pushBlock()
	} else {
		g.scopes.pushFunction()
	}
	for _, s := range stmts {
		g.compileStmt(s)
	}
	g.scopes.pop()
	g.chunk.Write(byte(bytecode.OpHalt), 0, 0)
	return g.chunk
}

func (g *Codegen) errf(pos ast.Pos, code diag.Code, format string, args ...interface{}) {
	g.diags.Add(diag.New(diag.SeverityCompile, code, pos, "", format, args...))
}

// ---- statements ----

func (g *Codegen) compileStmt(n ast.Node) {
	switch v := n.(type) {
	case *ast.Assign:
		g.compileAssign(v)
	case *ast.If:
		g.compileIf(v)
	case *ast.While:
		g.compileWhile(v)
	case *ast.ForRange:
		g.compileForRange(v)
	case *ast.Block:
		g.compileBlockStmt(v)
	case *ast.FuncDecl:
		g.compileFuncDecl(v)
	case *ast.Return:
		g.compileReturn(v)
	case *ast.BreakContinue:
		g.compileBreakContinue(v)
	case *ast.Print:
		g.compilePrint(v)
	case *ast.TryCatch:
		g.compileTryCatch(v)
	case *ast.IndexAssign:
		g.compileIndexAssign(v)
	case *ast.Index:
		// A bare Index statement still needs its value computed for
		// side effects; discard the result temp.
		id := g.compileExpr(v)
		g.alloc.Free(id)
	default:
		// Any other node in statement position is an expression
		// evaluated for its side effects (e.g. a bare Call).
		id := g.compileExpr(n)
		g.alloc.Free(id)
	}
}

func (g *Codegen) compileAssign(a *ast.Assign) {
	dst, ok := g.resolveOrDeclare(a.Target, a.Value.ResolvedKind())
	if !ok {
		return
	}
	g.compileExprInto(a.Value, dst)
}

func (g *Codegen) compileIndexAssign(a *ast.IndexAssign) {
	pos := a.Position()
	arr := g.compileExpr(a.Array)
	at := g.compileExpr(a.At)
	val := g.compileExpr(a.Value)
	g.emit3(bytecode.OpArraySet, int(arr), int(at), int(val), pos)
	g.alloc.Free(arr)
	g.alloc.Free(at)
	g.alloc.Free(val)
}

// resolveOrDeclare resolves an existing binding, or allocates a fresh
// register for a first assignment (this AST has no separate declare
// node; first assignment in a scope declares).
func (g *Codegen) resolveOrDeclare(name string, kind ast.Kind) (regfile.LogicalID, bool) {
	if id, ok := g.scopes.resolve(name); ok {
		return id, true
	}
	if g.isTopLevel {
		if id, ok := g.globals[name]; ok {
			return id, true
		}
		id := g.alloc.AllocGlobal()
		g.globals[name] = id
		g.scopes.bind(name, id)
		return id, true
	}
	id := g.alloc.AllocFrame()
	g.scopes.bind(name, id)
	return id, true
}

func (g *Codegen) compileIf(v *ast.If) {
	pos := v.Position()
	cond := g.compileExpr(v.Cond)
	elseJump := g.patcher.EmitJump(bytecode.OpJumpIfFalseShort, []int{int(cond)}, pos.Line, pos.Column)
	g.alloc.Free(cond)

	g.scopes.pushBlock()
	for _, s := range v.Then {
		g.compileStmt(s)
	}
	g.scopes.pop()

	var endJump pendingJump
	hasElse := len(v.Else) > 0
	if hasElse {
		endJump = g.patcher.EmitJump(bytecode.OpJumpShort, nil, pos.Line, pos.Column)
	}

	g.patcher.Resolve(patchList{elseJump}, g.chunk.Len())

	if hasElse {
		g.scopes.pushBlock()
		for _, s := range v.Else {
			g.compileStmt(s)
		}
		g.scopes.pop()
		g.patcher.Resolve(patchList{endJump}, g.chunk.Len())
	}
}

func (g *Codegen) compileWhile(v *ast.While) {
	pos := v.Position()
	header := g.chunk.Len()
	loopScope := g.scopes.pushLoop(v.Label, header)

	cond := g.compileExpr(v.Cond)
	exitJump := g.patcher.EmitJump(bytecode.OpJumpIfFalseShort, []int{int(cond)}, pos.Line, pos.Column)
	g.alloc.Free(cond)

	for _, s := range v.Body {
		g.compileStmt(s)
	}

	continueTarget := g.chunk.Len()
	g.patcher.Resolve(loopScope.continues, continueTarget)
	g.patcher.BackwardJump(bytecode.OpLoopShort, header, pos.Line, pos.Column)

	g.scopes.pop()
	g.patcher.Resolve(append(patchList{exitJump}, loopScope.breaks...), g.chunk.Len())
}

func (g *Codegen) compileForRange(v *ast.ForRange) {
	pos := v.Position()
	indVar, _ := g.resolveOrDeclare(v.Var, v.Start.ResolvedKind())
	g.compileExprInto(v.Start, indVar)

	end := g.compileExpr(v.End)

	header := g.chunk.Len()
	loopScope := g.scopes.pushLoop(v.Label, header)

	cmpOp := intCompareOpFor(v.Start.ResolvedKind(), v.Inclusive)
	cond := g.alloc.AllocTemp()
	g.emit3(cmpOp, int(cond), int(indVar), int(end), pos)
	exitJump := g.patcher.EmitJump(bytecode.OpJumpIfFalseShort, []int{int(cond)}, pos.Line, pos.Column)
	g.alloc.Free(cond)

	for _, s := range v.Body {
		g.compileStmt(s)
	}

	continueTarget := g.chunk.Len()
	g.patcher.Resolve(loopScope.continues, continueTarget)

	step := int64(1)
	if v.Step != nil {
		if lit, ok := v.Step.(*ast.Literal); ok && lit.IsInt {
			step = lit.I64
		}
	}
	if step == 1 {
		g.chunk.Write(byte(bytecode.OpIncI32), pos.Line, pos.Column)
		g.chunk.Write(byte(indVar), pos.Line, pos.Column)
	} else {
		stepConst := g.chunk.AddConstant(value.I32(int32(step)))
		stepReg := g.alloc.AllocTemp()
		g.emitLoadConst(stepReg, stepConst, pos)
		g.emit3(addOpFor(v.Start.ResolvedKind()), int(indVar), int(indVar), int(stepReg), pos)
		g.alloc.Free(stepReg)
	}

	g.patcher.BackwardJump(bytecode.OpLoopShort, header, pos.Line, pos.Column)

	g.scopes.pop()
	g.patcher.Resolve(append(patchList{exitJump}, loopScope.breaks...), g.chunk.Len())
	g.alloc.Free(end)
}

func (g *Codegen) compileBlockStmt(v *ast.Block) {
	g.scopes.pushBlock()
	for _, s := range v.Stmts {
		g.compileStmt(s)
	}
	g.scopes.pop()
}

func (g *Codegen) compileFuncDecl(v *ast.FuncDecl) {
	// Bind the name before compiling the body, not after: a recursive
	// call inside the body resolves through this same shared globals
	// map (fg.globals is g.globals by reference), so the binding has to
	// already exist for fib-calling-fib to find its own register.
	g.resolveOrDeclare(v.Name, ast.KindFunc)

	fg := newFunctionCodegen(v.Name, g.diags, g.globals)
	fg.scopes.pushFunction()
	for _, p := range v.Params {
		id := fg.alloc.AllocFrame()
		fg.scopes.bind(p.Name, id)
	}
	for _, s := range v.Body {
		fg.compileStmt(s)
	}
	fg.scopes.pop()
	fg.chunk.Write(byte(bytecode.OpReturnVoid), 0, 0)

	g.FuncChunks[v.Name] = fg.chunk
	for name, c := range fg.FuncChunks {
		g.FuncChunks[name] = c
	}
}

func (g *Codegen) compileReturn(v *ast.Return) {
	pos := v.Position()
	if v.Value == nil {
		g.chunk.Write(byte(bytecode.OpReturnVoid), pos.Line, pos.Column)
		return
	}
	val := g.compileExpr(v.Value)
	g.chunk.Write(byte(bytecode.OpReturn), pos.Line, pos.Column)
	g.chunk.Write(byte(val), pos.Line, pos.Column)
	g.alloc.Free(val)
}

func (g *Codegen) compileBreakContinue(v *ast.BreakContinue) {
	pos := v.Position()
	loop := g.scopes.nearestLoop(v.Label)
	if loop == nil {
		code := diag.CodeBreakOutsideLoop
		if !v.IsBreak {
			code = diag.CodeContinueOutsideLoop
		}
		g.errf(pos, code, "%s used outside any loop", breakContinueWord(v.IsBreak))
		return
	}
	pj := g.patcher.EmitJump(bytecode.OpJumpShort, nil, pos.Line, pos.Column)
	if v.IsBreak {
		loop.breaks = append(loop.breaks, pj)
	} else {
		loop.continues = append(loop.continues, pj)
	}
}

func breakContinueWord(isBreak bool) string {
	if isBreak {
		return "break"
	}
	return "continue"
}

func (g *Codegen) compilePrint(v *ast.Print) {
	pos := v.Position()
	if len(v.Args) == 1 {
		r := g.compileExpr(v.Args[0])
		g.chunk.Write(byte(bytecode.OpPrint), pos.Line, pos.Column)
		g.chunk.Write(byte(r), pos.Line, pos.Column)
		g.alloc.Free(r)
		return
	}
	regs := g.alloc.AllocConsecutiveTemps(len(v.Args))
	for i, a := range v.Args {
		g.compileExprInto(a, regs[i])
	}
	nl := byte(0)
	if v.Newline {
		nl = 1
	}
	g.chunk.Write(byte(bytecode.OpPrintMulti), pos.Line, pos.Column)
	g.chunk.Write(byte(regs[0]), pos.Line, pos.Column)
	g.chunk.Write(byte(len(regs)), pos.Line, pos.Column)
	g.chunk.Write(nl, pos.Line, pos.Column)
	for _, r := range regs {
		g.alloc.Free(r)
	}
}

func (g *Codegen) compileTryCatch(v *ast.TryCatch) {
	pos := v.Position()
	handlerReg := g.alloc.AllocTemp()
	g.chunk.Write(byte(bytecode.OpPushTry), pos.Line, pos.Column)
	handlerIPPlaceholder := g.chunk.Len()
	g.chunk.WriteU16(0, pos.Line, pos.Column)
	g.chunk.Write(byte(handlerReg), pos.Line, pos.Column)

	g.scopes.pushBlock()
	for _, s := range v.Body {
		g.compileStmt(s)
	}
	g.scopes.pop()
	g.chunk.Write(byte(bytecode.OpPopTry), pos.Line, pos.Column)
	skipHandler := g.patcher.EmitJump(bytecode.OpJumpShort, nil, pos.Line, pos.Column)

	handlerIP := g.chunk.Len()
	g.chunk.Patch2(handlerIPPlaceholder, uint16(handlerIP))

	g.scopes.pushBlock()
	g.scopes.bind(v.HandlerVar, handlerReg)
	for _, s := range v.Handler {
		g.compileStmt(s)
	}
	g.scopes.pop()
	g.alloc.Free(handlerReg)

	g.patcher.Resolve(patchList{skipHandler}, g.chunk.Len())
}

// ---- expressions ----

// compileExpr evaluates n into a fresh temp and returns it.
func (g *Codegen) compileExpr(n ast.Node) regfile.LogicalID {
	dst := g.alloc.AllocTemp()
	g.compileExprInto(n, dst)
	return dst
}

// compileExprInto evaluates n directly into dst where the node shape
// allows it (spec.md 4.7's Assignment contract: "compile RHS into the
// variable's register directly when possible, else emit move").
func (g *Codegen) compileExprInto(n ast.Node, dst regfile.LogicalID) {
	pos := n.Position()
	switch v := n.(type) {
	case *ast.Literal:
		g.compileLiteralInto(v, dst)
	case *ast.VarRef:
		id, ok := g.scopes.resolve(v.Name)
		if !ok {
			if gid, gok := g.globals[v.Name]; gok {
				id = gid
			} else {
				g.errf(pos, diag.CodeUndefinedVariable, "undefined variable %q", v.Name)
				return
			}
		}
		if id != dst {
			g.chunk.Write(byte(bytecode.OpMove), pos.Line, pos.Column)
			g.chunk.Write(byte(dst), pos.Line, pos.Column)
			g.chunk.Write(byte(id), pos.Line, pos.Column)
		}
	case *ast.Binary:
		g.compileBinaryInto(v, dst)
	case *ast.Unary:
		g.compileUnaryInto(v, dst)
	case *ast.Call:
		g.compileCallInto(v, dst)
	case *ast.If:
		g.compileIfExprInto(v, dst)
	case *ast.Block:
		g.compileBlockExprInto(v, dst)
	case *ast.ArrayLiteral:
		g.compileArrayLiteralInto(v, dst)
	case *ast.Index:
		g.compileIndexInto(v, dst)
	case *ast.Coerce:
		g.compileCoerceInto(v, dst)
	case *ast.Assign:
		g.compileAssign(v)
		if id, ok := g.scopes.resolve(v.Target); ok && id != dst {
			g.chunk.Write(byte(bytecode.OpMove), pos.Line, pos.Column)
			g.chunk.Write(byte(dst), pos.Line, pos.Column)
			g.chunk.Write(byte(id), pos.Line, pos.Column)
		}
	default:
		g.errf(pos, diag.CodeSemanticMismatch, "unsupported expression node")
	}
}

func (g *Codegen) compileLiteralInto(lit *ast.Literal, dst regfile.LogicalID) {
	pos := lit.Position()
	switch {
	case lit.IsNil:
		g.chunk.Write(byte(bytecode.OpLoadNil), pos.Line, pos.Column)
		g.chunk.Write(byte(dst), pos.Line, pos.Column)
	case lit.IsBool:
		op := bytecode.OpLoadFalse
		if lit.Bool {
			op = bytecode.OpLoadTrue
		}
		g.chunk.Write(byte(op), pos.Line, pos.Column)
		g.chunk.Write(byte(dst), pos.Line, pos.Column)
	default:
		idx := g.chunk.AddConstant(literalToValue(lit))
		g.emitLoadConst(dst, idx, pos)
	}
}

func (g *Codegen) emitLoadConst(dst regfile.LogicalID, constIdx int, pos ast.Pos) {
	g.chunk.Write(byte(bytecode.OpLoadConst), pos.Line, pos.Column)
	g.chunk.Write(byte(dst), pos.Line, pos.Column)
	g.chunk.WriteU16(uint16(constIdx), pos.Line, pos.Column)
}

func literalToValue(lit *ast.Literal) value.Value {
	switch {
	case lit.IsBool:
		return value.Bool(lit.Bool)
	case lit.IsF64:
		return value.F64(lit.F64)
	case lit.IsStr:
		return value.FromObject(value.NewStringObject(lit.Str))
	case lit.IsUint:
		if lit.ResolvedKind() == ast.KindU32 {
			return value.U32(uint32(lit.U64))
		}
		return value.U64(lit.U64)
	case lit.IsInt:
		if lit.ResolvedKind() == ast.KindI64 {
			return value.I64(lit.I64)
		}
		return value.I32(int32(lit.I64))
	default:
		return value.Nil
	}
}

func (g *Codegen) compileBinaryInto(b *ast.Binary, dst regfile.LogicalID) {
	pos := b.Position()
	if b.Op == ast.OpLogAnd || b.Op == ast.OpLogOr {
		g.compileShortCircuitInto(b, dst)
		return
	}
	left := g.compileExpr(b.Left)
	right := g.compileExpr(b.Right)
	op, ok := binOpcode(b.Left.ResolvedKind(), b.Op)
	if !ok {
		g.errf(pos, diag.CodeSemanticMismatch, "no opcode for operator on kind %v", b.Left.ResolvedKind())
		g.alloc.Free(left)
		g.alloc.Free(right)
		return
	}
	g.emit3(op, int(dst), int(left), int(right), pos)
	g.alloc.Free(left)
	g.alloc.Free(right)
}

// compileShortCircuitInto lowers && / || to jumps rather than
// and_bool/or_bool so the right operand is only evaluated when needed.
func (g *Codegen) compileShortCircuitInto(b *ast.Binary, dst regfile.LogicalID) {
	pos := b.Position()
	g.compileExprInto(b.Left, dst)
	var skip pendingJump
	if b.Op == ast.OpLogAnd {
		skip = g.patcher.EmitJump(bytecode.OpJumpIfFalseShort, []int{int(dst)}, pos.Line, pos.Column)
	} else {
		skip = g.patcher.EmitJump(bytecode.OpJumpIfTrueShort, []int{int(dst)}, pos.Line, pos.Column)
	}
	g.compileExprInto(b.Right, dst)
	g.patcher.Resolve(patchList{skip}, g.chunk.Len())
}

func (g *Codegen) compileUnaryInto(u *ast.Unary, dst regfile.LogicalID) {
	pos := u.Position()
	src := g.compileExpr(u.Operand)
	var op bytecode.Op
	switch u.Op {
	case ast.OpNeg:
		op = negOpFor(u.ResolvedKind())
	case ast.OpNot:
		op = bytecode.OpNotBool
	case ast.OpBitNot:
		op = bytecode.OpBitNot
	}
	g.chunk.Write(byte(op), pos.Line, pos.Column)
	g.chunk.Write(byte(dst), pos.Line, pos.Column)
	g.chunk.Write(byte(src), pos.Line, pos.Column)
	g.alloc.Free(src)
}

func (g *Codegen) compileCallInto(c *ast.Call, dst regfile.LogicalID) {
	pos := c.Position()
	callee, ok := c.Callee.(*ast.VarRef)
	if !ok {
		g.errf(pos, diag.CodeSemanticMismatch, "call target must be a named function")
		return
	}
	funcReg, ok := g.scopes.resolve(callee.Name)
	if !ok {
		if gid, gok := g.globals[callee.Name]; gok {
			funcReg = gid
		} else {
			g.errf(pos, diag.CodeUndefinedVariable, "undefined function %q", callee.Name)
			return
		}
	}
	argRegs := g.alloc.AllocConsecutiveTemps(len(c.Args))
	for i, a := range c.Args {
		g.compileExprInto(a, argRegs[i])
	}
	first := 0
	if len(argRegs) > 0 {
		first = int(argRegs[0])
	}
	g.chunk.Write(byte(bytecode.OpCall), pos.Line, pos.Column)
	g.chunk.Write(byte(funcReg), pos.Line, pos.Column)
	g.chunk.Write(byte(first), pos.Line, pos.Column)
	g.chunk.Write(byte(len(argRegs)), pos.Line, pos.Column)
	g.chunk.Write(byte(dst), pos.Line, pos.Column)
	for _, r := range argRegs {
		g.alloc.Free(r)
	}
}

func (g *Codegen) compileIfExprInto(v *ast.If, dst regfile.LogicalID) {
	pos := v.Position()
	cond := g.compileExpr(v.Cond)
	elseJump := g.patcher.EmitJump(bytecode.OpJumpIfFalseShort, []int{int(cond)}, pos.Line, pos.Column)
	g.alloc.Free(cond)

	g.scopes.pushBlock()
	g.compileBodyExprInto(v.Then, dst)
	g.scopes.pop()
	endJump := g.patcher.EmitJump(bytecode.OpJumpShort, nil, pos.Line, pos.Column)

	g.patcher.Resolve(patchList{elseJump}, g.chunk.Len())
	g.scopes.pushBlock()
	g.compileBodyExprInto(v.Else, dst)
	g.scopes.pop()
	g.patcher.Resolve(patchList{endJump}, g.chunk.Len())
}

// compileBodyExprInto compiles all but the last statement for effect,
// and the last into dst (expression-oriented block/if semantics).
func (g *Codegen) compileBodyExprInto(stmts []ast.Node, dst regfile.LogicalID) {
	if len(stmts) == 0 {
		pos := ast.Pos{}
		g.chunk.Write(byte(bytecode.OpLoadNil), pos.Line, pos.Column)
		g.chunk.Write(byte(dst), pos.Line, pos.Column)
		return
	}
	for _, s := range stmts[:len(stmts)-1] {
		g.compileStmt(s)
	}
	g.compileExprInto(stmts[len(stmts)-1], dst)
}

func (g *Codegen) compileBlockExprInto(v *ast.Block, dst regfile.LogicalID) {
	g.scopes.pushBlock()
	g.compileBodyExprInto(v.Stmts, dst)
	g.scopes.pop()
}

func (g *Codegen) compileArrayLiteralInto(v *ast.ArrayLiteral, dst regfile.LogicalID) {
	pos := v.Position()
	regs := g.alloc.AllocConsecutiveTemps(len(v.Elems))
	for i, e := range v.Elems {
		g.compileExprInto(e, regs[i])
	}
	first := 0
	if len(regs) > 0 {
		first = int(regs[0])
	}
	g.chunk.Write(byte(bytecode.OpMakeArray), pos.Line, pos.Column)
	g.chunk.Write(byte(dst), pos.Line, pos.Column)
	g.chunk.Write(byte(first), pos.Line, pos.Column)
	g.chunk.Write(byte(len(regs)), pos.Line, pos.Column)
	for _, r := range regs {
		g.alloc.Free(r)
	}
}

func (g *Codegen) compileIndexInto(v *ast.Index, dst regfile.LogicalID) {
	pos := v.Position()
	arr := g.compileExpr(v.Array)
	at := g.compileExpr(v.At)
	g.emit3(bytecode.OpArrayGet, int(dst), int(arr), int(at), pos)
	g.alloc.Free(arr)
	g.alloc.Free(at)
}

func (g *Codegen) compileCoerceInto(v *ast.Coerce, dst regfile.LogicalID) {
	pos := v.Position()
	src := g.compileExpr(v.Value)
	op, ok := coerceOpcode(v.From, v.ResolvedKind())
	if !ok {
		g.errf(pos, diag.CodeConversionFailure, "no coercion from %v to %v", v.From, v.ResolvedKind())
		g.alloc.Free(src)
		return
	}
	g.chunk.Write(byte(op), pos.Line, pos.Column)
	g.chunk.Write(byte(dst), pos.Line, pos.Column)
	g.chunk.Write(byte(src), pos.Line, pos.Column)
	g.alloc.Free(src)
}

func (g *Codegen) emit3(op bytecode.Op, dst, a, b int, pos ast.Pos) {
	g.chunk.Write(byte(op), pos.Line, pos.Column)
	g.chunk.Write(byte(dst), pos.Line, pos.Column)
	g.chunk.Write(byte(a), pos.Line, pos.Column)
	g.chunk.Write(byte(b), pos.Line, pos.Column)
}
