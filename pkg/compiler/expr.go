package compiler

import (
	"strconv"

	"github.com/rigz-lang/rigz/pkg/ast"
	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/value"
)

// binaryOpTable maps the Pratt table's operator text (§4.2) onto the
// BinaryOperation the Binary/BinaryAssign instructions carry; the token
// text is lifted verbatim off lexer.Token.Text by the parser, so these
// strings must track infixBP's keys exactly.
var binaryOpTable = map[string]value.BinaryOperation{
	"+": value.OpAdd, "-": value.OpSub, "*": value.OpMul, "/": value.OpDiv, "%": value.OpRem,
	"&&": value.OpAnd, "||": value.OpOr, "and": value.OpAnd, "or": value.OpOr, "&": value.OpBitAnd, "|": value.OpBitOr, "^": value.OpXor,
	"<<": value.OpShl, ">>": value.OpShr,
	"==": value.OpEq, "!=": value.OpNeq,
	"<": value.OpLt, "<=": value.OpLte, ">": value.OpGt, ">=": value.OpGte,
	"?:": value.OpElvis,
}

var unaryOpTable = map[string]value.UnaryOperation{
	"-": value.OpNeg,
	"!": value.OpNot,
}

func (c *Compiler) loadInline(v value.ObjectValue) {
	c.emit(bytecode.Instruction{Op: bytecode.OpLoad, Load: bytecode.LoadValue{Kind: bytecode.LoadInline, Value: v}})
}

func (c *Compiler) loadConstant(v value.ObjectValue) {
	idx := c.addConstant(v)
	c.emit(bytecode.Instruction{Op: bytecode.OpLoad, Load: bytecode.LoadValue{Kind: bytecode.LoadConstant, Constant: idx}})
}

func (c *Compiler) literalValue(n *ast.Literal) value.ObjectValue {
	switch n.Kind {
	case ast.LitNone:
		return value.None()
	case ast.LitBool:
		return value.BoolV(n.Bool)
	case ast.LitInt:
		i, _ := strconv.ParseInt(n.Text, 10, 64)
		return value.IntV(i)
	case ast.LitFloat:
		f, _ := strconv.ParseFloat(n.Text, 64)
		return value.FloatV(f)
	case ast.LitString, ast.LitSymbol:
		// Symbols fold into String constants; Rigz's Value model has no
		// separate interned-symbol variant of its own to target.
		return value.StringV(n.Text)
	default:
		return value.None()
	}
}

// constFold evaluates e at compile time for use as a ScopeArg.Default
// (§4.6's "missing args must have defaults"): literals and negated numeric
// literals fold; anything else is rejected with a diagnostic, since
// ScopeArg carries a single ObjectValue rather than a re-evaluable
// expression.
func (c *Compiler) constFold(e ast.Expression) (value.ObjectValue, bool) {
	if e == nil {
		return value.None(), false
	}
	switch n := e.(type) {
	case *ast.Literal:
		return c.literalValue(n), true
	case *ast.UnaryExpr:
		if n.Op == "-" {
			if lit, ok := n.Operand.(*ast.Literal); ok {
				v := c.literalValue(lit)
				if v.Kind == value.KNumber {
					return value.NumV(v.Num.Neg()), true
				}
			}
		}
	}
	c.err("default value must be a constant expression")
	return value.None(), true
}

// emitExpr lowers e so that exactly one value is left on the operand stack.
func (c *Compiler) emitExpr(e ast.Expression) {
	switch n := e.(type) {
	case *ast.Literal:
		v := c.literalValue(n)
		if n.Kind == ast.LitString || n.Kind == ast.LitSymbol {
			c.loadConstant(v)
		} else {
			c.loadInline(v)
		}
	case *ast.Identifier:
		c.emitIdentifier(n.Name)
	case *ast.ThisExpr:
		c.emitIdentifier("self")
	case *ast.BinaryExpr:
		c.emitExpr(n.Left)
		c.emitExpr(n.Right)
		op, ok := binaryOpTable[n.Op]
		if !ok {
			c.err("unknown binary operator %q", n.Op)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpBinary, Binary: op})
	case *ast.UnaryExpr:
		c.emitExpr(n.Operand)
		op, ok := unaryOpTable[n.Op]
		if !ok {
			c.err("unknown unary operator %q", n.Op)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpUnary, Unary: op})
	case *ast.CallExpr:
		c.emitCall(n.Receiver, n.Callee, n.Args)
	case *ast.IndexExpr:
		c.emitExpr(n.Target)
		c.emitExpr(n.Index)
		c.emit(bytecode.Instruction{Op: bytecode.OpInstanceGet})
	case *ast.FieldExpr:
		if _, err := strconv.ParseInt(n.Field, 10, 64); err != nil && len(c.candidates(n.Field, true)) > 0 {
			// `x.name` with no parentheses is a zero-argument receiver call
			// when an extension of that name is registered (§8's S2 `.sum`).
			c.emitCall(n.Target, n.Field, nil)
			break
		}
		c.emitExpr(n.Target)
		if idx, err := strconv.ParseInt(n.Field, 10, 64); err == nil {
			// `tuple.0`/`list.1` positional access (§8's S4, §5's pids.0) —
			// the field text is digits, so push an Int index rather than a
			// String key (the only key shape instanceGet's List/Tuple cases
			// accept).
			c.loadInline(value.IntV(idx))
		} else {
			c.loadConstant(value.StringV(n.Field))
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpInstanceGet})
	case *ast.ListExpr:
		for _, it := range n.Items {
			c.emitExpr(it)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpCreateObject, TypeName: "List", Args: len(n.Items)})
	case *ast.SetExpr:
		for _, it := range n.Items {
			c.emitExpr(it)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpCreateObject, TypeName: "Set", Args: len(n.Items)})
	case *ast.MapExpr:
		for _, ent := range n.Entries {
			c.emitExpr(ent.Key)
			c.emitExpr(ent.Value)
		}
		// Args counts raw stack values pushed (key, value interleaved per
		// entry), not entry pairs, since CreateObject has no separate
		// pair-count field of its own.
		c.emit(bytecode.Instruction{Op: bytecode.OpCreateObject, TypeName: "Map", Args: len(n.Entries) * 2})
	case *ast.TupleExpr:
		for _, it := range n.Items {
			c.emitExpr(it)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpCreateObject, TypeName: "Tuple", Args: len(n.Items)})
	case *ast.RangeExpr:
		c.emitExpr(n.Start)
		c.emitExpr(n.End)
		c.emit(bytecode.Instruction{Op: bytecode.OpCreateObject, TypeName: "Range", Args: 2})
	case *ast.BlockExpr:
		id := c.compileBlockScope(n, "block")
		c.emit(bytecode.Instruction{Op: bytecode.OpLoad, Load: bytecode.LoadValue{Kind: bytecode.LoadScopeID, ScopeID: id}})
	case *ast.IfExpr:
		c.emitIfExpr(n)
	case *ast.LoopExpr:
		bodyID := c.compileBlockScope(n.Body, "loop")
		c.emit(bytecode.Instruction{Op: bytecode.OpLoop, Scope: bodyID})
	case *ast.ForExpr:
		c.emitForExpr(n)
	case *ast.MatchExpr:
		c.emitMatchExpr(n)
	case *ast.TryExpr:
		c.emitExpr(n.Operand)
		c.emit(bytecode.Instruction{Op: bytecode.OpTry})
	case *ast.CatchExpr:
		c.emitCatchExpr(n)
	case *ast.CastExpr:
		c.emitExpr(n.Operand)
		c.emit(bytecode.Instruction{Op: bytecode.OpCast, TypeName: n.TypeName})
	case *ast.EnumConstructExpr:
		c.emitEnumConstruct(n)
	case *ast.ObjectConstructExpr:
		c.emitObjectConstruct(n)
	default:
		c.err("unsupported expression %T", e)
		c.loadInline(value.None())
	}
}

func (c *Compiler) emitIdentifier(name string) {
	if _, ok := c.lookupVar(name); ok {
		c.emit(bytecode.Instruction{Op: bytecode.OpGetVariable, Var: c.intern(name)})
		return
	}
	if len(c.overloads[name]) > 0 {
		c.emitCall(nil, name, nil)
		return
	}
	c.err("undefined variable or function %q", name)
	c.loadInline(value.None())
}

// compileBlockScope allocates a scope for a lambda/block/control-structure
// body, registering its declared parameters (with constant-folded defaults)
// before lowering the body.
func (c *Compiler) compileBlockScope(b *ast.BlockExpr, name string) int {
	return c.allocScope(name, func(id int) {
		scope := c.prog.Scopes[id]
		for _, p := range b.Params {
			def, hasDefault := c.constFold(p.Default)
			scope.Args = append(scope.Args, bytecode.ScopeArg{
				Name: p.Name, Mutable: p.Mutable, HasDefault: hasDefault, Default: def,
			})
			c.declareVar(p.Name, p.Mutable)
		}
		c.emitBlockBody(b.Body)
		c.emit(bytecode.Instruction{Op: bytecode.OpRet})
	})
}

func (c *Compiler) emitIfExpr(n *ast.IfExpr) {
	thenBlk, elseBlk := n.Then, n.Else
	negated := n.Negated
	if negated && elseBlk != nil {
		thenBlk, elseBlk = elseBlk, thenBlk
		negated = false
	}
	thenID := c.compileBlockScope(thenBlk, "if-then")
	if elseBlk != nil {
		elseID := c.compileBlockScope(elseBlk, "if-else")
		c.emitExpr(n.Condition)
		c.emit(bytecode.Instruction{Op: bytecode.OpIfElse, Scope: thenID, ElseScope: elseID})
		return
	}
	c.emitExpr(n.Condition)
	op := bytecode.OpIf
	if negated {
		op = bytecode.OpUnless
	}
	c.emit(bytecode.Instruction{Op: op, Scope: thenID})
}

// emitForExpr lowers both the comprehension form (`for x in it : expr`,
// §4.3) and the plain imperative form to the For/ForList/ForMap family: the
// binding names become the body scope's declared args so the VM can rebind
// them fresh each iteration the way a CallFrame rebinds parameters.
func (c *Compiler) emitForExpr(n *ast.ForExpr) {
	c.emitExpr(n.Iterable)
	bodyID := c.allocScope("for", func(id int) {
		scope := c.prog.Scopes[id]
		for _, b := range n.Binding {
			scope.Args = append(scope.Args, bytecode.ScopeArg{Name: b})
			c.declareVar(b, false)
		}
		if n.Comprehension != nil {
			c.emitExpr(n.Comprehension)
		} else {
			c.emitBlockBody(n.Body.Body)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpRet})
	})
	op := bytecode.OpFor
	if n.Comprehension != nil {
		op = bytecode.OpForList
		if len(n.Binding) >= 2 {
			op = bytecode.OpForMap
		}
	}
	c.emit(bytecode.Instruction{Op: op, Scope: bodyID})
}

func (c *Compiler) emitMatchExpr(n *ast.MatchExpr) {
	c.emitExpr(n.Subject)
	arms := make([]bytecode.MatchArm, 0, len(n.Arms))
	for _, a := range n.Arms {
		bodyID := c.allocScope("match-arm", func(id int) {
			scope := c.prog.Scopes[id]
			if a.Binding != "" {
				scope.Args = append(scope.Args, bytecode.ScopeArg{Name: a.Binding})
				c.declareVar(a.Binding, false)
			}
			c.emitBlockBody(a.Body.Body)
			c.emit(bytecode.Instruction{Op: bytecode.OpRet})
		})
		if a.EnumName == "" {
			arms = append(arms, bytecode.MatchArm{Kind: bytecode.MatchArmElse, A: bodyID})
			continue
		}
		decl, ok := c.prog.Enums[a.EnumName]
		variantID := -1
		enumID := 0
		if ok {
			enumID = decl.ID
			for i, v := range decl.Variants {
				if v == a.Variant {
					variantID = i
					break
				}
			}
		} else {
			c.err("match arm references undeclared enum %q", a.EnumName)
		}
		arms = append(arms, bytecode.MatchArm{Kind: bytecode.MatchArmEnum, A: enumID, B: variantID, BodyScope: bodyID})
	}
	c.emit(bytecode.Instruction{Op: bytecode.OpMatch, MatchArms: arms})
}

func (c *Compiler) emitCatchExpr(n *ast.CatchExpr) {
	handlerID := c.allocScope("catch", func(id int) {
		scope := c.prog.Scopes[id]
		if n.ErrName != "" {
			scope.Args = append(scope.Args, bytecode.ScopeArg{Name: n.ErrName})
			c.declareVar(n.ErrName, false)
		}
		c.emitBlockBody(n.Handler.Body)
		c.emit(bytecode.Instruction{Op: bytecode.OpRet})
	})
	c.emitExpr(n.Operand)
	c.emit(bytecode.Instruction{Op: bytecode.OpCatch, Scope: handlerID, HasFlag: n.ErrName != ""})
}

func (c *Compiler) emitEnumConstruct(n *ast.EnumConstructExpr) {
	decl, ok := c.prog.Enums[n.EnumName]
	variantID := -1
	enumID := 0
	if ok {
		enumID = decl.ID
		for i, v := range decl.Variants {
			if v == n.Variant {
				variantID = i
				break
			}
		}
	} else {
		c.err("undeclared enum %q", n.EnumName)
	}
	hasPayload := n.Payload != nil
	if hasPayload {
		c.emitExpr(n.Payload)
	}
	c.emit(bytecode.Instruction{Op: bytecode.OpCreateEnum, EnumType: enumID, Variant: variantID, HasFlag: hasPayload})
}

func (c *Compiler) emitObjectConstruct(n *ast.ObjectConstructExpr) {
	fields := n.Fields
	if decl, ok := c.prog.Objects[n.TypeName]; ok {
		names := make([]string, len(decl.Fields))
		for i, f := range decl.Fields {
			names[i] = f.Name
		}
		fields = c.orderArgs(n.Fields, names)
	}
	for _, f := range fields {
		c.emitExpr(f.Value)
	}
	c.emit(bytecode.Instruction{Op: bytecode.OpCreateObject, TypeName: n.TypeName, Args: len(fields)})
}
