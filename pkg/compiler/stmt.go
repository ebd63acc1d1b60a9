package compiler

import (
	"fmt"

	"github.com/rigz-lang/rigz/pkg/ast"
	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/value"
)

// emitBlockBody lowers a block's statement sequence so that the final
// element's value (if it is an expression) remains on the stack as the
// block's own value (§4.2's implicit-last-expression-return rule);
// non-final expression statements are popped, and a block ending in a
// non-expression statement yields None.
func (c *Compiler) emitBlockBody(elements []ast.Element) {
	if len(elements) == 0 {
		c.loadInline(value.None())
		return
	}
	for i, el := range elements {
		last := i == len(elements)-1
		if es, ok := el.(*ast.ExprStmt); ok {
			c.emitExpr(es.Expr)
			if !last {
				c.emit(bytecode.Instruction{Op: bytecode.OpPop, Args: 1})
			}
			continue
		}
		c.emitElement(el)
		if last {
			c.loadInline(value.None())
		}
	}
}

// emitElement lowers one non-expression Element. ExprStmt is handled here
// too (for top-level statements compiled outside emitBlockBody's
// last-value tracking), discarding its value once produced.
func (c *Compiler) emitElement(el ast.Element) {
	switch n := el.(type) {
	case *ast.BindingStmt:
		c.emitBindingStmt(n)
	case *ast.ImportStmt:
		c.emitImportStmt(n)
	case *ast.ExportStmt:
		c.prog.Exports = append(c.prog.Exports, n.Name)
	case *ast.ControlStmt:
		c.emitControlStmt(n)
	case *ast.EnumDef:
		c.declareEnum(n)
	case *ast.ObjectDef:
		c.declareObject(n)
	case *ast.FunctionDef:
		c.compileFunctionDef(n, nil, false)
	case *ast.TraitDef:
		c.compileTraitDef(n)
	case *ast.ImplDef:
		c.compileImplDef(n)
	case *ast.ExprStmt:
		c.emitExpr(n.Expr)
		c.emit(bytecode.Instruction{Op: bytecode.OpPop, Args: 1})
	default:
		c.err("unsupported statement %T", el)
	}
}

func (c *Compiler) emitImportStmt(n *ast.ImportStmt) {
	if c.prog.Modules == nil {
		c.err("import %q: no modules registered", n.Module)
		return
	}
	if _, _, ok := c.prog.Modules.ByName(n.Module); !ok {
		c.err("import %q: module not registered with the builder", n.Module)
	}
}

func (c *Compiler) emitControlStmt(n *ast.ControlStmt) {
	switch n.Kind {
	case ast.CtrlReturn:
		if n.Value != nil {
			c.emitExpr(n.Value)
		} else {
			c.loadInline(value.None())
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpRet})
	case ast.CtrlBreak:
		if n.Value != nil {
			c.emitExpr(n.Value)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpBreak, HasFlag: n.Value != nil})
	case ast.CtrlNext:
		if n.Value != nil {
			c.emitExpr(n.Value)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpNext, HasFlag: n.Value != nil})
	case ast.CtrlExit:
		if n.Value != nil {
			c.emitExpr(n.Value)
		} else {
			c.loadInline(value.None())
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpExit})
	}
}

func (c *Compiler) freshTemp() string {
	c.tempCounter++
	return fmt.Sprintf("$tmp%d", c.tempCounter)
}

// emitBindingStmt lowers `let`/`mut` declarations, plain reassignment, and
// compound-assignment statements (§4.3). Base.Path targets (`a.b = ...`,
// `a.b += ...`) bind the receiver into a hidden temp so it is only
// evaluated once even when the compound form reads it before writing.
func (c *Compiler) emitBindingStmt(n *ast.BindingStmt) {
	if n.Target.Base != nil {
		c.emitInstanceBinding(n)
		return
	}
	if len(n.Target.Names) > 1 {
		c.emitTupleDestructure(n)
		return
	}

	name := n.Target.Names[0]
	if n.Declare {
		c.emitExpr(n.Value)
		id := c.declareVar(name, n.Mutable)
		op := bytecode.OpLoadLet
		if n.Mutable {
			op = bytecode.OpLoadMut
		}
		c.emit(bytecode.Instruction{Op: op, Var: id, HasFlag: n.Shadow})
		return
	}

	// A bare `name = expr` with no prior `let`/`mut` (§4.2's plain
	// "identifier" L-value form, distinct from "mut/let identifier") binds
	// name on first use the same way `let` would, rather than erroring —
	// §8's S6 relies on this for `pids = send 'm', 21` with no declaration
	// in sight. Reassigning an already-declared immutable name still errors.
	mutable, ok := c.lookupVar(name)
	if !ok {
		c.emitExpr(n.Value)
		id := c.declareVar(name, false)
		c.emit(bytecode.Instruction{Op: bytecode.OpLoadLet, Var: id})
		return
	}
	if !mutable {
		c.err("cannot assign to immutable variable %q", name)
	}
	id := c.intern(name)
	if n.Op != "" {
		c.emit(bytecode.Instruction{Op: bytecode.OpGetVariable, Var: id})
		c.emitExpr(n.Value)
		binOp, ok := binaryOpTable[n.Op]
		if !ok {
			c.err("unknown compound operator %q", n.Op)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpBinaryAssign, Binary: binOp})
	} else {
		c.emitExpr(n.Value)
	}
	c.emit(bytecode.Instruction{Op: bytecode.OpLoadMut, Var: id})
}

func (c *Compiler) emitTupleDestructure(n *ast.BindingStmt) {
	tmp := c.freshTemp()
	c.emitExpr(n.Value)
	tmpID := c.declareVar(tmp, false)
	c.emit(bytecode.Instruction{Op: bytecode.OpLoadLet, Var: tmpID})
	for i, nm := range n.Target.Names {
		c.emit(bytecode.Instruction{Op: bytecode.OpGetVariable, Var: tmpID})
		c.loadInline(value.IntV(int64(i)))
		c.emit(bytecode.Instruction{Op: bytecode.OpInstanceGet})
		id := c.declareVar(nm, n.Mutable)
		op := bytecode.OpLoadLet
		if n.Mutable {
			op = bytecode.OpLoadMut
		}
		c.emit(bytecode.Instruction{Op: op, Var: id})
	}
}

// emitInstanceBinding lowers `base.path [op]= value`. Stack discipline:
// push target, push key, then either the plain rhs or (for a compound op)
// the current value fetched through a second InstanceGet combined with the
// rhs via BinaryAssign, leaving [target, key, result] for InstanceSet to
// consume.
func (c *Compiler) emitInstanceBinding(n *ast.BindingStmt) {
	tmp := c.freshTemp()
	c.emitExpr(n.Target.Base)
	baseID := c.declareVar(tmp, false)
	c.emit(bytecode.Instruction{Op: bytecode.OpLoadLet, Var: baseID})

	c.emit(bytecode.Instruction{Op: bytecode.OpGetVariable, Var: baseID})
	c.loadConstant(value.StringV(n.Target.Path))

	if n.Op != "" {
		c.emit(bytecode.Instruction{Op: bytecode.OpGetVariable, Var: baseID})
		c.loadConstant(value.StringV(n.Target.Path))
		c.emit(bytecode.Instruction{Op: bytecode.OpInstanceGet})
		c.emitExpr(n.Value)
		binOp, ok := binaryOpTable[n.Op]
		if !ok {
			c.err("unknown compound operator %q", n.Op)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpBinaryAssign, Binary: binOp})
	} else {
		c.emitExpr(n.Value)
	}
	c.emit(bytecode.Instruction{Op: bytecode.OpInstanceSet})
}
