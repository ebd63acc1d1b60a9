package compiler

import (
	"github.com/rigz-lang/rigz/pkg/ast"
	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/types"
)

// registerModuleSignatures folds every registered module's Signatures into
// the overload table under the module's own call convention (§6.3: a module
// function resolves through the same overload machinery as a user-defined
// one, just with a CallSiteModule/CallSiteVMModule destination instead of a
// scope).
func (c *Compiler) registerModuleSignatures() {
	if c.prog.Modules == nil {
		return
	}
	for id := 0; id < c.prog.Modules.Len(); id++ {
		mod, _ := c.prog.Modules.ByID(id)
		for _, sig := range mod.Signatures() {
			entry := overloadEntry{
				varArgsStart: sig.VarArgsStart,
				paramTypes:   sig.Args,
				site: bytecode.CallSite{
					Kind:   bytecode.CallSiteModule,
					Module: id,
					Func:   sig.Name,
				},
			}
			if sig.Self != nil {
				self := *sig.Self
				entry.self = &self
				entry.selfMutable = sig.SelfMutable
				entry.site.Kind = bytecode.CallSiteVMModule
			}
			c.overloads[sig.Name] = append(c.overloads[sig.Name], entry)
		}
	}
}

// hoistDefs pre-registers every top-level function/trait/impl/enum/object
// declaration before the remaining top-level statements are lowered, so
// those statements can call a function declared later in the source (§4.3,
// §4.6). Two passes: enums/objects first (so parameter/field type names
// resolve), then functions/traits/impls, whose bodies are compiled in
// source order immediately once their own scope id and overload entry
// exist. A body therefore resolves calls to itself and to functions
// declared before it; a call to a function declared after it does not
// resolve.
func (c *Compiler) hoistDefs(elements []ast.Element, _ int) {
	for _, el := range elements {
		switch n := el.(type) {
		case *ast.EnumDef:
			c.declareEnum(n)
		case *ast.ObjectDef:
			c.declareObject(n)
		}
	}
	for _, el := range elements {
		switch n := el.(type) {
		case *ast.FunctionDef:
			c.compileFunctionDef(n, nil, false)
		case *ast.TraitDef:
			c.compileTraitDef(n)
		case *ast.ImplDef:
			c.compileImplDef(n)
		}
	}
}

func (c *Compiler) declareEnum(n *ast.EnumDef) {
	if _, ok := c.prog.Enums[n.Name]; ok {
		return
	}
	decl := &EnumDecl{ID: len(c.prog.EnumsByID), Name: n.Name}
	for _, v := range n.Variants {
		decl.Variants = append(decl.Variants, v.Name)
		decl.Payload = append(decl.Payload, v.PayloadType != "")
	}
	c.prog.Enums[n.Name] = decl
	c.prog.EnumsByID = append(c.prog.EnumsByID, decl)
}

func (c *Compiler) declareObject(n *ast.ObjectDef) {
	if _, ok := c.prog.Objects[n.Name]; ok {
		return
	}
	decl := &ObjectDecl{Name: n.Name}
	for _, f := range n.Fields {
		decl.Fields = append(decl.Fields, types.Field{Name: f.Name, Type: c.resolveType(f.Type)})
	}
	c.prog.Objects[n.Name] = decl
}

// compileFunctionDef allocates a.Body's scope, registers its overload entry
// before lowering the body (so self-recursive calls resolve), and compiles
// it. selfType overrides the receiver type used for the overload entry's
// Self match (set by compileImplDef to the implementing type rather than
// whatever ast.FunctionDef.SelfParam alone would imply); asMemo forces the
// compiled scope's Lifecycle to Memo even if the parser didn't already mark
// it (impl/trait methods never carry their own @memo annotation today, so
// this parameter currently only ever receives false, kept for symmetry with
// the rest of the lowering helpers that take explicit override parameters).
func (c *Compiler) compileFunctionDef(fn *ast.FunctionDef, selfType *types.RigzType, asMemo bool) {
	if fn.Body == nil {
		// Trait declaration-only signature: no body to compile.
		return
	}
	hasSelf := fn.SelfParam != ""
	c.allocScope(fn.Name, func(scopeID int) {
		scope := c.prog.Scopes[scopeID]
		scope.Self = hasSelf
		scope.SelfMutable = fn.SelfMutable
		scope.Lifecycle = lowerLifecycle(fn.Lifecycle)

		entry := overloadEntry{
			site:         bytecode.CallSite{Kind: bytecode.CallSiteScope, Scope: scopeID},
			isMemo:       asMemo || fn.Lifecycle.Kind == ast.LifecycleMemo,
			varArgsStart: -1,
		}
		if hasSelf {
			st := types.This
			if selfType != nil {
				st = *selfType
			}
			entry.self = &st
			entry.selfMutable = fn.SelfMutable
			c.declareVar(fn.SelfParam, fn.SelfMutable)
		}
		for _, p := range fn.Params {
			pt := c.resolveType(p.Type)
			entry.paramNames = append(entry.paramNames, p.Name)
			entry.paramTypes = append(entry.paramTypes, pt)
			def, hasDefault := c.constFold(p.Default)
			scope.Args = append(scope.Args, bytecode.ScopeArg{
				Name:       p.Name,
				Mutable:    p.Mutable,
				HasDefault: hasDefault,
				Default:    def,
			})
			c.declareVar(p.Name, p.Mutable)
		}
		c.overloads[fn.Name] = append(c.overloads[fn.Name], entry)

		c.emitBlockBody(fn.Body.Body)
		c.emit(bytecode.Instruction{Op: bytecode.OpRet})
	})
}

func lowerLifecycle(lc ast.Lifecycle) bytecode.Lifecycle {
	switch lc.Kind {
	case ast.LifecycleTest:
		return bytecode.Lifecycle{Kind: bytecode.LifecycleTest}
	case ast.LifecycleMemo:
		return bytecode.Lifecycle{Kind: bytecode.LifecycleMemo}
	case ast.LifecycleOn:
		return bytecode.Lifecycle{Kind: bytecode.LifecycleOn, Event: lc.Event}
	case ast.LifecycleComposite:
		return bytecode.Lifecycle{Kind: bytecode.LifecycleComposite}
	default:
		return bytecode.Lifecycle{}
	}
}

// compileTraitDef compiles every method that carries a default body
// (§4.2's "some with default bodies"); signature-only methods register no
// scope since a bare trait cannot be called, only the types implementing it.
func (c *Compiler) compileTraitDef(n *ast.TraitDef) {
	self := types.Custom(n.Name)
	for _, m := range n.Methods {
		c.compileFunctionDef(m, &self, false)
	}
}

// compileImplDef compiles every method of an `impl Trait for Type` block
// with Self bound to Type (§4.2: "every method must have a body").
func (c *Compiler) compileImplDef(n *ast.ImplDef) {
	self := c.resolveType(n.Type)
	for _, m := range n.Methods {
		c.compileFunctionDef(m, &self, false)
	}
}
