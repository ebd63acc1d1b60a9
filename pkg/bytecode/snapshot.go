package bytecode

import (
	"github.com/pkg/errors"

	"github.com/rigz-lang/rigz/pkg/snapshot"
	"github.com/rigz-lang/rigz/pkg/types"
	"github.com/rigz-lang/rigz/pkg/value"
)

// Encode writes the reversible wire form of one Instruction (§6.2). The
// discriminant bytes are carried over verbatim from the source VM's own
// Instruction::as_bytes match, including the gap at byte 33 where a
// module-extension variant was removed without renumbering the rest that
// follows it.
func (ins Instruction) Encode(w *snapshot.Writer) error {
	w.WriteByte(byte(ins.Op))
	switch ins.Op {
	case OpHalt, OpHaltIfError, OpInstanceSet, OpInstanceSetMut, OpRet,
		OpSleep, OpTry, OpBreak, OpNext, OpExit:
		// no operand
	case OpUnary:
		w.WriteByte(byte(ins.Unary))
	case OpBinary, OpBinaryAssign:
		w.WriteByte(byte(ins.Binary))
	case OpLoad:
		return encodeLoadValue(w, ins.Load)
	case OpInstanceGet:
		w.WriteBool(ins.Flag)
	case OpCall, OpCallMemo:
		w.WriteUsize(ins.Scope)
	case OpCallMatchingSelf, OpCallMatchingSelfMemo:
		w.WriteUsize(len(ins.SelfOverloads))
		for _, o := range ins.SelfOverloads {
			if err := encodeArg(w, o.Self); err != nil {
				return err
			}
			if err := encodeArgs(w, o.Args); err != nil {
				return err
			}
			encodeCallSite(w, o.Site)
		}
	case OpCallMatching, OpCallMatchingMemo:
		w.WriteUsize(len(ins.Overloads))
		for _, o := range ins.Overloads {
			if err := encodeArgs(w, o.Args); err != nil {
				return err
			}
			encodeCallSite(w, o.Site)
		}
	case OpLog:
		w.WriteByte(byte(ins.LogLevel))
		w.WriteString(ins.LogTemplate)
		w.WriteUsize(ins.Args)
	case OpDisplay:
		w.WriteUsize(ins.Args)
		w.WriteByte(byte(ins.Display))
	case OpCallEq, OpCallNeq:
		w.WriteUsize(ins.Args)
	case OpIfElse:
		w.WriteUsize(ins.Scope)
		w.WriteUsize(ins.ElseScope)
	case OpIf, OpUnless:
		w.WriteUsize(ins.Scope)
	case OpCast:
		w.WriteString(ins.TypeName)
	case OpGetVariable, OpGetMutableVariable, OpGetVariableReference:
		w.WriteUsize(ins.Var)
	case OpLoadLet, OpLoadMut:
		w.WriteUsize(ins.Var)
		w.WriteBool(ins.HasFlag)
	case OpPersistScope:
		w.WriteUsize(ins.Scope)
	case OpCallModule, OpCallExtension, OpCallMutableExtension:
		w.WriteUsize(ins.ModuleID)
		w.WriteString(ins.FuncName)
		w.WriteUsize(ins.Args)
	case OpForList, OpForMap, OpFor, OpLoop:
		w.WriteUsize(ins.Scope)
	case OpSend, OpReceive, OpPop:
		w.WriteUsize(ins.Args)
	case OpSpawn:
		w.WriteUsize(ins.Scope)
		w.WriteBool(ins.HasFlag)
	case OpGoto:
		w.WriteUsize(ins.Scope)
		w.WriteUsize(ins.Index)
	case OpAddInstruction:
		w.WriteUsize(ins.Scope)
		if err := encodeNested(w, ins.Nested); err != nil {
			return err
		}
	case OpInsertAtInstruction, OpUpdateInstruction:
		w.WriteUsize(ins.Scope)
		w.WriteUsize(ins.Index)
		if err := encodeNested(w, ins.Nested); err != nil {
			return err
		}
	case OpRemoveInstruction:
		w.WriteUsize(ins.Scope)
		w.WriteUsize(ins.Index)
	case OpCreateObject:
		w.WriteString(ins.TypeName)
		w.WriteUsize(ins.Args)
	case OpCreateDependency:
		w.WriteUsize(ins.Args)
		w.WriteUsize(ins.ModuleID)
	case OpCallObject:
		w.WriteUsize(ins.ModuleID)
		w.WriteString(ins.FuncName)
		w.WriteUsize(ins.Args)
	case OpCallObjectExtension, OpCallMutableObjectExtension:
		w.WriteString(ins.FuncName)
		w.WriteUsize(ins.Args)
	case OpCatch:
		w.WriteUsize(ins.Scope)
		w.WriteBool(ins.HasFlag)
	case OpCreateEnum:
		w.WriteUsize(ins.EnumType)
		w.WriteUsize(ins.Variant)
		w.WriteBool(ins.HasFlag)
	case OpMatch:
		w.WriteUsize(len(ins.MatchArms))
		for _, a := range ins.MatchArms {
			w.WriteByte(byte(a.Kind))
			switch a.Kind {
			case MatchArmElse:
				w.WriteUsize(a.A)
			default:
				w.WriteUsize(a.A)
				w.WriteUsize(a.B)
			}
			if a.Kind == MatchArmEnum {
				w.WriteUsize(a.BodyScope)
			}
		}
	default:
		return errors.Errorf("bytecode: cannot encode unknown op %d", ins.Op)
	}
	return nil
}

func encodeLoadValue(w *snapshot.Writer, v LoadValue) error {
	w.WriteByte(byte(v.Kind))
	switch v.Kind {
	case LoadScopeID:
		w.WriteUsize(v.ScopeID)
	case LoadInline:
		return v.Value.Encode(w)
	case LoadConstant:
		w.WriteUsize(v.Constant)
	}
	return nil
}

func encodeArg(w *snapshot.Writer, a Arg) error {
	w.WriteByte(byte(a.Kind))
	switch a.Kind {
	case ArgType:
		w.WriteString(a.Type.String())
	case ArgValue:
		return a.Value.Encode(w)
	}
	return nil
}

func encodeArgs(w *snapshot.Writer, args []Arg) error {
	w.WriteUsize(len(args))
	for _, a := range args {
		if err := encodeArg(w, a); err != nil {
			return err
		}
	}
	return nil
}

func encodeCallSite(w *snapshot.Writer, s CallSite) {
	w.WriteByte(byte(s.Kind))
	switch s.Kind {
	case CallSiteScope:
		w.WriteUsize(s.Scope)
	case CallSiteModule, CallSiteVMModule:
		w.WriteUsize(s.Module)
		w.WriteString(s.Func)
	}
}

func encodeNested(w *snapshot.Writer, ins *Instruction) error {
	if ins == nil {
		return errors.New("bytecode: nil nested instruction")
	}
	return ins.Encode(w)
}

// Decode reads back an Instruction written by Encode.
func Decode(r *snapshot.Reader) (Instruction, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Instruction{}, errors.Wrap(err, "bytecode: reading op")
	}
	op := Op(b)
	ins := Instruction{Op: op}
	switch op {
	case OpHalt, OpHaltIfError, OpInstanceSet, OpInstanceSetMut, OpRet,
		OpSleep, OpTry, OpBreak, OpNext, OpExit:
		// no operand
	case OpUnary:
		v, err := r.ReadByte()
		if err != nil {
			return Instruction{}, err
		}
		ins.Unary = value.UnaryOperation(v)
	case OpBinary, OpBinaryAssign:
		v, err := r.ReadByte()
		if err != nil {
			return Instruction{}, err
		}
		ins.Binary = value.BinaryOperation(v)
	case OpLoad:
		lv, err := decodeLoadValue(r)
		if err != nil {
			return Instruction{}, err
		}
		ins.Load = lv
	case OpInstanceGet:
		flag, err := r.ReadBool()
		if err != nil {
			return Instruction{}, err
		}
		ins.Flag = flag
	case OpCall, OpCallMemo:
		ins.Scope, err = r.ReadUsize()
	case OpCallMatchingSelf, OpCallMatchingSelfMemo:
		var n int
		n, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.SelfOverloads = make([]SelfOverload, n)
		for i := 0; i < n; i++ {
			var self Arg
			self, err = decodeArg(r)
			if err != nil {
				break
			}
			var args []Arg
			args, err = decodeArgs(r)
			if err != nil {
				break
			}
			var site CallSite
			site, err = decodeCallSite(r)
			if err != nil {
				break
			}
			ins.SelfOverloads[i] = SelfOverload{Self: self, Args: args, Site: site}
		}
	case OpCallMatching, OpCallMatchingMemo:
		var n int
		n, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.Overloads = make([]Overload, n)
		for i := 0; i < n; i++ {
			var args []Arg
			args, err = decodeArgs(r)
			if err != nil {
				break
			}
			var site CallSite
			site, err = decodeCallSite(r)
			if err != nil {
				break
			}
			ins.Overloads[i] = Overload{Args: args, Site: site}
		}
	case OpLog:
		var lvl byte
		lvl, err = r.ReadByte()
		if err != nil {
			break
		}
		ins.LogLevel = LogLevel(lvl)
		ins.LogTemplate, err = r.ReadString()
		if err != nil {
			break
		}
		ins.Args, err = r.ReadUsize()
	case OpDisplay:
		ins.Args, err = r.ReadUsize()
		if err != nil {
			break
		}
		var d byte
		d, err = r.ReadByte()
		ins.Display = DisplayKind(d)
	case OpCallEq, OpCallNeq:
		ins.Args, err = r.ReadUsize()
	case OpIfElse:
		ins.Scope, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.ElseScope, err = r.ReadUsize()
	case OpIf, OpUnless:
		ins.Scope, err = r.ReadUsize()
	case OpCast:
		var name string
		name, err = r.ReadString()
		ins.TypeName = name
	case OpGetVariable, OpGetMutableVariable, OpGetVariableReference:
		ins.Var, err = r.ReadUsize()
	case OpLoadLet, OpLoadMut:
		ins.Var, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.HasFlag, err = r.ReadBool()
	case OpPersistScope:
		ins.Scope, err = r.ReadUsize()
	case OpCallModule, OpCallExtension, OpCallMutableExtension:
		ins.ModuleID, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.FuncName, err = r.ReadString()
		if err != nil {
			break
		}
		ins.Args, err = r.ReadUsize()
	case OpForList, OpForMap, OpFor, OpLoop:
		ins.Scope, err = r.ReadUsize()
	case OpSend, OpReceive, OpPop:
		ins.Args, err = r.ReadUsize()
	case OpSpawn:
		ins.Scope, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.HasFlag, err = r.ReadBool()
	case OpGoto:
		ins.Scope, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.Index, err = r.ReadUsize()
	case OpAddInstruction:
		ins.Scope, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.Nested, err = decodeNested(r)
	case OpInsertAtInstruction, OpUpdateInstruction:
		ins.Scope, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.Index, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.Nested, err = decodeNested(r)
	case OpRemoveInstruction:
		ins.Scope, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.Index, err = r.ReadUsize()
	case OpCreateObject:
		ins.TypeName, err = r.ReadString()
		if err != nil {
			break
		}
		ins.Args, err = r.ReadUsize()
	case OpCreateDependency:
		ins.Args, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.ModuleID, err = r.ReadUsize()
	case OpCallObject:
		ins.ModuleID, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.FuncName, err = r.ReadString()
		if err != nil {
			break
		}
		ins.Args, err = r.ReadUsize()
	case OpCallObjectExtension, OpCallMutableObjectExtension:
		ins.FuncName, err = r.ReadString()
		if err != nil {
			break
		}
		ins.Args, err = r.ReadUsize()
	case OpCatch:
		ins.Scope, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.HasFlag, err = r.ReadBool()
	case OpCreateEnum:
		ins.EnumType, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.Variant, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.HasFlag, err = r.ReadBool()
	case OpMatch:
		var n int
		n, err = r.ReadUsize()
		if err != nil {
			break
		}
		ins.MatchArms = make([]MatchArm, n)
		for i := 0; i < n; i++ {
			var kb byte
			kb, err = r.ReadByte()
			if err != nil {
				break
			}
			arm := MatchArm{Kind: MatchArmKind(kb)}
			arm.A, err = r.ReadUsize()
			if err != nil {
				break
			}
			if arm.Kind != MatchArmElse {
				arm.B, err = r.ReadUsize()
				if err != nil {
					break
				}
			}
			if arm.Kind == MatchArmEnum {
				arm.BodyScope, err = r.ReadUsize()
				if err != nil {
					break
				}
			}
			ins.MatchArms[i] = arm
		}
	default:
		return Instruction{}, errors.Errorf("bytecode: unknown op byte %d at %d", b, r.Pos()-1)
	}
	if err != nil {
		return Instruction{}, err
	}
	return ins, nil
}

func decodeLoadValue(r *snapshot.Reader) (LoadValue, error) {
	b, err := r.ReadByte()
	if err != nil {
		return LoadValue{}, err
	}
	v := LoadValue{Kind: LoadValueKind(b)}
	switch v.Kind {
	case LoadScopeID:
		v.ScopeID, err = r.ReadUsize()
	case LoadInline:
		v.Value, err = value.Decode(r)
	case LoadConstant:
		v.Constant, err = r.ReadUsize()
	default:
		return LoadValue{}, errors.Errorf("bytecode: unknown LoadValue kind %d", b)
	}
	if err != nil {
		return LoadValue{}, err
	}
	return v, nil
}

func decodeArg(r *snapshot.Reader) (Arg, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Arg{}, err
	}
	a := Arg{Kind: ArgKind(b)}
	switch a.Kind {
	case ArgType:
		var t types.RigzType
		t, err = types.DecodeName(r)
		a.Type = t
	case ArgValue:
		a.Value, err = value.Decode(r)
	default:
		return Arg{}, errors.Errorf("bytecode: unknown Arg kind %d", b)
	}
	if err != nil {
		return Arg{}, err
	}
	return a, nil
}

func decodeArgs(r *snapshot.Reader) ([]Arg, error) {
	n, err := r.ReadUsize()
	if err != nil {
		return nil, err
	}
	args := make([]Arg, n)
	for i := 0; i < n; i++ {
		args[i], err = decodeArg(r)
		if err != nil {
			return nil, err
		}
	}
	return args, nil
}

func decodeCallSite(r *snapshot.Reader) (CallSite, error) {
	b, err := r.ReadByte()
	if err != nil {
		return CallSite{}, err
	}
	s := CallSite{Kind: CallSiteKind(b)}
	switch s.Kind {
	case CallSiteScope:
		s.Scope, err = r.ReadUsize()
	case CallSiteModule, CallSiteVMModule:
		s.Module, err = r.ReadUsize()
		if err != nil {
			return CallSite{}, err
		}
		s.Func, err = r.ReadString()
	default:
		return CallSite{}, errors.Errorf("bytecode: unknown CallSite kind %d", b)
	}
	if err != nil {
		return CallSite{}, err
	}
	return s, nil
}

func decodeNested(r *snapshot.Reader) (*Instruction, error) {
	ins, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return &ins, nil
}
