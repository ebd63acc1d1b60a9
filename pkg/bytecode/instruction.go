// Package bytecode implements the VM's instruction set and scope table
// (§3.4, §4.4): the Instruction sum type the compiler lowers expressions and
// statements into, the Scope a function/block/lambda body compiles to, and
// the binary snapshot codec that makes a compiled program reversible the
// same way pkg/value makes ObjectValue reversible.
package bytecode

import (
	"github.com/rigz-lang/rigz/pkg/types"
	"github.com/rigz-lang/rigz/pkg/value"
)

// Op discriminates the Instruction sum. Values match the exact byte each
// variant occupies in the binary codec, not declaration order — byte 33
// (a module-extension variant never finished) is intentionally absent, so
// these cannot be a plain iota run.
type Op uint8

const (
	OpHalt                       Op = 0
	OpHaltIfError                Op = 1
	OpUnary                      Op = 2
	OpBinary                     Op = 3
	OpBinaryAssign               Op = 4
	OpLoad                       Op = 5
	OpInstanceGet                Op = 6
	OpInstanceSet                Op = 7
	OpInstanceSetMut             Op = 8
	OpCall                       Op = 9
	OpCallMemo                   Op = 10
	OpCallMatchingSelf           Op = 11
	OpCallMatchingSelfMemo       Op = 12
	OpCallMatching               Op = 13
	OpCallMatchingMemo           Op = 14
	OpLog                        Op = 15
	OpDisplay                    Op = 16
	OpCallEq                     Op = 17
	OpCallNeq                    Op = 18
	OpIfElse                     Op = 19
	OpIf                         Op = 20
	OpUnless                     Op = 21
	OpCast                       Op = 22
	OpRet                        Op = 23
	OpGetVariable                Op = 24
	OpGetMutableVariable         Op = 25
	OpGetVariableReference       Op = 26
	OpLoadLet                    Op = 27
	OpLoadMut                    Op = 28
	OpPersistScope               Op = 29
	OpCallModule                 Op = 30
	OpCallExtension              Op = 31
	OpCallMutableExtension       Op = 32
	// 33 (CallVMExtension) never shipped on the original VM; no surface
	// form ever needed it, so it has no Go-side equivalent either.
	OpForList                    Op = 34
	OpForMap                     Op = 35
	OpSleep                      Op = 36
	OpSend                       Op = 37
	OpSpawn                      Op = 38
	OpReceive                    Op = 39
	OpPop                        Op = 40
	OpGoto                       Op = 41
	OpAddInstruction             Op = 42
	OpInsertAtInstruction        Op = 43
	OpUpdateInstruction          Op = 44
	OpRemoveInstruction          Op = 45
	OpCreateObject               Op = 46
	OpCreateDependency           Op = 47
	OpCallObject                 Op = 48
	OpCallObjectExtension        Op = 49
	OpCallMutableObjectExtension Op = 50
	OpTry                        Op = 51
	OpCatch                      Op = 52
	OpCreateEnum                 Op = 53
	OpMatch                      Op = 54
	OpBreak                      Op = 55
	OpLoop                       Op = 56
	OpNext                       Op = 57
	OpFor                        Op = 58
	OpExit                       Op = 59
)

// DisplayKind selects which of the puts/print/eprint family Display uses.
// Puts is declared on the original enum but its from_bytes match never
// assigned it a byte — only the four here are reachable — so this mirrors
// that rather than inventing a 5th discriminant nothing produces.
type DisplayKind uint8

const (
	DisplayPrint    DisplayKind = 0
	DisplayEPrint   DisplayKind = 1
	DisplayPrintLn  DisplayKind = 2
	DisplayEPrintLn DisplayKind = 3
)

// LogLevel mirrors log::Level's five-value scale (§4.4's Log instruction);
// the VM package maps these onto zapcore levels, collapsing Trace into
// Debug since zap has no fifth level.
type LogLevel uint8

const (
	LevelError LogLevel = 0
	LevelWarn  LogLevel = 1
	LevelInfo  LogLevel = 2
	LevelDebug LogLevel = 3
	LevelTrace LogLevel = 4
)

// LoadValueKind discriminates what Load pushes onto the stack.
type LoadValueKind uint8

const (
	LoadScopeID  LoadValueKind = 0
	LoadInline   LoadValueKind = 1
	LoadConstant LoadValueKind = 2
)

// LoadValue is Load's operand: either a scope id (a lambda/block literal to
// push as a callable), an inline value, or an index into the constant pool.
type LoadValue struct {
	Kind     LoadValueKind
	ScopeID  int
	Value    value.ObjectValue
	Constant int
}

// ArgKind discriminates a VMArg: an overload-matching instruction either
// matches on a declared parameter type or carries a literal default value.
type ArgKind uint8

const (
	ArgType  ArgKind = 0
	ArgValue ArgKind = 1
)

// Arg is one parameter slot of an overload entry (§4.6's overload table).
type Arg struct {
	Kind  ArgKind
	Type  types.RigzType
	Value value.ObjectValue
}

// CallSiteKind discriminates where an overload's matched body lives.
type CallSiteKind uint8

const (
	CallSiteScope   CallSiteKind = 0
	CallSiteModule  CallSiteKind = 1
	CallSiteVMModule CallSiteKind = 2
)

// CallSite is where control transfers to once an overload matches.
type CallSite struct {
	Kind   CallSiteKind
	Scope  int
	Module int
	Func   string
}

// Overload is one entry of CallMatching/CallMatchingMemo's table: the
// parameter types to match against the call's arguments, and where to jump.
type Overload struct {
	Args []Arg
	Site CallSite
}

// SelfOverload is Overload plus the receiver's own matched type/value, used
// by CallMatchingSelf/CallMatchingSelfMemo (extension-method dispatch).
type SelfOverload struct {
	Self Arg
	Args []Arg
	Site CallSite
}

// MatchArmKind discriminates one arm of a Match instruction.
type MatchArmKind uint8

const (
	MatchArmEnum   MatchArmKind = 0
	MatchArmIf     MatchArmKind = 1
	MatchArmUnless MatchArmKind = 2
	MatchArmElse   MatchArmKind = 3
)

// MatchArm is one row of a Match instruction's dispatch table: A/B's
// meaning depends on Kind — (enum type id, variant id) for Enum, (condition
// scope, body scope) for If/Unless, (body scope) alone for Else. BodyScope
// additionally carries the compiled arm body for the Enum case, where A/B
// are already spent on the (type, variant) test and have no room left for
// it.
type MatchArm struct {
	Kind      MatchArmKind
	A         int
	B         int
	BodyScope int
}

// Instruction is the VM's single bytecode unit (§4.4). Like RigzType and
// ObjectValue, it is one struct carrying an Op discriminant plus every
// payload field any Op might need, rather than 59 distinct Go types —
// consistent with how this codebase already models every other closed sum
// coming out of the source Rust enums.
type Instruction struct {
	Op Op

	Unary  value.UnaryOperation  // Unary
	Binary value.BinaryOperation // Binary, BinaryAssign

	Load LoadValue // Load

	Flag bool // InstanceGet's "is mutable get" bool

	Scope     int // Call/CallMemo/If/Unless/PersistScope/ForList/ForMap/For/Loop/Catch/Spawn/IfElse's if-branch/AddInstruction/InsertAtInstruction/UpdateInstruction/RemoveInstruction/Goto's scope
	ElseScope int // IfElse's else-branch scope
	Index     int // Goto/InsertAtInstruction/UpdateInstruction/RemoveInstruction's instruction index within Scope

	Args int // argument/element count: CallEq/CallNeq/Display/Log/CallModule/CallExtension/CallMutableExtension/CallObject/CallObjectExtension/CallMutableObjectExtension/CreateObject/CreateDependency/Send/Receive/Pop

	Overloads     []Overload     // CallMatching, CallMatchingMemo
	SelfOverloads []SelfOverload // CallMatchingSelf, CallMatchingSelfMemo

	LogLevel    LogLevel // Log
	LogTemplate string   // Log's format string

	Display DisplayKind // Display

	ModuleID int    // CallModule/CallExtension/CallMutableExtension's module id; CreateDependency's dependency id; CallObject's dep id
	FuncName string // CallModule/CallExtension/CallMutableExtension/CallObject/CallObjectExtension/CallMutableObjectExtension's function name

	TypeName string // Cast's target type, CreateObject's constructed type — rendered surface name, same simplification pkg/value applies to decoded Type values

	EnumType int  // CreateEnum's enum type id; Match arm enum ids live in MatchArms instead
	Variant  int  // CreateEnum's variant id
	HasFlag  bool // CreateEnum's has_expression; Catch's has_arg; Spawn's second bool; LoadLet/LoadMut's shadow flag

	Var int // GetVariable/GetMutableVariable/GetVariableReference/LoadLet/LoadMut's variable slot index

	MatchArms []MatchArm // Match

	Nested *Instruction // AddInstruction/InsertAtInstruction/UpdateInstruction's boxed instruction operand
}
