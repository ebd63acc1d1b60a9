package value

import "fmt"

// ErrorKind enumerates the VMError variants from spec §4.7.
type ErrorKind uint8

const (
	TimeoutError ErrorKind = iota
	RuntimeError
	EmptyStack
	ConversionError
	ScopeDoesNotExist
	UnsupportedOperation
	VariableDoesNotExist
	InvalidModule
	InvalidModuleFunction
	LifecycleError
)

var errorKindNames = [...]string{
	"TimeoutError",
	"RuntimeError",
	"EmptyStack",
	"ConversionError",
	"ScopeDoesNotExist",
	"UnsupportedOperation",
	"VariableDoesNotExist",
	"InvalidModule",
	"InvalidModuleFunction",
	"LifecycleError",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "UnknownError"
}

// VMError is the first-class error value carried by Error(VMError) and
// exposed to the language as an errorable result (§3.1, §4.7).
type VMError struct {
	Kind    ErrorKind
	Message string
}

func (e VMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Equal matches §8 property 3: two Error values are equal only when both
// their kind and message match.
func (e VMError) Equal(o VMError) bool {
	return e.Kind == o.Kind && e.Message == o.Message
}

func NewTimeout(format string, args ...any) VMError {
	return VMError{Kind: TimeoutError, Message: fmt.Sprintf(format, args...)}
}

func NewRuntime(format string, args ...any) VMError {
	return VMError{Kind: RuntimeError, Message: fmt.Sprintf(format, args...)}
}

func NewEmptyStack(format string, args ...any) VMError {
	return VMError{Kind: EmptyStack, Message: fmt.Sprintf(format, args...)}
}

func NewConversion(format string, args ...any) VMError {
	return VMError{Kind: ConversionError, Message: fmt.Sprintf(format, args...)}
}

func NewScopeDoesNotExist(format string, args ...any) VMError {
	return VMError{Kind: ScopeDoesNotExist, Message: fmt.Sprintf(format, args...)}
}

func NewUnsupportedOperation(format string, args ...any) VMError {
	return VMError{Kind: UnsupportedOperation, Message: fmt.Sprintf(format, args...)}
}

func NewVariableDoesNotExist(format string, args ...any) VMError {
	return VMError{Kind: VariableDoesNotExist, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidModule(format string, args ...any) VMError {
	return VMError{Kind: InvalidModule, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidModuleFunction(format string, args ...any) VMError {
	return VMError{Kind: InvalidModuleFunction, Message: fmt.Sprintf(format, args...)}
}

func NewLifecycle(format string, args ...any) VMError {
	return VMError{Kind: LifecycleError, Message: fmt.Sprintf(format, args...)}
}
