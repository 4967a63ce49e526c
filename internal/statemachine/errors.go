package statemachine

import "fmt"

// ErrorKind classifies state machine failures.
type ErrorKind int

const (
	ErrParsing ErrorKind = iota
	ErrDuplicateStateName
	ErrMultipleGuardless
	ErrUnknownTriggerRef
	ErrUnknownStateRef
	ErrTypeIncompatibleGuard
	ErrNotRunning
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrParsing:
		return "Parsing"
	case ErrDuplicateStateName:
		return "DuplicateStateName"
	case ErrMultipleGuardless:
		return "MultipleGuardlessTransitions"
	case ErrUnknownTriggerRef:
		return "UnknownTriggerReference"
	case ErrUnknownStateRef:
		return "UnknownStateReference"
	case ErrTypeIncompatibleGuard:
		return "TypeIncompatibleGuard"
	case ErrNotRunning:
		return "NotRunning"
	default:
		return "Unknown"
	}
}

// Error is a typed state machine failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("state machine %s: %s", e.Kind, e.Message)
}

func errf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
