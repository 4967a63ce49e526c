package renderer

import "fmt"

// ErrorKind mirrors the rasterizer's result codes.
type ErrorKind int

const (
	ErrInvalidArgument ErrorKind = iota
	ErrInsufficientCondition
	ErrFailedAllocation
	ErrMemoryCorruption
	ErrNotSupported
	ErrUnknown
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidArgument:
		return "InvalidArgument"
	case ErrInsufficientCondition:
		return "InsufficientCondition"
	case ErrFailedAllocation:
		return "FailedAllocation"
	case ErrMemoryCorruption:
		return "MemoryCorruption"
	case ErrNotSupported:
		return "NotSupported"
	default:
		return "Unknown"
	}
}

// Error is a typed rasterizer failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("renderer %s: %s", e.Kind, e.Message)
}

func errf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
