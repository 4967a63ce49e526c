package debug

import (
	"fmt"
	"time"
)

// LogLevel orders entries by severity. LogLevelNone as a threshold keeps a
// component silent; as an entry level it is never emitted.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelNone:
		return "NONE"
	case LogLevelError:
		return "ERROR"
	case LogLevelWarning:
		return "WARNING"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Component names the runtime subsystem an entry came from.
type Component string

const (
	ComponentPlayer       Component = "Player"
	ComponentRenderer     Component = "Renderer"
	ComponentContainer    Component = "Container"
	ComponentStateMachine Component = "StateMachine"
	ComponentInputs       Component = "Inputs"
	ComponentPolicy       Component = "Policy"
	ComponentSystem       Component = "System"
)

// Entry is one journal record. Seq orders entries across the bounded
// history even after older ones are dropped. Frame is the playback
// position at emit time when a frame source is installed; HasFrame
// distinguishes frame zero from "no animation loaded yet".
type Entry struct {
	Seq       uint64
	Timestamp time.Time
	Component Component
	Level     LogLevel
	Frame     float32
	HasFrame  bool
	Message   string
}

// String renders the entry for diagnostics output.
func (e Entry) String() string {
	position := "-"
	if e.HasFrame {
		position = fmt.Sprintf("f%.2f", e.Frame)
	}
	return fmt.Sprintf("#%d %s [%s/%s] %s %s",
		e.Seq,
		e.Timestamp.Format("15:04:05.000"),
		e.Component,
		e.Level,
		position,
		e.Message)
}
