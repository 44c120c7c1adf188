package debug

import (
	"fmt"
	"time"
)

// LogLevel is a log entry's severity, ordered least-to-most verbose:
// an Error matters at every verbosity setting; a Trace entry is only
// interesting when traced explicitly.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// String returns the log level's wire name, as printed by Format.
func (l LogLevel) String() string {
	switch l {
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

// Component names one stage of the coprocessor pipeline. Logging is
// gated per component (see Logger.SetComponentEnabled), not per
// level: the spec's PROCESS/compositor hot path never pays for
// logging unless a caller has opted a component in.
type Component string

const (
	ComponentDemux       Component = "Demux"
	ComponentMemory      Component = "Memory"
	ComponentUpload      Component = "Upload"
	ComponentInterpreter Component = "Interpreter"
	ComponentCompositor  Component = "Compositor"
	ComponentDisplay     Component = "Display"
	ComponentServer      Component = "Server"
	ComponentSystem      Component = "System"
)

// AllComponents lists every component in declaration order, for code
// that needs to enumerate them: NewLogger's default-disabled pass and
// cmd/sdhrd's -log flag parser both range over this instead of each
// keeping their own copy of the component list.
var AllComponents = []Component{
	ComponentDemux, ComponentMemory, ComponentUpload, ComponentInterpreter,
	ComponentCompositor, ComponentDisplay, ComponentServer, ComponentSystem,
}

// LogEntry is one recorded log line.
type LogEntry struct {
	Timestamp time.Time
	Component Component
	Level     LogLevel
	Message   string
}

// Format renders the entry as sdhrd prints it.
func (e *LogEntry) Format() string {
	return fmt.Sprintf("[%s] [%s] %s: %s", e.Timestamp.Format("15:04:05.000"), e.Component, e.Level, e.Message)
}
