package logger

import "time"

// LogEntry is a single line of the event log. Exactly one of the event
// fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionId       string `json:"session_id,omitempty"`

	SessionStart   *SessionStart   `json:"session_start,omitempty"`
	SessionEnd     *SessionEnd     `json:"session_end,omitempty"`
	RunCommand     *RunCommand     `json:"run_command,omitempty"`
	UnknownCommand *UnknownCommand `json:"unknown_command,omitempty"`
	SyntaxError    *SyntaxError    `json:"syntax_error,omitempty"`
	Suggestion     *Suggestion     `json:"suggestion,omitempty"`
}

// LogType is implemented by every event that can be stored in a LogEntry.
type LogType interface {
	isLogType()
}

func (*SessionStart) isLogType()   {}
func (*SessionEnd) isLogType()     {}
func (*RunCommand) isLogType()     {}
func (*UnknownCommand) isLogType() {}
func (*SyntaxError) isLogType()    {}
func (*Suggestion) isLogType()     {}

// GetLogType returns the event held by the entry or nil if there is none.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.SessionStart != nil:
		return le.SessionStart
	case le.SessionEnd != nil:
		return le.SessionEnd
	case le.RunCommand != nil:
		return le.RunCommand
	case le.UnknownCommand != nil:
		return le.UnknownCommand
	case le.SyntaxError != nil:
		return le.SyntaxError
	case le.Suggestion != nil:
		return le.Suggestion
	}
	return nil
}

// setLogType stores the event in the matching field.
func (le *LogEntry) setLogType(event LogType) {
	switch ev := event.(type) {
	case *SessionStart:
		le.SessionStart = ev
	case *SessionEnd:
		le.SessionEnd = ev
	case *RunCommand:
		le.RunCommand = ev
	case *UnknownCommand:
		le.UnknownCommand = ev
	case *SyntaxError:
		le.SyntaxError = ev
	case *Suggestion:
		le.Suggestion = ev
	}
}

// Time is the time the entry was recorded.
func (le *LogEntry) Time() time.Time {
	return time.UnixMicro(le.TimestampMicros)
}

type SessionStart struct {
	ProgramName string `json:"program_name"`
	Pid         int    `json:"pid"`
	Interactive bool   `json:"interactive"`
}

type SessionEnd struct {
	Status int `json:"status"`
}

// RunCommand is logged after a pipeline finishes.
type RunCommand struct {
	// Line is the pipeline as it was parsed.
	Line string `json:"line"`
	// Commands holds the expanded name of each stage.
	Commands []string `json:"commands"`
	Status   int      `json:"status"`

	DurationMicros int64 `json:"duration_micros"`
}

// UnknownCommand is logged when a command can't be found or run.
type UnknownCommand struct {
	Command string `json:"command"`
	Status  int    `json:"status"`
	Error   string `json:"error"`
}

type SyntaxError struct {
	Line  string `json:"line"`
	Error string `json:"error"`
}

// Suggestion is logged when the model suggests commands for a prompt.
type Suggestion struct {
	Prompt   string   `json:"prompt"`
	Commands []string `json:"commands,omitempty"`
	Raw      string   `json:"raw,omitempty"`
}
