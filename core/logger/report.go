package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

func NewReport() *Report {
	return &Report{
		UnknownCommand: UnknownCommandReport{
			Failures: NewPathCounter("command", "status", "error"),
		},
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Session        SessionReport        `json:"session_report"`
	RunCommand     RunCommandReport     `json:"run_command_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	SyntaxError    SyntaxErrorReport    `json:"syntax_error_report"`
	Suggestion     SuggestionReport     `json:"suggestion_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *SessionStart:
		r.Session.updateStart(event)
	case *SessionEnd:
		r.Session.updateEnd(event)
	case *RunCommand:
		r.RunCommand.update(event)
	case *UnknownCommand:
		r.UnknownCommand.update(event)
	case *SyntaxError:
		r.SyntaxError.update(event)
	case *Suggestion:
		r.Suggestion.update(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type SessionReport struct {
	Started     int `json:"started"`
	Interactive int `json:"interactive"`
	// List of exit statuses and their counts.
	ExitStatuses StrCounter `json:"exit_statuses"`
}

func (r *SessionReport) updateStart(s *SessionStart) {
	r.Started++
	if s.Interactive {
		r.Interactive++
	}
}

func (r *SessionReport) updateEnd(s *SessionEnd) {
	r.ExitStatuses.Increment(strconv.Itoa(s.Status))
}

type RunCommandReport struct {
	Count int `json:"count"`
	// Name of each pipeline stage
	CommandNames StrCounter `json:"command_names"`
	// Pipeline statuses
	Statuses StrCounter `json:"statuses"`
	// Number of stages in each pipeline
	PipelineLengths StrCounter `json:"pipeline_lengths"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	r.Count++
	for _, name := range rc.Commands {
		r.CommandNames.Increment(name)
	}
	r.Statuses.Increment(strconv.Itoa(rc.Status))
	r.PipelineLengths.Increment(strconv.Itoa(len(rc.Commands)))
}

type UnknownCommandReport struct {
	Failures *PathCounter `json:"failures"`
}

func (r *UnknownCommandReport) update(uc *UnknownCommand) {
	if r.Failures == nil {
		r.Failures = NewPathCounter("command", "status", "error")
	}
	r.Failures.Increment(uc.Command, strconv.Itoa(uc.Status), uc.Error)
}

type SyntaxErrorReport struct {
	Errors StrCounter `json:"errors"`
}

func (r *SyntaxErrorReport) update(se *SyntaxError) {
	r.Errors.Increment(se.Error)
}

type SuggestionReport struct {
	Count int `json:"count"`
	// Prompts the model didn't answer with a command list.
	Unparsed int `json:"unparsed"`
	// Suggested command names
	CommandNames StrCounter `json:"command_names"`
}

func (r *SuggestionReport) update(s *Suggestion) {
	r.Count++
	if len(s.Commands) == 0 && s.Raw != "" {
		r.Unparsed++
	}
	for _, cmd := range s.Commands {
		r.CommandNames.Increment(firstWord(cmd))
	}
}

func firstWord(s string) string {
	start := -1
	for i, c := range s {
		isSpace := c == ' ' || c == '\t' || c == '\n'
		switch {
		case start < 0 && !isSpace:
			start = i
		case start >= 0 && isSpace:
			return s[start:i]
		}
	}
	if start < 0 {
		return ""
	}
	return s[start:]
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Count gets the number of times the key was seen.
func (s *StrCounter) Count(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
