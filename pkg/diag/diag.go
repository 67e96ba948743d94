// Package diag accumulates translator diagnostics.
//
// Every message is a plain text line of the form
// "<message> at line <n>[ of file <f>]". Nothing here aborts a run: callers
// report and continue, and the sink keeps the error count.
package diag

import (
	"fmt"
	"log"
	"strings"
)

// Severity classifies an entry.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Location is a position in the source.
type Location struct {
	Line int
	File string
}

// Entry is one accumulated diagnostic.
type Entry struct {
	Severity Severity
	Message  string
	Location Location
}

// String formats the entry as "<message> at line <n>[ of file <f>]".
func (e Entry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Location.Line > 0 {
		fmt.Fprintf(&sb, " at line %d", e.Location.Line)
		if e.Location.File != "" {
			sb.WriteString(" of file ")
			sb.WriteString(e.Location.File)
		}
	}
	return sb.String()
}

// Sink collects diagnostics and optionally mirrors them to a logger.
type Sink struct {
	entries  []Entry
	errors   int
	warnings int
	logger   *log.Logger
}

// New creates a sink. A nil logger keeps the sink silent.
func New(logger *log.Logger) *Sink {
	return &Sink{logger: logger}
}

// Errorf records an error.
func (s *Sink) Errorf(loc Location, format string, args ...interface{}) {
	s.add(SeverityError, loc, fmt.Sprintf(format, args...))
}

// Warnf records a warning.
func (s *Sink) Warnf(loc Location, format string, args ...interface{}) {
	s.add(SeverityWarning, loc, fmt.Sprintf(format, args...))
}

// CountError bumps the error counter without adding a message. Used when one
// message stands for several errors.
func (s *Sink) CountError() {
	s.errors++
}

func (s *Sink) add(sev Severity, loc Location, msg string) {
	e := Entry{Severity: sev, Message: msg, Location: loc}
	s.entries = append(s.entries, e)
	if sev == SeverityError {
		s.errors++
	} else {
		s.warnings++
	}
	if s.logger != nil {
		prefix := "WARN: "
		if sev == SeverityError {
			prefix = "ERROR: "
		}
		s.logger.Print(prefix + e.String())
	}
}

// Entries returns the accumulated diagnostics in report order.
func (s *Sink) Entries() []Entry {
	return s.entries
}

// Lines returns every entry formatted with Entry.String.
func (s *Sink) Lines() []string {
	lines := make([]string, len(s.entries))
	for i, e := range s.entries {
		lines[i] = e.String()
	}
	return lines
}

// ErrorCount returns the number of errors, including CountError bumps.
func (s *Sink) ErrorCount() int {
	return s.errors
}

// WarningCount returns the number of warnings.
func (s *Sink) WarningCount() int {
	return s.warnings
}

// Len returns the number of stored entries.
func (s *Sink) Len() int {
	return len(s.entries)
}

// Reset drops every entry and zeroes both counters.
func (s *Sink) Reset() {
	s.entries = nil
	s.errors = 0
	s.warnings = 0
}
