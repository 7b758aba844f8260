package compiler

import (
	"fmt"
	"log/slog"
	"strings"
)

// CompileError reports a rule that cannot be compiled.
type CompileError struct {
	Rule    string
	Field   string
	Message string
	Pos     string
	Err     error
}

func (e *CompileError) Error() string {
	var sb strings.Builder
	if e.Pos != "" {
		sb.WriteString(e.Pos)
		sb.WriteString(": ")
	}
	if e.Rule != "" {
		fmt.Fprintf(&sb, "rule %q: ", e.Rule)
	}
	if e.Field != "" {
		sb.WriteString(e.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	return sb.String()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Diagnostic is a warning about a configuration entry that was skipped or will
// have no effect.
type Diagnostic struct {
	Rule    string `json:"rule"`
	Path    string `json:"path"`
	Message string `json:"message"`
	Pos     string `json:"pos,omitempty"`
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.Pos != "" {
		sb.WriteString(d.Pos)
		sb.WriteString(": ")
	}
	if d.Rule != "" {
		fmt.Fprintf(&sb, "rule %q: ", d.Rule)
	}
	sb.WriteString(d.Message)
	return sb.String()
}

// diagnostics collects warnings and logs each one as it is recorded.
type diagnostics struct {
	rule string
	list []Diagnostic
}

func (d *diagnostics) warn(path, pos, format string, args ...any) {
	diag := Diagnostic{Rule: d.rule, Path: path, Pos: pos, Message: fmt.Sprintf(format, args...)}
	d.list = append(d.list, diag)
	slog.Warn(diag.Message, "rule", d.rule, "path", path, "pos", pos)
}
