package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Rule entry keys.
const (
	KeyWhen          = "when"
	KeyExpr          = "expr"
	KeyIgnoreRemoved = "ignore-removed"
	KeyDo            = "do"
)

// RuleEntry is one uncompiled rule in declaration order.
type RuleEntry struct {
	ID string

	// When holds field conditions; empty means no field conditions.
	When Block
	// Expr is an optional CEL boolean expression.
	Expr string

	IgnoreRemoved bool

	// Do holds the action mapping.
	Do Block

	Pos string
}

// Result is the outcome of loading one rule file.
type Result struct {
	Source string
	Rules  []RuleEntry
}

// Error codes.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeNotFound    = "E005"
	ErrCodeParse       = "E004"
	ErrCodeUnsupported = "E003"
	ErrCodeRule        = "E110"
)

// LoadError reports a problem with a rule file or with one rule entry.
// Rule is empty for problems that affect the whole file.
type LoadError struct {
	Code    string
	Rule    string
	Message string
	Pos     string
}

func (e *LoadError) Error() string {
	var sb strings.Builder
	if e.Pos != "" {
		sb.WriteString(e.Pos)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Code)
	sb.WriteString(": ")
	if e.Rule != "" {
		fmt.Fprintf(&sb, "rule %q: ", e.Rule)
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// IsFileError reports whether err aborted loading of the whole file.
func IsFileError(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Rule == ""
}

// LoadFile loads a YAML or CUE rule file, chosen by extension.
//
// A nil Result means the file could not be loaded at all. Otherwise errors
// describe dropped rule entries; the Result holds every rule that loaded.
func LoadFile(path string) (*Result, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading rule file: %v", err)}}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return LoadYAML(path, data)
	case ".cue":
		return LoadCUE(path, data)
	default:
		return nil, []error{&LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported rule file extension %q (want .yml, .yaml or .cue)", filepath.Ext(path)),
		}}
	}
}

func ruleError(id, pos, format string, args ...any) *LoadError {
	return &LoadError{Code: ErrCodeRule, Rule: id, Pos: pos, Message: fmt.Sprintf(format, args...)}
}
