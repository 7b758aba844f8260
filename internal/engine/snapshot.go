package engine

import (
	"errors"
	"log/slog"

	"github.com/roach88/tradepatch/internal/compiler"
	"github.com/roach88/tradepatch/internal/config"
	"github.com/roach88/tradepatch/internal/field"
)

// Snapshot is an immutable registry and rule set. Rules were compiled
// against Registry and are only ever swapped together with it.
type Snapshot struct {
	Source   string
	Registry *field.Registry
	Rules    []*compiler.Rule
}

// Empty returns a snapshot with the default registry and no rules.
func Empty() *Snapshot {
	return &Snapshot{Registry: field.Default()}
}

// Report describes how a rule file was turned into a snapshot.
type Report struct {
	Source      string
	Loaded      int
	Diagnostics []compiler.Diagnostic
	// Errors lists rule entries that were dropped, at load or compile time.
	Errors []error
}

// Build compiles rule entries into a snapshot. Failing entries are dropped
// and reported; the rest keep their declaration order.
func Build(reg *field.Registry, source string, entries []config.RuleEntry) (*Snapshot, *Report) {
	rules, diags, errs := compiler.CompileRules(reg, entries)
	snap := &Snapshot{Source: source, Registry: reg, Rules: rules}
	return snap, &Report{Source: source, Loaded: len(rules), Diagnostics: diags, Errors: errs}
}

// Load reads a rule file and builds a snapshot against reg.
//
// The returned error is non-nil only when the file as a whole could not be
// loaded; per-rule failures are in the Report.
func Load(reg *field.Registry, path string) (*Snapshot, *Report, error) {
	result, loadErrs := config.LoadFile(path)

	var fileErrs, ruleErrs []error
	for _, err := range loadErrs {
		if config.IsFileError(err) {
			fileErrs = append(fileErrs, err)
		} else {
			ruleErrs = append(ruleErrs, err)
		}
	}
	if result == nil || len(fileErrs) > 0 {
		return nil, nil, errors.Join(append(fileErrs, ruleErrs...)...)
	}

	for _, err := range ruleErrs {
		slog.Warn("dropping rule", "source", path, "error", err)
	}

	snap, report := Build(reg, result.Source, result.Rules)
	report.Errors = append(ruleErrs, report.Errors...)
	return snap, report, nil
}
