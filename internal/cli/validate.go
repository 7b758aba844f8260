package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tradepatch/internal/compiler"
	"github.com/roach88/tradepatch/internal/engine"
)

// RuleSummary describes one compiled rule.
type RuleSummary struct {
	ID            string   `json:"id"`
	Predicate     string   `json:"predicate"`
	IgnoreRemoved bool     `json:"ignore_removed,omitempty"`
	Actions       []string `json:"actions"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                  `json:"valid"`
	Source      string                `json:"source"`
	Rules       []RuleSummary         `json:"rules"`
	Diagnostics []compiler.Diagnostic `json:"diagnostics,omitempty"`
	Errors      []string              `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rules>",
		Short: "Compile a rule file and report problems",
		Long: `Compile a YAML or CUE rule file without applying it.

Lists every rule that compiled with its actions in application order,
warnings for entries that were skipped or will have no effect, and
errors for rules that were dropped.

Exit codes: 0 all rules compiled, 1 some rules were dropped,
2 the file could not be loaded.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	snap, report, err := loadRules(path)
	if err != nil {
		return commandError(formatter, ExitCommandError, loadErrorCode(err), "failed to load rules", err)
	}
	formatter.VerboseLog("Loaded %d rule(s) from %s", report.Loaded, path)

	result := summarize(snap, report)
	if err := formatter.Render(result, func(w io.Writer) { writeValidation(w, result) }); err != nil {
		return err
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed: %d rule(s) dropped", len(result.Errors)))
	}
	return nil
}

func summarize(snap *engine.Snapshot, report *engine.Report) ValidationResult {
	result := ValidationResult{
		Valid:       len(report.Errors) == 0,
		Source:      report.Source,
		Rules:       make([]RuleSummary, 0, len(snap.Rules)),
		Diagnostics: report.Diagnostics,
	}
	for _, rule := range snap.Rules {
		summary := RuleSummary{
			ID:            rule.ID,
			Predicate:     rule.Predicate.String(),
			IgnoreRemoved: rule.IgnoreRemoved,
			Actions:       make([]string, len(rule.Actions)),
		}
		for i, action := range rule.Actions {
			summary.Actions[i] = action.String()
		}
		result.Rules = append(result.Rules, summary)
	}
	for _, err := range report.Errors {
		result.Errors = append(result.Errors, err.Error())
	}
	return result
}

func writeValidation(w io.Writer, result ValidationResult) {
	fmt.Fprintf(w, "%s: %d rule(s)\n", result.Source, len(result.Rules))
	for _, rule := range result.Rules {
		flag := ""
		if rule.IgnoreRemoved {
			flag = " [ignore-removed]"
		}
		fmt.Fprintf(w, "  %s when %s%s\n", rule.ID, rule.Predicate, flag)
		for _, action := range rule.Actions {
			fmt.Fprintf(w, "    %s\n", action)
		}
	}

	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Dropped:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "✗ Validation failed")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "✓ All rules valid")
}
