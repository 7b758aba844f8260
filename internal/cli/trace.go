package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tradepatch/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
}

// TraceSummary lists recorded runs with per-rule event counts.
type TraceSummary struct {
	Runs       []store.Run       `json:"runs"`
	RuleCounts []store.RuleCount `json:"rule_counts"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id]",
		Short: "Show recorded simulation runs",
		Long: `Show simulation runs recorded with simulate --db.

Without a run id, lists every run and how often each rule matched,
was skipped on a removed offer, or failed to apply. With a run id,
prints that run's events in order.

Examples:
  tradepatch trace --db trace.db
  tradepatch trace --db trace.db 0190f6c2-... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(ctx context.Context, opts *TraceOptions, args []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	st, err := store.Open(opts.Database)
	if err != nil {
		return commandError(formatter, ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	if len(args) == 1 {
		run, err := st.ReadRun(ctx, args[0])
		if errors.Is(err, store.ErrRunNotFound) {
			return commandError(formatter, ExitFailure, ErrCodeNotFound, "run not found", err)
		}
		if err != nil {
			return commandError(formatter, ExitCommandError, ErrCodeDatabase, "failed to read run", err)
		}
		return formatter.Render(run, func(w io.Writer) { writeRun(w, run) })
	}

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return commandError(formatter, ExitCommandError, ErrCodeDatabase, "failed to list runs", err)
	}
	counts, err := st.RuleCounts(ctx)
	if err != nil {
		return commandError(formatter, ExitCommandError, ErrCodeDatabase, "failed to count rule events", err)
	}

	summary := TraceSummary{Runs: runs, RuleCounts: counts}
	return formatter.Render(summary, func(w io.Writer) { writeTraceSummary(w, summary) })
}

func writeTraceSummary(w io.Writer, summary TraceSummary) {
	fmt.Fprintln(w, "=== Runs ===")
	if len(summary.Runs) == 0 {
		fmt.Fprintln(w, "  (no runs)")
	}
	for _, run := range summary.Runs {
		fmt.Fprintf(w, "  %d  %s  %s  %s  %d → %d offers\n",
			run.Seq, run.ID, run.Trigger, run.Agent, run.OffersIn, len(run.Result))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Rules ===")
	if len(summary.RuleCounts) == 0 {
		fmt.Fprintln(w, "  (no rule events)")
	}
	for _, c := range summary.RuleCounts {
		fmt.Fprintf(w, "  %-24s %-16s %d\n", c.Rule, c.Kind, c.Count)
	}
}

func writeRun(w io.Writer, run store.Run) {
	fmt.Fprintf(w, "Run: %s\n", run.ID)
	fmt.Fprintf(w, "Source: %s\n", run.Source)
	fmt.Fprintf(w, "Trigger: %s for %s\n", run.Trigger, run.Agent)
	fmt.Fprintf(w, "Offers: %d → %d\n", run.OffersIn, len(run.Result))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Events ===")
	if len(run.Events) == 0 {
		fmt.Fprintln(w, "  (no events)")
	}
	for _, ev := range run.Events {
		formatEvent(w, ev)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Result ===")
	for i, offer := range run.Result {
		fmt.Fprintf(w, "  %d. %s\n", i+1, formatOffer(offer))
	}
}
