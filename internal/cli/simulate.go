package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tradepatch/internal/engine"
	"github.com/roach88/tradepatch/internal/store"
	"github.com/roach88/tradepatch/internal/trade"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Proposed bool
	Database string
}

// SimulateResult is the output of one simulation.
type SimulateResult struct {
	RunID   string         `json:"run_id,omitempty"`
	Trigger engine.Trigger `json:"trigger"`
	Agent   trade.Agent    `json:"agent"`
	// Offers holds the surviving offers. With --proposed, Vetoed lists the
	// input indexes that were vetoed.
	Offers []trade.Offer  `json:"offers"`
	Vetoed []int          `json:"vetoed,omitempty"`
	Events []engine.Event `json:"events"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <rules> <offers.yml>",
		Short: "Apply rules to a fixture of offers",
		Long: `Apply a rule file to an agent's offers and print the result.

By default the whole list is examined at once, as when a player opens
the trading screen. With --proposed each offer is run through the
offer-proposed trigger on its own, and vetoed offers are reported.

Examples:
  tradepatch simulate rules.yml offers.yml
  tradepatch simulate rules.cue offers.yml --proposed --db trace.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Proposed, "proposed", false, "run each offer through the offer-proposed trigger")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the trace in this SQLite database")

	return cmd
}

func runSimulate(ctx context.Context, opts *SimulateOptions, rulesPath, fixturePath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	snap, report, err := loadRules(rulesPath)
	if err != nil {
		return commandError(formatter, ExitCommandError, loadErrorCode(err), "failed to load rules", err)
	}
	for _, e := range report.Errors {
		formatter.VerboseLog("dropped: %v", e)
	}

	fixture, err := LoadFixture(fixturePath)
	if err != nil {
		return commandError(formatter, ExitCommandError, ErrCodeFixture, "failed to load fixture", err)
	}

	collector := &engine.Collector{}
	eng := engine.New(snap, engine.WithObserver(collector))

	agent := fixture.Agent
	result := SimulateResult{Agent: agent}
	if opts.Proposed {
		result.Trigger = engine.TriggerProposed
		result.Offers = []trade.Offer{}
		for i, offer := range fixture.Offers {
			replaced, ok := eng.OfferProposed(&agent, offer)
			if !ok {
				result.Vetoed = append(result.Vetoed, i)
				continue
			}
			result.Offers = append(result.Offers, replaced)
		}
	} else {
		result.Trigger = engine.TriggerExamined
		result.Offers = eng.AgentExamined(&agent, fixture.Offers)
	}
	result.Agent = agent
	result.Events = collector.Drain()
	if result.Events == nil {
		result.Events = []engine.Event{}
	}

	if opts.Database != "" {
		id, err := recordRun(ctx, opts.Database, store.Run{
			Source:   report.Source,
			Trigger:  result.Trigger,
			Agent:    agent.ID,
			OffersIn: len(fixture.Offers),
			Result:   result.Offers,
			Events:   result.Events,
		})
		if err != nil {
			return commandError(formatter, ExitCommandError, ErrCodeDatabase, "failed to record run", err)
		}
		result.RunID = id
		formatter.VerboseLog("Recorded run %s in %s", id, opts.Database)
	}

	return formatter.Render(result, func(w io.Writer) { writeSimulation(w, result, opts.Verbose) })
}

func recordRun(ctx context.Context, path string, run store.Run) (string, error) {
	st, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer st.Close()
	return st.WriteRun(ctx, run)
}

func writeSimulation(w io.Writer, result SimulateResult, verbose bool) {
	fmt.Fprintf(w, "%s for %s (%s, level %d)\n", result.Trigger, result.Agent.ID, result.Agent.Profession, result.Agent.Level)
	if result.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", result.RunID)
	}
	fmt.Fprintln(w)

	if len(result.Offers) == 0 {
		fmt.Fprintln(w, "  (no offers)")
	}
	for i, offer := range result.Offers {
		fmt.Fprintf(w, "  %d. %s\n", i+1, formatOffer(offer))
	}
	if len(result.Vetoed) > 0 {
		fmt.Fprintf(w, "\nVetoed: %v\n", result.Vetoed)
	}

	if verbose && len(result.Events) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "=== Events ===")
		for _, ev := range result.Events {
			formatEvent(w, ev)
		}
	}
}

// formatOffer renders an offer on one line, e.g.
// "24×paper → 1×emerald (uses 0/16, discounts, xp 2)".
func formatOffer(o trade.Offer) string {
	ingredients := make([]string, len(o.Ingredients))
	for i, item := range o.Ingredients {
		ingredients[i] = item.String()
	}
	var extras []string
	extras = append(extras, fmt.Sprintf("uses %d/%d", o.Uses, o.MaxUses))
	if o.PriceMultiplier != 0 {
		extras = append(extras, "discounts")
	}
	if o.ExperienceReward {
		extras = append(extras, fmt.Sprintf("xp %d", o.AgentExperience))
	}
	return fmt.Sprintf("%s → %s (%s)", strings.Join(ingredients, " + "), o.Result, strings.Join(extras, ", "))
}

func formatEvent(w io.Writer, ev engine.Event) {
	fmt.Fprintf(w, "  [%d] offer %d %s", ev.Seq, ev.Offer, ev.Kind)
	if ev.Rule != "" {
		fmt.Fprintf(w, " %s", ev.Rule)
	}
	if ev.Detail != "" {
		fmt.Fprintf(w, ": %s", ev.Detail)
	}
	fmt.Fprintln(w)
}
