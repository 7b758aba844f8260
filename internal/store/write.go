package store

import (
	"context"
	"fmt"

	"github.com/roach88/tradepatch/internal/engine"
	"github.com/roach88/tradepatch/internal/trade"
)

// Run is one recorded simulation.
type Run struct {
	ID       string         `json:"id"`
	Seq      int64          `json:"seq"`
	Source   string         `json:"source"`
	Trigger  engine.Trigger `json:"trigger"`
	Agent    string         `json:"agent"`
	OffersIn int            `json:"offers_in"`
	// Result holds the offers the run produced.
	Result []trade.Offer  `json:"result"`
	Events []engine.Event `json:"events,omitempty"`
}

// WriteRun stores a run and its events in one transaction. An empty run ID is
// replaced with a generated one; run seq is assigned by the store. It returns
// the run ID.
func (s *Store) WriteRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}

	resultJSON, err := marshalOffers(run.Result)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, source, trigger_kind, agent_id, offers_in, offers_out, result)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Source,
		string(run.Trigger),
		run.Agent,
		run.OffersIn,
		len(run.Result),
		resultJSON,
	)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events
		(run_id, seq, pass, trigger_kind, agent_id, offer, rule, kind, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("write run: prepare events: %w", err)
	}
	defer stmt.Close()

	for _, ev := range run.Events {
		_, err := stmt.ExecContext(ctx,
			run.ID,
			ev.Seq,
			ev.Pass,
			string(ev.Trigger),
			ev.Agent,
			ev.Offer,
			ev.Rule,
			string(ev.Kind),
			ev.Detail,
		)
		if err != nil {
			return "", fmt.Errorf("write run: event seq %d: %w", ev.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write run: commit: %w", err)
	}
	return run.ID, nil
}
