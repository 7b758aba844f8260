package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tradepatch/internal/engine"
)

// ErrRunNotFound is returned by ReadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// ListRuns returns every run without its events, ordered by run seq.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, source, trigger_kind, agent_id, offers_in, result
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns a run with its events ordered by seq.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, source, trigger_kind, agent_id, offers_in, result
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	run.Events, err = s.readEvents(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) readEvents(ctx context.Context, runID string) ([]engine.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, pass, trigger_kind, agent_id, offer, rule, kind, detail
		FROM events
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []engine.Event{}
	for rows.Next() {
		var (
			ev            engine.Event
			trigger, kind string
		)
		if err := rows.Scan(&ev.Seq, &ev.Pass, &trigger, &ev.Agent, &ev.Offer, &ev.Rule, &kind, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Trigger = engine.Trigger(trigger)
		ev.Kind = engine.EventKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// RuleCount is the number of events of one kind recorded for one rule.
type RuleCount struct {
	Rule  string           `json:"rule"`
	Kind  engine.EventKind `json:"kind"`
	Count int              `json:"count"`
}

// RuleCounts aggregates rule events across all runs. Events without a rule
// (offer removals) are not counted.
func (s *Store) RuleCounts(ctx context.Context) ([]RuleCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule, kind, COUNT(*)
		FROM events
		WHERE rule != ''
		GROUP BY rule, kind
		ORDER BY rule COLLATE BINARY ASC, kind ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query rule counts: %w", err)
	}
	defer rows.Close()

	counts := []RuleCount{}
	for rows.Next() {
		var (
			c    RuleCount
			kind string
		)
		if err := rows.Scan(&c.Rule, &kind, &c.Count); err != nil {
			return nil, fmt.Errorf("scan rule count: %w", err)
		}
		c.Kind = engine.EventKind(kind)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rule counts: %w", err)
	}
	return counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run        Run
		trigger    string
		resultJSON string
	)
	if err := row.Scan(&run.ID, &run.Seq, &run.Source, &trigger, &run.Agent, &run.OffersIn, &resultJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Trigger = engine.Trigger(trigger)

	result, err := unmarshalOffers(resultJSON)
	if err != nil {
		return Run{}, err
	}
	run.Result = result
	return run, nil
}
