package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/tradepatch/internal/engine"
	"github.com/roach88/tradepatch/internal/trade"
)

// createTestStore opens a fresh database in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with two events and one surviving offer.
func createTestRun(id string) Run {
	return Run{
		ID:       id,
		Source:   "rules.yml",
		Trigger:  engine.TriggerExamined,
		Agent:    "agent-1",
		OffersIn: 2,
		Result: []trade.Offer{{
			Ingredients: []trade.Item{trade.NewItem("paper", 12)},
			Result:      trade.NewItem("emerald", 1),
			MaxUses:     16,
		}},
		Events: []engine.Event{
			{Pass: "p1", Seq: 1, Trigger: engine.TriggerExamined, Agent: "agent-1", Offer: 0, Rule: "drop", Kind: engine.EventMatched},
			{Pass: "p1", Seq: 2, Trigger: engine.TriggerExamined, Agent: "agent-1", Offer: 0, Kind: engine.EventRemoved},
		},
	}
}
