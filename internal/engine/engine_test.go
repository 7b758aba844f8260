package engine

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tradepatch/internal/compiler"
	"github.com/roach88/tradepatch/internal/config"
	"github.com/roach88/tradepatch/internal/field"
	"github.com/roach88/tradepatch/internal/testutil"
	"github.com/roach88/tradepatch/internal/trade"
)

func testAgent() *trade.Agent {
	return &trade.Agent{ID: "agent-1", Name: "Bob", Profession: "librarian", Type: "plains", Level: 2}
}

func testOffers() []trade.Offer {
	return []trade.Offer{
		{
			Ingredients: []trade.Item{trade.NewItem("emerald", 5), trade.NewItem("book", 1)},
			Result:      trade.NewItem("enchanted_book", 1),
			MaxUses:     12,
		},
		{
			Ingredients: []trade.Item{trade.NewItem("paper", 24)},
			Result:      trade.NewItem("emerald", 1),
			MaxUses:     16,
		},
	}
}

func compileSnapshot(t *testing.T, entries ...config.RuleEntry) *Snapshot {
	t.Helper()
	snap, report := Build(field.Default(), "test", entries)
	require.Empty(t, report.Errors)
	return snap
}

func rule(id string, when config.Block, do ...config.Entry) config.RuleEntry {
	return config.RuleEntry{ID: id, When: when, Do: config.Block(do)}
}

// countingPredicate counts evaluations and always matches.
type countingPredicate struct {
	mu    sync.Mutex
	calls int
}

func (p *countingPredicate) Matches(*trade.Trade) bool {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return true
}

func (p *countingPredicate) String() string { return "counting" }

func TestAgentExamined_NoRulesPassesThrough(t *testing.T) {
	e := New(nil, WithIDGenerator(NewFixedGenerator("p1")))
	offers := testOffers()

	got := e.AgentExamined(testAgent(), offers)
	assert.Equal(t, offers, got)
}

func TestAgentExamined_LastWriterWins(t *testing.T) {
	snap := compileSnapshot(t,
		rule("r1", nil, config.T("max-uses", "=3")),
		rule("r2", nil, config.T("max-uses", "*2")),
	)
	e := New(snap)

	got := e.AgentExamined(testAgent(), testOffers())
	require.Len(t, got, 2)
	assert.Equal(t, 6, got[0].MaxUses)
	assert.Equal(t, 6, got[1].MaxUses)
}

func TestAgentExamined_PredicateSelectsOffers(t *testing.T) {
	snap := compileSnapshot(t,
		rule("paper", config.Block{config.T("ingredient-0", "paper")},
			config.T("ingredient-0", "amount /2")),
	)
	e := New(snap)

	got := e.AgentExamined(testAgent(), testOffers())
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].Ingredients[0].Amount)
	assert.Equal(t, 12, got[1].Ingredients[0].Amount)
}

func TestAgentExamined_RemovedOfferExcised(t *testing.T) {
	snap := compileSnapshot(t,
		rule("drop-books", config.Block{config.T("result", "enchanted_book")}, config.T("remove", "true")),
		rule("later", nil, config.T("max-uses", "=99")),
	)
	collector := &Collector{}
	e := New(snap, WithObserver(collector), WithIDGenerator(NewFixedGenerator("p1")))

	offers := testOffers()
	got := e.AgentExamined(testAgent(), offers)
	require.Len(t, got, 1)
	assert.Equal(t, "emerald", got[0].Result.Material)
	assert.Equal(t, 99, got[0].MaxUses)

	assert.Equal(t, 12, offers[0].MaxUses, "input offers are not mutated")

	var removed []Event
	for _, ev := range collector.Events() {
		if ev.Kind == EventRemoved {
			removed = append(removed, ev)
		}
	}
	require.Len(t, removed, 1)
	assert.Equal(t, 0, removed[0].Offer)
	assert.Equal(t, "p1", removed[0].Pass)
	assert.Equal(t, "agent-1", removed[0].Agent)
}

func TestAgentExamined_LaterRuleCanRestore(t *testing.T) {
	snap := compileSnapshot(t,
		rule("drop", nil, config.T("remove", "true")),
		rule("keep", config.Block{config.T("max-uses", "16")}, config.T("remove", "false")),
	)

	got := New(snap).AgentExamined(testAgent(), testOffers())
	require.Len(t, got, 1)
	assert.Equal(t, 16, got[0].MaxUses)
}

func TestIgnoreRemoved_PredicateEvaluatedActionsSkipped(t *testing.T) {
	counter := &countingPredicate{}
	setUses, _, err := compiler.CompileActions(field.Default(), "watch", config.Block{config.T("uses", "=7")})
	require.NoError(t, err)

	drop := compileSnapshot(t, rule("drop", nil, config.T("remove", "true"))).Rules[0]
	snap := &Snapshot{
		Registry: field.Default(),
		Rules: []*compiler.Rule{
			drop,
			{ID: "watch", Predicate: counter, Actions: setUses, IgnoreRemoved: true},
		},
	}
	collector := &Collector{}
	e := New(snap, WithObserver(collector))

	agent := testAgent()
	_, ok := e.OfferProposed(agent, testOffers()[0])
	assert.False(t, ok)
	assert.Equal(t, 1, counter.calls)

	kinds := []EventKind{}
	for _, ev := range collector.Events() {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []EventKind{EventMatched, EventSkippedRemoved, EventRemoved}, kinds)
}

func TestIgnoreRemoved_AppliesWhenNotRemoved(t *testing.T) {
	entry := rule("watch", nil, config.T("uses", "=7"))
	entry.IgnoreRemoved = true
	snap := compileSnapshot(t, entry)

	offer, ok := New(snap).OfferProposed(testAgent(), testOffers()[0])
	require.True(t, ok)
	assert.Equal(t, 7, offer.Uses)
}

func TestOfferProposed_ReplaceAndVeto(t *testing.T) {
	snap := compileSnapshot(t,
		rule("cheap", nil, config.T("ingredient-0", "amount 1")),
		rule("no-paper", config.Block{config.T("ingredient-0", "paper")}, config.T("remove", "true")),
	)
	e := New(snap)

	offers := testOffers()
	replaced, ok := e.OfferProposed(testAgent(), offers[0])
	require.True(t, ok)
	assert.Equal(t, 1, replaced.Ingredients[0].Amount)
	assert.Equal(t, 5, offers[0].Ingredients[0].Amount)

	_, ok = e.OfferProposed(testAgent(), offers[1])
	assert.False(t, ok)
}

func TestOfferProposed_IndexIsProposed(t *testing.T) {
	snap := compileSnapshot(t,
		rule("proposed-only", config.Block{config.T("index", "-1")}, config.T("uses", "=4")),
	)
	e := New(snap)

	offer, ok := e.OfferProposed(testAgent(), testOffers()[0])
	require.True(t, ok)
	assert.Equal(t, 4, offer.Uses)

	listed := e.AgentExamined(testAgent(), testOffers())
	assert.Equal(t, 0, listed[0].Uses)
}

func TestAgentWritesReachHost(t *testing.T) {
	snap := compileSnapshot(t, rule("promote", nil, config.T("villager.level", "max 5")))
	agent := testAgent()

	New(snap).AgentExamined(agent, testOffers()[:1])
	assert.Equal(t, 5, agent.Level)
}

func TestActionFailureContinuesPass(t *testing.T) {
	snap := compileSnapshot(t,
		rule("second-slot", nil, config.T("ingredient-1", "amount +1"), config.T("max-uses", "=1")),
	)
	collector := &Collector{}
	e := New(snap, WithObserver(collector))

	got := e.AgentExamined(testAgent(), testOffers())
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Ingredients[1].Amount)
	assert.Len(t, got[1].Ingredients, 1, "missing slot is not created")
	assert.Equal(t, 1, got[1].MaxUses)

	var failed []Event
	for _, ev := range collector.Events() {
		if ev.Kind == EventActionFailed {
			failed = append(failed, ev)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Offer)
	assert.Contains(t, failed[0].Detail, "no such ingredient slot")
}

func TestEventSeqIsMonotonic(t *testing.T) {
	snap := compileSnapshot(t, rule("all", nil, config.T("uses", "+1")))
	collector := &Collector{}
	e := New(snap, WithObserver(collector), WithClock(NewClockAt(100)))

	e.AgentExamined(testAgent(), testOffers())
	e.AgentExamined(testAgent(), testOffers())

	events := collector.Drain()
	require.Len(t, events, 4)
	for i, ev := range events {
		assert.Equal(t, int64(101+i), ev.Seq)
	}
	assert.NotEqual(t, events[0].Pass, events[2].Pass)
	assert.Empty(t, collector.Events())
}

func TestReload_SwapsSnapshot(t *testing.T) {
	first := compileSnapshot(t, rule("a", nil, config.T("max-uses", "=1")))
	second := compileSnapshot(t, rule("b", nil, config.T("max-uses", "=2")))
	e := New(first)

	assert.Equal(t, 1, e.AgentExamined(testAgent(), testOffers())[0].MaxUses)

	old := e.Reload(second)
	assert.Same(t, first, old)
	assert.Same(t, second, e.Snapshot())
	assert.Equal(t, 2, e.AgentExamined(testAgent(), testOffers())[0].MaxUses)
}

func TestReload_ConcurrentPassesSeeWholeSnapshots(t *testing.T) {
	a := compileSnapshot(t,
		rule("a1", nil, config.T("max-uses", "=1")),
		rule("a2", nil, config.T("uses", "=1")),
	)
	b := compileSnapshot(t,
		rule("b1", nil, config.T("max-uses", "=2")),
		rule("b2", nil, config.T("uses", "=2")),
	)
	e := New(a)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 200 {
			if i%2 == 0 {
				e.Reload(b)
			} else {
				e.Reload(a)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			for _, o := range e.AgentExamined(testAgent(), testOffers()) {
				assert.Equal(t, o.MaxUses, o.Uses, "pass mixed two snapshots")
			}
		}
	}()
	wg.Wait()
}

func TestReloadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	require.NoError(t, os.WriteFile(path, []byte(`recipes:
  double:
    do:
      max-uses: "*2"
  broken:
    do:
      max-uses: lots
`), 0o644))

	e := New(nil)
	report, err := e.ReloadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Loaded)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Error(), "broken")
	assert.Equal(t, 24, e.AgentExamined(testAgent(), testOffers())[0].MaxUses)

	before := e.Snapshot()
	_, err = e.ReloadFile(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	assert.Same(t, before, e.Snapshot(), "failed reload keeps previous rules")
}

func TestPassesAreDeterministic(t *testing.T) {
	snap := compileSnapshot(t,
		rule("cheap-paper", config.Block{config.T("ingredient-0", "paper")}, config.T("ingredient-0", "amount -4")),
		rule("no-books", config.Block{config.T("result", "enchanted_book")}, config.T("remove", "true")),
	)
	clock := testutil.NewDeterministicClock()
	collector := &Collector{}
	e := New(snap,
		WithObserver(collector),
		WithClock(clock),
		WithIDGenerator(testutil.NewFixedIDGenerator("")),
	)

	first := e.AgentExamined(testutil.Librarian(), testutil.Offers())
	firstEvents := collector.Drain()

	clock.Reset()
	second := e.AgentExamined(testutil.Librarian(), testutil.Offers())
	secondEvents := collector.Drain()

	assert.Equal(t, first, second)
	assert.Equal(t, firstEvents, secondEvents)
	require.Len(t, first, 1)
	assert.Equal(t, 20, first[0].Ingredients[0].Amount)
	assert.Equal(t, "test-pass", firstEvents[0].Pass)
}
