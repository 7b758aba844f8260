package field

import (
	"fmt"
	"strconv"

	"github.com/roach88/tradepatch/internal/trade"
)

// MaxIngredients is the number of ingredient slots an offer can have.
const MaxIngredients = 2

// Default returns a registry over the built-in trade fields.
func Default() *Registry {
	return NewRegistry(TradeFields())
}

// TradeFields returns the root namespace of built-in trade fields.
func TradeFields() Namespace[trade.Trade] {
	return NewNamespace(
		Leaf("apply-discounts",
			func(t *trade.Trade) bool { return t.Offer.PriceMultiplier != 0 },
			func(t *trade.Trade, apply bool) {
				switch {
				case !apply:
					t.Offer.PriceMultiplier = 0
				case t.Offer.PriceMultiplier == 0:
					t.Offer.PriceMultiplier = 1
				}
			}),
		Leaf("max-uses",
			func(t *trade.Trade) int { return t.Offer.MaxUses },
			func(t *trade.Trade, n int) { t.Offer.MaxUses = n }),
		Leaf("uses",
			func(t *trade.Trade) int { return t.Offer.Uses },
			func(t *trade.Trade, n int) { t.Offer.Uses = n }),
		Leaf("award-experience",
			func(t *trade.Trade) bool { return t.Offer.ExperienceReward },
			func(t *trade.Trade, award bool) { t.Offer.ExperienceReward = award }),
		Leaf("villager-experience",
			func(t *trade.Trade) int { return t.Offer.AgentExperience },
			func(t *trade.Trade, n int) { t.Offer.AgentExperience = n }),
		ingredientField("ingredient-0", 0),
		ingredientField("ingredient-1", 1),
		Leaf("result",
			func(t *trade.Trade) trade.Item { return t.Offer.Result },
			func(t *trade.Trade, item trade.Item) { t.Offer.Result = item }),
		Leaf("remove",
			func(t *trade.Trade) bool { return t.Removed() },
			func(t *trade.Trade, remove bool) { t.SetRemoved(remove) }),
		Leaf[trade.Trade, int]("index",
			func(t *trade.Trade) int { return t.Index },
			nil),
		Complex[trade.Trade, trade.Offer]("ingredients",
			func(t *trade.Trade) trade.Offer { return t.Offer },
			func(t *trade.Trade, o trade.Offer) { t.Offer = o },
			slotNamespace{}),
		Complex[trade.Trade, trade.Agent]("villager",
			func(t *trade.Trade) trade.Agent { return *t.Agent },
			func(t *trade.Trade, a trade.Agent) { *t.Agent = a },
			AgentFields()),
	)
}

// AgentFields returns the namespace of agent properties.
func AgentFields() Namespace[trade.Agent] {
	return NewNamespace(
		Leaf[trade.Agent, string]("id",
			func(a *trade.Agent) string { return a.ID },
			nil),
		Leaf("name",
			func(a *trade.Agent) string { return a.Name },
			func(a *trade.Agent, name string) { a.Name = name }),
		Leaf("profession",
			func(a *trade.Agent) string { return a.Profession },
			func(a *trade.Agent, p string) { a.Profession = p }),
		Leaf("type",
			func(a *trade.Agent) string { return a.Type },
			func(a *trade.Agent, typ string) { a.Type = typ }),
		Leaf("level",
			func(a *trade.Agent) int { return a.Level },
			func(a *trade.Agent, n int) { a.Level = n }),
		Leaf("experience",
			func(a *trade.Agent) int { return a.Experience },
			func(a *trade.Agent, n int) { a.Experience = n }),
	)
}

func ingredientField(name string, index int) Accessor[trade.Trade] {
	return FallibleLeaf(name,
		func(t *trade.Trade) (trade.Item, error) { return getIngredient(&t.Offer, index) },
		func(t *trade.Trade, item trade.Item) error { return setIngredient(&t.Offer, index, item) })
}

// slotNamespace exposes ingredient slots of an offer by index.
// The children that exist depend on the live offer.
type slotNamespace struct{}

func (slotNamespace) Child(name string) (Accessor[trade.Offer], bool) {
	index, err := strconv.Atoi(name)
	if err != nil || index < 0 || index >= MaxIngredients || strconv.Itoa(index) != name {
		return nil, false
	}
	return FallibleLeaf(name,
		func(o *trade.Offer) (trade.Item, error) { return getIngredient(o, index) },
		func(o *trade.Offer, item trade.Item) error { return setIngredient(o, index, item) }), true
}

func (slotNamespace) ChildNames(o *trade.Offer) []string {
	n := MaxIngredients
	if o != nil {
		n = min(len(o.Ingredients), MaxIngredients)
	}
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

func getIngredient(o *trade.Offer, index int) (trade.Item, error) {
	item, ok := o.Ingredient(index)
	if !ok {
		return trade.Item{}, fmt.Errorf("slot %d of %d: %w", index, len(o.Ingredients), ErrNoSuchSlot)
	}
	return item, nil
}

// setIngredient writes item into slot index. A stack larger than the item's
// stack limit does not fit one slot: for the first slot the overflow moves into
// the second slot (itself capped at one stack), for the second slot the amount
// is clamped.
func setIngredient(o *trade.Offer, index int, item trade.Item) error {
	if index < 0 || index >= len(o.Ingredients) {
		return fmt.Errorf("slot %d of %d: %w", index, len(o.Ingredients), ErrNoSuchSlot)
	}
	limit := item.StackLimit()
	if item.Amount <= limit {
		o.Ingredients[index] = item
		return nil
	}
	if index != 0 {
		o.Ingredients[index] = item.WithAmount(limit)
		return nil
	}
	extra := item.WithAmount(min(item.Amount-limit, limit))
	o.Ingredients[0] = item.WithAmount(limit)
	if len(o.Ingredients) < 2 {
		o.Ingredients = append(o.Ingredients, extra)
	} else {
		o.Ingredients[1] = extra
	}
	return nil
}
