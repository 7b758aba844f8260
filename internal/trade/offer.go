package trade

import "slices"

// Offer is a single trade held by an agent.
type Offer struct {
	Ingredients []Item `json:"ingredients" yaml:"ingredients"`
	Result      Item   `json:"result" yaml:"result"`

	Uses    int `json:"uses" yaml:"uses"`
	MaxUses int `json:"max_uses" yaml:"max_uses"`

	// PriceMultiplier scales demand and reputation discounts.
	// Zero disables discounting entirely.
	PriceMultiplier float64 `json:"price_multiplier" yaml:"price_multiplier"`

	ExperienceReward bool `json:"experience_reward" yaml:"experience_reward"`
	AgentExperience  int  `json:"agent_experience" yaml:"agent_experience"`
}

// Clone returns a deep copy of the offer.
func (o Offer) Clone() Offer {
	o.Ingredients = slices.Clone(o.Ingredients)
	return o
}

// Ingredient returns the ingredient in slot i.
func (o Offer) Ingredient(i int) (Item, bool) {
	if i < 0 || i >= len(o.Ingredients) {
		return Item{}, false
	}
	return o.Ingredients[i], true
}
