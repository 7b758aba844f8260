package testutil

import "github.com/roach88/tradepatch/internal/trade"

// Librarian returns a fresh level-2 librarian agent.
func Librarian() *trade.Agent {
	return &trade.Agent{ID: "librarian-1", Name: "Bob", Profession: "librarian", Type: "plains", Level: 2, Experience: 40}
}

// PaperOffer buys 24 paper for one emerald.
func PaperOffer() trade.Offer {
	return trade.Offer{
		Ingredients:      []trade.Item{trade.NewItem("paper", 24)},
		Result:           trade.NewItem("emerald", 1),
		Uses:             3,
		MaxUses:          16,
		PriceMultiplier:  0.05,
		ExperienceReward: true,
		AgentExperience:  2,
	}
}

// BookOffer sells an enchanted book for emeralds and a book.
func BookOffer() trade.Offer {
	return trade.Offer{
		Ingredients:      []trade.Item{trade.NewItem("emerald", 5), trade.NewItem("book", 1)},
		Result:           trade.NewItem("enchanted_book", 1),
		MaxUses:          12,
		PriceMultiplier:  0.2,
		ExperienceReward: true,
		AgentExperience:  10,
	}
}

// Offers returns the librarian's offer list: paper first, then the book.
func Offers() []trade.Offer {
	return []trade.Offer{PaperOffer(), BookOffer()}
}

// Trade wraps offer for agent at index.
func Trade(agent *trade.Agent, offer trade.Offer, index int) *trade.Trade {
	return trade.New(agent, offer, index)
}
