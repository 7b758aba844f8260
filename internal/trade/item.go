package trade

import "fmt"

// DefaultMaxStackSize is used when an item does not declare its own stack limit.
const DefaultMaxStackSize = 64

// Item is a quantity-bearing stack of a single material.
// Items are values: copying an Item clones it.
type Item struct {
	Material     string `json:"material" yaml:"material"`
	Amount       int    `json:"amount" yaml:"amount"`
	MaxStackSize int    `json:"max_stack_size,omitempty" yaml:"max_stack_size,omitempty"`
}

// NewItem creates an item stack with the default stack limit.
func NewItem(material string, amount int) Item {
	return Item{Material: material, Amount: amount, MaxStackSize: DefaultMaxStackSize}
}

// StackLimit returns the maximum amount a single stack of this item can hold.
func (i Item) StackLimit() int {
	if i.MaxStackSize <= 0 {
		return DefaultMaxStackSize
	}
	return i.MaxStackSize
}

// WithAmount returns a copy of the item holding amount units.
func (i Item) WithAmount(amount int) Item {
	i.Amount = amount
	return i
}

// IsEmpty reports whether the stack holds nothing.
func (i Item) IsEmpty() bool {
	return i.Material == "" || i.Amount <= 0
}

func (i Item) String() string {
	if i.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("%d×%s", i.Amount, i.Material)
}
