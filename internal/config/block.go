package config

import "strings"

// Block is an ordered mapping from keys to terminal or nested values.
type Block []Entry

// Entry is one key of a Block. Exactly one of Text, Null or Nested describes
// the value.
type Entry struct {
	Key string

	// Text is the raw text of a terminal value.
	Text string
	// Null marks a terminal written without a value.
	Null bool
	// Nested is non-nil for a nested mapping.
	Nested Block

	Pos string
}

// IsNested reports whether the entry holds a nested mapping.
func (e Entry) IsNested() bool {
	return e.Nested != nil
}

// Value renders the terminal value for labels and messages.
func (e Entry) Value() string {
	switch {
	case e.IsNested():
		return "{...}"
	case e.Null:
		return "null"
	default:
		return e.Text
	}
}

// Lookup returns the first entry with the given key.
func (b Block) Lookup(key string) (Entry, bool) {
	for _, e := range b {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Keys returns the keys in declaration order.
func (b Block) Keys() []string {
	keys := make([]string, len(b))
	for i, e := range b {
		keys[i] = e.Key
	}
	return keys
}

func (b Block) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.Key)
		sb.WriteString(": ")
		if e.IsNested() {
			sb.WriteString(e.Nested.String())
		} else {
			sb.WriteString(e.Value())
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

// T builds a terminal entry.
func T(key, text string) Entry {
	return Entry{Key: key, Text: text}
}

// N builds a nested entry.
func N(key string, entries ...Entry) Entry {
	if entries == nil {
		entries = Block{}
	}
	return Entry{Key: key, Nested: Block(entries)}
}

// Null builds a terminal entry without a value.
func Null(key string) Entry {
	return Entry{Key: key, Null: true}
}
