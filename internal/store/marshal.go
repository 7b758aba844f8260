package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/tradepatch/internal/trade"
)

// marshalOffers converts an offer list to JSON TEXT. Struct field order is
// fixed, so identical offers always produce identical text.
func marshalOffers(offers []trade.Offer) (string, error) {
	if offers == nil {
		offers = []trade.Offer{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(offers); err != nil {
		return "", fmt.Errorf("marshal offers: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalOffers(data string) ([]trade.Offer, error) {
	offers := []trade.Offer{}
	if data == "" {
		return offers, nil
	}
	if err := json.Unmarshal([]byte(data), &offers); err != nil {
		return nil, fmt.Errorf("unmarshal offers: %w", err)
	}
	return offers, nil
}
