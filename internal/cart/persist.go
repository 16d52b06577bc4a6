package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Persister is the durable key-value slot behind the cart: one opaque JSON
// document per owner. Implementations must treat Read of an absent owner as
// (nil, false, nil), not an error.
type Persister interface {
	Read(ctx context.Context, owner string) ([]byte, bool, error)
	Write(ctx context.Context, owner string, data []byte) error
	Delete(ctx context.Context, owner string) error
	Ping(ctx context.Context) error
}

var errBadSnapshot = errors.New("malformed cart snapshot")

type snapshot struct {
	Items []LineItem `json:"items"`
}

func encodeSnapshot(c Cart) ([]byte, error) {
	return json.Marshal(snapshot{Items: c.Items})
}

// decodeSnapshot rejects anything that is not a JSON object with an items
// array. Callers fall back to an empty cart on error; a corrupt blob must
// never take the application down.
func decodeSnapshot(raw []byte) (Cart, error) {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", errBadSnapshot, err)
	}
	if snap.Items == nil {
		snap.Items = []LineItem{}
	}
	return Cart{Items: snap.Items}, nil
}
