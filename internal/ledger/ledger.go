package ledger

import (
	"context"
	"fmt"

	"github.com/2beens/fitdiet/internal/kvstore"

	"github.com/google/uuid"
)

type idGenerator func() (string, error)

// newID returns a time-ordered uuid, so ids sort like creation times.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

// modify runs a read-modify-write cycle over the collection under key.
// Callers hold their ledger mutex for the whole cycle.
func modify[T any](ctx context.Context, kv kvstore.Store, key string, fn func([]T) ([]T, error)) ([]T, error) {
	current, _, err := kvstore.GetJSON[[]T](ctx, kv, key)
	if err != nil {
		return nil, err
	}

	updated, err := fn(current)
	if err != nil {
		return nil, err
	}

	if err := kvstore.SetJSON(ctx, kv, key, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
