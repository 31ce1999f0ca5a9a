package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("key not found")

// Persistence keys of the tracker collections.
const (
	KeyUserData       = "userData"
	KeyFoodEntries    = "foodEntries"
	KeyWorkoutEntries = "workoutEntries"
	KeyDietPlans      = "savedDietPlans"
)

// AllKeys lists every collection key, in backup order.
var AllKeys = []string{KeyUserData, KeyFoodEntries, KeyWorkoutEntries, KeyDietPlans}

// Store is a byte-oriented key-value store.
// Get returns ErrNotFound when the key was never set (or was removed).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// GetJSON decodes the value stored under key into T.
// A missing key yields the zero value of T and no error.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var v T
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return v, false, nil
		}
		return v, false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, true, nil
}

func SetJSON[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
