package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitdiet/internal/kvstore"
	"github.com/2beens/fitdiet/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// FoodLedger is append only. Entries are never edited after they are logged.
type FoodLedger struct {
	kv    kvstore.Store
	mu    sync.Mutex
	now   func() time.Time
	newID idGenerator
}

func NewFoodLedger(kv kvstore.Store) *FoodLedger {
	return &FoodLedger{
		kv:    kv,
		now:   time.Now,
		newID: newID,
	}
}

func (l *FoodLedger) Append(ctx context.Context, entry FoodEntry) (_ *FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.food.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if entry.ID == "" {
		if entry.ID, err = l.newID(); err != nil {
			return nil, err
		}
	}
	if entry.Date.IsZero() {
		entry.Date = l.now()
	}
	span.SetAttributes(
		attribute.String("entry.id", entry.ID),
		attribute.String("entry.meal", string(entry.Meal)),
	)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := modify(ctx, l.kv, kvstore.KeyFoodEntries, func(entries []FoodEntry) ([]FoodEntry, error) {
		return append(entries, entry), nil
	}); err != nil {
		log.Errorf("append food entry %s: %s", entry.ID, err)
		return nil, fmt.Errorf("save food entry: %w", err)
	}

	log.Debugf("food entry %s logged: %s, %d kcal", entry.ID, entry.Title(), entry.Calories)
	return &entry, nil
}

func (l *FoodLedger) List(ctx context.Context) (_ []FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.food.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entries, _, err := kvstore.GetJSON[[]FoodEntry](ctx, l.kv, kvstore.KeyFoodEntries)
	if err != nil {
		return nil, fmt.Errorf("load food entries: %w", err)
	}
	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	return entries, nil
}

// Today returns the entries logged on the calendar day of now, in loc.
func (l *FoodLedger) Today(ctx context.Context, now time.Time, loc *time.Location) ([]FoodEntry, error) {
	entries, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	return OnDay(entries, now, loc), nil
}
