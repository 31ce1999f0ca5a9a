package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/fitdiet/internal/kvstore"
	"github.com/2beens/fitdiet/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// WorkoutLedger keeps the newest workout first.
type WorkoutLedger struct {
	kv    kvstore.Store
	mu    sync.Mutex
	now   func() time.Time
	newID idGenerator
}

func NewWorkoutLedger(kv kvstore.Store) *WorkoutLedger {
	return &WorkoutLedger{
		kv:    kv,
		now:   time.Now,
		newID: newID,
	}
}

func (l *WorkoutLedger) Add(ctx context.Context, w WorkoutEntry) (_ *WorkoutEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.workout.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	w.Exercise = strings.TrimSpace(w.Exercise)
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if w.ID == "" {
		if w.ID, err = l.newID(); err != nil {
			return nil, err
		}
	}
	if w.Date.IsZero() {
		w.Date = l.now()
	}
	span.SetAttributes(attribute.String("workout.id", w.ID))

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := modify(ctx, l.kv, kvstore.KeyWorkoutEntries, func(entries []WorkoutEntry) ([]WorkoutEntry, error) {
		return append([]WorkoutEntry{w}, entries...), nil
	}); err != nil {
		log.Errorf("add workout %s: %s", w.ID, err)
		return nil, fmt.Errorf("save workout: %w", err)
	}

	log.Debugf("workout %s added: %s", w.ID, w.Exercise)
	return &w, nil
}

func (l *WorkoutLedger) List(ctx context.Context) (_ []WorkoutEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.workout.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entries, _, err := kvstore.GetJSON[[]WorkoutEntry](ctx, l.kv, kvstore.KeyWorkoutEntries)
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}
	return entries, nil
}

func (l *WorkoutLedger) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.workout.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err = modify(ctx, l.kv, kvstore.KeyWorkoutEntries, func(entries []WorkoutEntry) ([]WorkoutEntry, error) {
		kept := make([]WorkoutEntry, 0, len(entries))
		for _, e := range entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(entries) {
			return nil, ErrEntryNotFound
		}
		return kept, nil
	})
	if err != nil {
		return fmt.Errorf("delete workout %s: %w", id, err)
	}
	return nil
}
