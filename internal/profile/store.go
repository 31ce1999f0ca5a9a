package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitdiet/internal/kvstore"
	"github.com/2beens/fitdiet/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

type Store struct {
	kv  kvstore.Store
	now func() time.Time
}

func NewStore(kv kvstore.Store) *Store {
	return &Store{
		kv:  kv,
		now: time.Now,
	}
}

// Get returns (nil, nil) when no profile has been saved yet.
// The returned profile is normalized but not validated.
func (s *Store) Get(ctx context.Context) (_ *UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p, found, err := kvstore.GetJSON[UserProfile](ctx, s.kv, kvstore.KeyUserData)
	if err != nil {
		log.Errorf("load profile: %s", err)
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if !found {
		return nil, nil
	}
	// older profiles may carry legacy goal spellings
	p.Normalize(s.now())
	return &p, nil
}

// Save normalizes and validates p, then replaces the stored profile.
// Nothing is written when validation fails.
func (s *Store) Save(ctx context.Context, p UserProfile) (_ *UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profile.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p.Normalize(s.now())
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := kvstore.SetJSON(ctx, s.kv, kvstore.KeyUserData, p); err != nil {
		log.Errorf("save profile: %s", err)
		return nil, fmt.Errorf("save profile: %w", err)
	}

	log.Debugf("profile saved for [%s]", p.Name)
	return &p, nil
}

func (s *Store) Clear(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profile.clear")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.kv.Remove(ctx, kvstore.KeyUserData); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}
