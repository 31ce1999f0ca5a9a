package dietplan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitdiet/internal/generation"
	"github.com/2beens/fitdiet/internal/kvstore"
	"github.com/2beens/fitdiet/internal/telemetry/metrics"
	"github.com/2beens/fitdiet/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrCapacityReached = fmt.Errorf("diet plan limit reached, delete a plan before generating a new one (max %d)", MaxPlans)
	ErrPlanNotFound    = errors.New("diet plan not found")
)

// Store keeps the saved plans in memory and writes the whole list back
// after every mutation. A failed write leaves the in-memory change in place.
type Store struct {
	kv             kvstore.Store
	metricsManager *metrics.Manager

	mu         sync.Mutex
	plans      []DietPlan
	selectedID string

	now   func() time.Time
	newID func() (string, error)
}

func NewStore(kv kvstore.Store, metricsManager *metrics.Manager) *Store {
	return &Store{
		kv:             kv,
		metricsManager: metricsManager,
		now:            time.Now,
		newID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}
}

// Load replaces the in-memory plans with the persisted ones and selects the first.
func (s *Store) Load(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dietPlanStore.load")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	plans, _, err := kvstore.GetJSON[[]DietPlan](ctx, s.kv, kvstore.KeyDietPlans)
	if err != nil {
		return fmt.Errorf("load diet plans: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.plans = plans
	s.selectedID = ""
	if len(s.plans) > 0 {
		s.selectedID = s.plans[0].ID
	}
	s.metricsManager.GaugeDietPlans.Set(float64(len(s.plans)))

	log.Debugf("loaded %d diet plans", len(s.plans))
	return nil
}

func (s *Store) Full() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.plans) >= MaxPlans
}

// Add saves generated content as a new plan at the front of the list and selects it.
func (s *Store) Add(ctx context.Context, content generation.PlanContent) (_ *DietPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dietPlanStore.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.plans) >= MaxPlans {
		return nil, ErrCapacityReached
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate plan id: %w", err)
	}

	plan := newPlan(id, len(s.plans), content, s.now())
	s.plans = append([]DietPlan{plan}, s.plans...)
	s.selectedID = plan.ID
	s.metricsManager.CounterDietPlans.WithLabelValues("add").Inc()
	s.metricsManager.GaugeDietPlans.Set(float64(len(s.plans)))

	added := plan.clone()
	if err := s.persist(ctx); err != nil {
		return &added, err
	}
	return &added, nil
}

// Remove deletes a plan. Removing the selected plan selects the new first one.
func (s *Store) Remove(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dietPlanStore.remove")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrPlanNotFound
	}

	s.plans = append(s.plans[:idx:idx], s.plans[idx+1:]...)
	if s.selectedID == id {
		s.selectedID = ""
		if len(s.plans) > 0 {
			s.selectedID = s.plans[0].ID
		}
	}
	s.metricsManager.CounterDietPlans.WithLabelValues("remove").Inc()
	s.metricsManager.GaugeDietPlans.Set(float64(len(s.plans)))

	return s.persist(ctx)
}

// Select changes the active plan. The selection is not persisted.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return ErrPlanNotFound
	}
	s.selectedID = id
	return nil
}

// ToggleExpanded flips the expanded flag of one plan and returns the updated plan.
func (s *Store) ToggleExpanded(ctx context.Context, id string) (_ *DietPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dietPlanStore.toggleExpanded")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrPlanNotFound
	}

	s.plans[idx].IsExpanded = !s.plans[idx].IsExpanded
	s.metricsManager.CounterDietPlans.WithLabelValues("toggle").Inc()

	toggled := s.plans[idx].clone()
	if err := s.persist(ctx); err != nil {
		return &toggled, err
	}
	return &toggled, nil
}

func (s *Store) List() []DietPlan {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans := make([]DietPlan, 0, len(s.plans))
	for _, p := range s.plans {
		plans = append(plans, p.clone())
	}
	return plans
}

// Selected returns the active plan, or nil when there is none.
func (s *Store) Selected() *DietPlan {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(s.selectedID)
	if idx < 0 {
		return nil
	}
	p := s.plans[idx].clone()
	return &p
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.plans {
		if s.plans[i].ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) error {
	if err := kvstore.SetJSON(ctx, s.kv, kvstore.KeyDietPlans, s.plans); err != nil {
		log.Errorf("persist %d diet plans: %s", len(s.plans), err)
		return fmt.Errorf("save diet plans: %w", err)
	}
	return nil
}
