package dietplan

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitdiet/internal/generation"
	"github.com/2beens/fitdiet/internal/profile"
	"github.com/2beens/fitdiet/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

var ErrProfileRequired = errors.New("a saved profile is required to generate a diet plan")

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=dietplan_test

type planGenerator interface {
	GenerateDietPlan(ctx context.Context, p *profile.UserProfile) (*generation.PlanContent, error)
}

type profileGetter interface {
	Get(ctx context.Context) (*profile.UserProfile, error)
}

type Service struct {
	store     *Store
	generator planGenerator
	profiles  profileGetter
}

func NewService(store *Store, generator planGenerator, profiles profileGetter) *Service {
	return &Service{
		store:     store,
		generator: generator,
		profiles:  profiles,
	}
}

// Generate builds a plan for the saved profile and stores it. Capacity is
// checked first so a full store never costs a generation call.
func (s *Service) Generate(ctx context.Context) (_ *DietPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dietPlanService.generate")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if s.store.Full() {
		return nil, ErrCapacityReached
	}

	p, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if p == nil {
		return nil, ErrProfileRequired
	}

	content, err := s.generator.GenerateDietPlan(ctx, p)
	if err != nil {
		log.Errorf("generate diet plan: %s", err)
		return nil, fmt.Errorf("generate diet plan: %w", err)
	}

	plan, err := s.store.Add(ctx, *content)
	if err != nil {
		return plan, err
	}

	log.Debugf("diet plan %s generated: %s", plan.ID, plan.Name)
	return plan, nil
}
