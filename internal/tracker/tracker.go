package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitdiet/internal/catalog"
	"github.com/2beens/fitdiet/internal/generation"
	"github.com/2beens/fitdiet/internal/ledger"
	"github.com/2beens/fitdiet/internal/nutrition"
	"github.com/2beens/fitdiet/internal/profile"
	"github.com/2beens/fitdiet/internal/telemetry/metrics"
	"github.com/2beens/fitdiet/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	sourceLookup  = "lookup"
	sourceCatalog = "catalog"
)

var ErrNoFood = errors.New("no food selected, search for a food first")

type Params struct {
	Profiles       *profile.Store
	Foods          *ledger.FoodLedger
	Workouts       *ledger.WorkoutLedger
	MetricsManager *metrics.Manager
	CalorieTarget  int
	Location       *time.Location
}

// Tracker drives the day-to-day operations over the stores.
type Tracker struct {
	profiles       *profile.Store
	foods          *ledger.FoodLedger
	workouts       *ledger.WorkoutLedger
	metricsManager *metrics.Manager
	calorieTarget  int
	loc            *time.Location
	now            func() time.Time
}

func New(params Params) *Tracker {
	target := params.CalorieTarget
	if target <= 0 {
		target = nutrition.DefaultCalorieTarget
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	return &Tracker{
		profiles:       params.Profiles,
		foods:          params.Foods,
		workouts:       params.Workouts,
		metricsManager: params.MetricsManager,
		calorieTarget:  target,
		loc:            loc,
		now:            time.Now,
	}
}

// QuantityMultiplier turns a gram quantity typed by the user into a per-100g
// multiplier. Anything that is not a positive number counts as 100 g.
func QuantityMultiplier(quantityGrams string) float64 {
	q, err := strconv.ParseFloat(strings.TrimSpace(quantityGrams), 64)
	if err != nil || q <= 0 || math.IsInf(q, 0) || math.IsNaN(q) {
		return 1
	}
	return q / 100
}

func scaled(calories, protein, carbs, fat, multiplier float64) (int, float64, float64, float64) {
	return int(math.Round(calories * multiplier)),
		nutrition.Round1(protein * multiplier),
		nutrition.Round1(carbs * multiplier),
		nutrition.Round1(fat * multiplier)
}

// LogNutrition logs a looked-up food, scaled from its per-100g values.
func (t *Tracker) LogNutrition(ctx context.Context, meal ledger.Meal, rec *generation.NutritionRecord, quantityGrams string) (_ *ledger.FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.logNutrition")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if rec == nil {
		return nil, ErrNoFood
	}

	m := QuantityMultiplier(quantityGrams)
	entry := ledger.FoodEntry{
		Meal:  meal,
		Food:  rec.Name,
		Items: []ledger.Item{{Name: rec.Name, Quantity: nutrition.Round1(m * 100), Unit: "g"}},
	}
	entry.Calories, entry.Protein, entry.Carbs, entry.Fat = scaled(rec.Calories, rec.Protein, rec.Carbs, rec.Fat, m)
	span.SetAttributes(attribute.Float64("multiplier", m))

	return t.appendFood(ctx, entry, sourceLookup)
}

// LogCatalogItem logs a catalog food. Catalog values are per the reference
// quantity in the item name, so servings is the multiplier (default 1).
func (t *Tracker) LogCatalogItem(ctx context.Context, meal ledger.Meal, item catalog.FoodItem, servings float64) (_ *ledger.FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.logCatalogItem")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if servings <= 0 || math.IsNaN(servings) || math.IsInf(servings, 0) {
		servings = 1
	}

	entry := ledger.FoodEntry{
		Meal:  meal,
		Food:  item.Name,
		Items: []ledger.Item{{Name: item.Name, Quantity: servings, Unit: "serving"}},
	}
	entry.Calories, entry.Protein, entry.Carbs, entry.Fat = scaled(item.Calories, item.Protein, item.Carbs, item.Fat, servings)

	return t.appendFood(ctx, entry, sourceCatalog)
}

func (t *Tracker) appendFood(ctx context.Context, entry ledger.FoodEntry, source string) (*ledger.FoodEntry, error) {
	logged, err := t.foods.Append(ctx, entry)
	if err != nil {
		return nil, err
	}
	t.metricsManager.CounterFoodEntries.WithLabelValues(string(logged.Meal), source).Inc()
	return logged, nil
}

type WorkoutInput struct {
	Exercise string
	Sets     string
	Reps     string
	Weight   string
	Notes    string
}

func (t *Tracker) LogWorkout(ctx context.Context, in WorkoutInput) (_ *ledger.WorkoutEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.logWorkout")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	w, err := t.workouts.Add(ctx, ledger.WorkoutEntry{
		Exercise: in.Exercise,
		Sets:     strings.TrimSpace(in.Sets),
		Reps:     strings.TrimSpace(in.Reps),
		Weight:   strings.TrimSpace(in.Weight),
		Notes:    strings.TrimSpace(in.Notes),
	})
	if err != nil {
		return nil, err
	}
	t.metricsManager.CounterWorkouts.WithLabelValues("add").Inc()
	return w, nil
}

func (t *Tracker) DeleteWorkout(ctx context.Context, id string) error {
	if err := t.workouts.Delete(ctx, id); err != nil {
		return err
	}
	t.metricsManager.CounterWorkouts.WithLabelValues("delete").Inc()
	return nil
}

type Dashboard struct {
	Greeting string               `json:"greeting"`
	Name     string               `json:"name,omitempty"`
	Goal     string               `json:"goal,omitempty"`
	Summary  nutrition.Summary    `json:"summary"`
	Target   int                  `json:"target"`
	Progress float64              `json:"progress"`
	BMI      float64              `json:"bmi"`
	BMIClass nutrition.BMIClass   `json:"bmiClass"`
	Profile  *profile.UserProfile `json:"-"`
}

// Today builds the home screen numbers for the current local day.
// A missing profile is not an error; BMI is then N/A.
func (t *Tracker) Today(ctx context.Context) (_ *Dashboard, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.today")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	now := t.now()

	p, err := t.profiles.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	entries, err := t.foods.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := nutrition.DailySummary(entries, now, t.loc)
	bmi, ok := nutrition.BMIFromProfile(p)
	if !ok {
		log.Debug("bmi not available, profile missing or incomplete")
	}

	d := &Dashboard{
		Greeting: Greeting(now.In(t.loc)),
		Summary:  summary,
		Target:   t.calorieTarget,
		Progress: nutrition.Progress(float64(summary.Calories.Total), float64(t.calorieTarget)),
		BMI:      bmi,
		BMIClass: nutrition.ClassifyBMI(bmi),
		Profile:  p,
	}
	if p != nil {
		d.Name = p.Name
		d.Goal = p.FitnessGoal.Label()
	}
	return d, nil
}

func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
