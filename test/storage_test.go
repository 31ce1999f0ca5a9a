//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/2beens/fitdiet/internal/backup"
	"github.com/2beens/fitdiet/internal/dietplan"
	"github.com/2beens/fitdiet/internal/generation"
	"github.com/2beens/fitdiet/internal/kvstore"
	"github.com/2beens/fitdiet/internal/ledger"
	"github.com/2beens/fitdiet/internal/profile"
	"github.com/2beens/fitdiet/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus"
)

func testProfile() profile.UserProfile {
	return profile.UserProfile{
		Name:         "Asha",
		Height:       "160",
		Weight:       "64",
		Age:          "29",
		WorkoutLevel: profile.WorkoutLevel3To4,
		FitnessGoal:  profile.GoalLoseWeight,
	}
}

func testPlanContent() generation.PlanContent {
	return generation.PlanContent{
		Breakfast: "Poha",
		Lunch:     "Dal rice",
		Dinner:    "Roti sabzi",
		Snacks:    "Fruit",
		Tips:      []string{"Sleep 8 hours"},
	}
}

func (s *IntegrationTestSuite) TestProfileStore() {
	ctx := context.Background()
	for name, kv := range s.stores() {
		s.Run(name, func() {
			profiles := profile.NewStore(kv)

			p, err := profiles.Get(ctx)
			s.Require().NoError(err)
			s.Nil(p)

			_, err = profiles.Save(ctx, testProfile())
			s.Require().NoError(err)

			p, err = profiles.Get(ctx)
			s.Require().NoError(err)
			s.Require().NotNil(p)
			s.Equal("Asha", p.Name)
			s.Equal(profile.HeightCm, p.HeightUnit)

			s.Require().NoError(profiles.Clear(ctx))
			p, err = profiles.Get(ctx)
			s.Require().NoError(err)
			s.Nil(p)
		})
	}
}

func (s *IntegrationTestSuite) TestLedgers() {
	ctx := context.Background()
	for name, kv := range s.stores() {
		s.Run(name, func() {
			foods := ledger.NewFoodLedger(kv)
			_, err := foods.Append(ctx, ledger.FoodEntry{Meal: ledger.MealLunch, Food: "Rajma", Calories: 240, Protein: 9})
			s.Require().NoError(err)
			_, err = foods.Append(ctx, ledger.FoodEntry{Meal: ledger.MealDinner, Food: "Roti", Calories: 104})
			s.Require().NoError(err)

			// a fresh ledger reads what the first one wrote
			entries, err := ledger.NewFoodLedger(kv).List(ctx)
			s.Require().NoError(err)
			s.Require().Len(entries, 2)

			today, err := foods.Today(ctx, time.Now(), time.UTC)
			s.Require().NoError(err)
			s.Len(today, 2)

			workouts := ledger.NewWorkoutLedger(kv)
			w, err := workouts.Add(ctx, ledger.WorkoutEntry{Exercise: "Deadlift", Sets: "3", Reps: "5"})
			s.Require().NoError(err)
			s.Require().NoError(workouts.Delete(ctx, w.ID))
			s.ErrorIs(workouts.Delete(ctx, w.ID), ledger.ErrEntryNotFound)

			list, err := workouts.List(ctx)
			s.Require().NoError(err)
			s.Empty(list)
		})
	}
}

func (s *IntegrationTestSuite) TestDietPlanStore_PersistsAcrossLoads() {
	ctx := context.Background()
	for name, kv := range s.stores() {
		s.Run(name, func() {
			mm := metrics.NewManager("fitdiet", "integration", prometheus.NewRegistry())
			plans := dietplan.NewStore(kv, mm)
			s.Require().NoError(plans.Load(ctx))

			first, err := plans.Add(ctx, testPlanContent())
			s.Require().NoError(err)
			second, err := plans.Add(ctx, testPlanContent())
			s.Require().NoError(err)
			_, err = plans.ToggleExpanded(ctx, first.ID)
			s.Require().NoError(err)

			reloaded := dietplan.NewStore(kv, metrics.NewManager("fitdiet", "integration", prometheus.NewRegistry()))
			s.Require().NoError(reloaded.Load(ctx))
			list := reloaded.List()
			s.Require().Len(list, 2)
			s.Equal(second.ID, list[0].ID)
			s.Equal(second.ID, reloaded.Selected().ID)
			s.True(list[1].IsExpanded)
			s.Equal("Diet Plan 1", list[1].Name)
		})
	}
}

func (s *IntegrationTestSuite) TestPsqlStore_StoresJSONB() {
	ctx := context.Background()
	_, err := profile.NewStore(s.psqlStore).Save(ctx, testProfile())
	s.Require().NoError(err)

	var raw []byte
	err = s.DB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, kvstore.KeyUserData).Scan(&raw)
	s.Require().NoError(err)

	var stored profile.UserProfile
	s.Require().NoError(json.Unmarshal(raw, &stored))
	s.Equal("Asha", stored.Name)
	s.Equal(profile.GoalLoseWeight, stored.FitnessGoal)
}

func (s *IntegrationTestSuite) TestBackup_RedisToPostgres() {
	ctx := context.Background()

	_, err := profile.NewStore(s.redisStore).Save(ctx, testProfile())
	s.Require().NoError(err)
	_, err = ledger.NewWorkoutLedger(s.redisStore).Add(ctx, ledger.WorkoutEntry{Exercise: "Squat"})
	s.Require().NoError(err)

	snap, err := backup.Export(ctx, s.redisStore, time.Now())
	s.Require().NoError(err)
	s.Equal([]string{kvstore.KeyUserData, kvstore.KeyWorkoutEntries}, snap.Keys())

	n, err := backup.Import(ctx, s.psqlStore, snap)
	s.Require().NoError(err)
	s.Equal(2, n)

	p, err := profile.NewStore(s.psqlStore).Get(ctx)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Equal("Asha", p.Name)

	workouts, err := ledger.NewWorkoutLedger(s.psqlStore).List(ctx)
	s.Require().NoError(err)
	s.Require().Len(workouts, 1)
	s.Equal("Squat", workouts[0].Exercise)
}

func (s *IntegrationTestSuite) TestGenerationRateLimit() {
	ctx := context.Background()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		text := `{"name":"Dal","calories":116,"protein":9,"carbs":20,"fat":0.4}`
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
			},
		})
	}))
	defer srv.Close()

	client, err := generation.NewClient(generation.ClientParams{
		APIURL:          srv.URL,
		APIKey:          "test-key",
		Timeout:         5 * time.Second,
		CacheSizeMB:     1,
		CacheTTLSeconds: 60,
		RateLimiter:     redis_rate.NewLimiter(s.rdb),
		RatePerMinute:   1,
		MetricsManager:  metrics.NewManager("fitdiet", "integration", prometheus.NewRegistry()),
	})
	s.Require().NoError(err)

	rec, err := client.GetFoodNutrition(ctx, "dal")
	s.Require().NoError(err)
	s.Equal("Dal", rec.Name)

	// cached, so not counted against the limit
	_, err = client.GetFoodNutrition(ctx, "DAL")
	s.Require().NoError(err)

	_, err = client.GetFoodNutrition(ctx, "rajma")
	s.Require().Error(err)
	s.ErrorIs(err, generation.ErrRequestFailed)
	s.Equal(int32(1), hits.Load())
}
