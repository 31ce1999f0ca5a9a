package backup_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/fitdiet/internal/backup"
	"github.com/2beens/fitdiet/internal/dietplan"
	"github.com/2beens/fitdiet/internal/generation"
	"github.com/2beens/fitdiet/internal/kvstore"
	"github.com/2beens/fitdiet/internal/ledger"
	"github.com/2beens/fitdiet/internal/profile"
	"github.com/2beens/fitdiet/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

type brokenStore struct {
	*kvstore.MemoryStore
	err error
}

func (s *brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, s.err
}

func (s *brokenStore) Set(context.Context, string, []byte) error {
	return s.err
}

func populate(t *testing.T, kv kvstore.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := profile.NewStore(kv).Save(ctx, profile.UserProfile{
		Name:         "Kiran",
		Height:       "175",
		Weight:       "70",
		Age:          "40",
		WorkoutLevel: profile.ActivityActive,
		FitnessGoal:  profile.GoalMaintain,
	})
	require.NoError(t, err)

	_, err = ledger.NewFoodLedger(kv).Append(ctx, ledger.FoodEntry{
		Meal:     ledger.MealDinner,
		Food:     "Rajma Chawal",
		Calories: 420,
		Protein:  14.2,
		Carbs:    70,
		Fat:      8.5,
	})
	require.NoError(t, err)

	_, err = ledger.NewWorkoutLedger(kv).Add(ctx, ledger.WorkoutEntry{Exercise: "Deadlift", Sets: "3", Reps: "5", Weight: "100"})
	require.NoError(t, err)

	plans := dietplan.NewStore(kv, metrics.NewTestManager())
	require.NoError(t, plans.Load(ctx))
	_, err = plans.Add(ctx, generation.PlanContent{
		Breakfast: "Upma",
		Lunch:     "Dal rice",
		Dinner:    "Roti sabzi",
		Snacks:    "Sprouts",
		Tips:      []string{"Walk after meals"},
	})
	require.NoError(t, err)
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	source := kvstore.NewMemoryStore()
	populate(t, source)

	exportedAt := time.Date(2026, 5, 1, 18, 4, 5, 0, time.UTC)
	snap, err := backup.Export(ctx, source, exportedAt)
	require.NoError(t, err)
	assert.Equal(t, backup.SnapshotVersion, snap.Version)
	assert.Equal(t, exportedAt, snap.ExportedAt)
	assert.Equal(t, kvstore.AllKeys, snap.Keys())

	path := filepath.Join(t.TempDir(), "nested", backup.FileName(exportedAt))
	assert.Equal(t, "fitdiet-backup-2026-05-01_180405.json", filepath.Base(path))
	require.NoError(t, backup.WriteFile(path, snap))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	restoredSnap, err := backup.ReadFile(path)
	require.NoError(t, err)

	target := kvstore.NewMemoryStore()
	imported, err := backup.Import(ctx, target, restoredSnap)
	require.NoError(t, err)
	assert.Equal(t, len(kvstore.AllKeys), imported)

	for _, key := range kvstore.AllKeys {
		want, err := source.Get(ctx, key)
		require.NoError(t, err)
		got, err := target.Get(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, string(want), string(got), key)
	}

	// restored data is usable through the stores
	p, err := profile.NewStore(target).Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Kiran", p.Name)

	workouts, err := ledger.NewWorkoutLedger(target).List(ctx)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, "Deadlift", workouts[0].Exercise)
}

func TestExport_SkipsMissingCollections(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	_, err := ledger.NewWorkoutLedger(kv).Add(ctx, ledger.WorkoutEntry{Exercise: "Plank"})
	require.NoError(t, err)

	snap, err := backup.Export(ctx, kv, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{kvstore.KeyWorkoutEntries}, snap.Keys())

	// importing a partial snapshot leaves other collections alone
	target := kvstore.NewMemoryStore()
	require.NoError(t, target.Set(ctx, kvstore.KeyUserData, []byte(`{"name":"keep"}`)))
	imported, err := backup.Import(ctx, target, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	kept, err := target.Get(ctx, kvstore.KeyUserData)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"keep"}`, string(kept))
}

func TestExport_Errors(t *testing.T) {
	ctx := context.Background()

	storeErr := errors.New("io timeout")
	_, err := backup.Export(ctx, &brokenStore{MemoryStore: kvstore.NewMemoryStore(), err: storeErr}, time.Now())
	require.ErrorIs(t, err, storeErr)

	kv := kvstore.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, kvstore.KeyFoodEntries, []byte("not json")))
	_, err = backup.Export(ctx, kv, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), kvstore.KeyFoodEntries)
}

func TestImport_Errors(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	_, err := backup.Import(ctx, kv, nil)
	require.ErrorIs(t, err, backup.ErrEmptySnapshot)

	_, err = backup.Import(ctx, kv, &backup.Snapshot{Version: backup.SnapshotVersion})
	require.ErrorIs(t, err, backup.ErrEmptySnapshot)

	_, err = backup.Import(ctx, kv, &backup.Snapshot{
		Version:     99,
		Collections: map[string]json.RawMessage{kvstore.KeyUserData: json.RawMessage(`{}`)},
	})
	require.ErrorIs(t, err, backup.ErrUnsupportedVersion)

	// unknown collections are ignored
	imported, err := backup.Import(ctx, kv, &backup.Snapshot{
		Version:     backup.SnapshotVersion,
		Collections: map[string]json.RawMessage{"somethingElse": json.RawMessage(`[]`)},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, imported)

	storeErr := errors.New("read only")
	_, err = backup.Import(ctx, &brokenStore{MemoryStore: kv, err: storeErr}, &backup.Snapshot{
		Version:     backup.SnapshotVersion,
		Collections: map[string]json.RawMessage{kvstore.KeyUserData: json.RawMessage(`{}`)},
	})
	require.ErrorIs(t, err, storeErr)
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := backup.ReadFile(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{"), 0o600))
	_, err = backup.ReadFile(badPath)
	require.Error(t, err)
}

func TestImport_RejectsWrongShapes(t *testing.T) {
	testCases := []struct {
		name        string
		collections map[string]json.RawMessage
	}{
		{
			name: "food entries object",
			collections: map[string]json.RawMessage{
				kvstore.KeyFoodEntries: json.RawMessage(`{"not":"a list"}`),
			},
		},
		{
			name: "user data array",
			collections: map[string]json.RawMessage{
				kvstore.KeyUserData: json.RawMessage(`[1,2,3]`),
			},
		},
		{
			name: "user data null",
			collections: map[string]json.RawMessage{
				kvstore.KeyUserData: json.RawMessage(`null`),
			},
		},
		{
			name: "workouts of numbers",
			collections: map[string]json.RawMessage{
				kvstore.KeyWorkoutEntries: json.RawMessage(`[1,2]`),
			},
		},
		{
			// earlier keys are valid, nothing may be written
			name: "bad diet plans last",
			collections: map[string]json.RawMessage{
				kvstore.KeyUserData:    json.RawMessage(`{"name":"Other"}`),
				kvstore.KeyFoodEntries: json.RawMessage(`[]`),
				kvstore.KeyDietPlans:   json.RawMessage(`{"id":"p1"}`),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			kv := kvstore.NewMemoryStore()
			populate(t, kv)

			before := map[string][]byte{}
			for _, key := range kvstore.AllKeys {
				v, err := kv.Get(ctx, key)
				require.NoError(t, err)
				before[key] = v
			}

			imported, err := backup.Import(ctx, kv, &backup.Snapshot{
				Version:     backup.SnapshotVersion,
				Collections: tc.collections,
			})
			require.ErrorIs(t, err, backup.ErrInvalidCollection)
			assert.Equal(t, 0, imported)

			for _, key := range kvstore.AllKeys {
				v, err := kv.Get(ctx, key)
				require.NoError(t, err)
				assert.JSONEq(t, string(before[key]), string(v), key)
			}

			// stores still load
			_, err = profile.NewStore(kv).Get(ctx)
			require.NoError(t, err)
			_, err = ledger.NewFoodLedger(kv).List(ctx)
			require.NoError(t, err)
			require.NoError(t, dietplan.NewStore(kv, metrics.NewTestManager()).Load(ctx))
		})
	}
}
