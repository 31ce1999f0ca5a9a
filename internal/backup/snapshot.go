package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/fitdiet/internal/dietplan"
	"github.com/2beens/fitdiet/internal/kvstore"
	"github.com/2beens/fitdiet/internal/ledger"
	"github.com/2beens/fitdiet/internal/profile"
	"github.com/2beens/fitdiet/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const SnapshotVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported backup version")
	ErrEmptySnapshot      = errors.New("backup has no collections")
	ErrInvalidCollection  = errors.New("backup collection has the wrong shape")
)

// Snapshot holds every persisted collection as the raw JSON stored under its key.
type Snapshot struct {
	Version     int                        `json:"version"`
	ExportedAt  time.Time                  `json:"exportedAt"`
	Collections map[string]json.RawMessage `json:"collections"`
}

func (s *Snapshot) Keys() []string {
	var keys []string
	for _, k := range kvstore.AllKeys {
		if _, ok := s.Collections[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Export reads all known collections. Keys that were never written are left out.
func Export(ctx context.Context, kv kvstore.Store, now time.Time) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.export")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	snap := &Snapshot{
		Version:     SnapshotVersion,
		ExportedAt:  now.UTC(),
		Collections: make(map[string]json.RawMessage),
	}

	for _, key := range kvstore.AllKeys {
		value, err := kv.Get(ctx, key)
		if errors.Is(err, kvstore.ErrNotFound) {
			log.Debugf("backup export: %s not set, skipping", key)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", key, err)
		}
		if !json.Valid(value) {
			return nil, fmt.Errorf("export %s: stored value is not valid JSON", key)
		}
		snap.Collections[key] = json.RawMessage(value)
	}

	span.SetAttributes(attribute.Int("collections", len(snap.Collections)))
	return snap, nil
}

// Import writes every collection present in the snapshot, replacing what is stored.
// Collections missing from the snapshot are left untouched.
func Import(ctx context.Context, kv kvstore.Store, snap *Snapshot) (_ int, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.import")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if snap == nil || len(snap.Collections) == 0 {
		return 0, ErrEmptySnapshot
	}
	if snap.Version != SnapshotVersion {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}

	known := make(map[string]bool, len(kvstore.AllKeys))
	for _, k := range kvstore.AllKeys {
		known[k] = true
	}
	for k := range snap.Collections {
		if !known[k] {
			log.Warnf("backup import: unknown collection %s ignored", k)
		}
	}

	// nothing is written unless every collection decodes
	for _, key := range snap.Keys() {
		if err := checkCollection(key, snap.Collections[key]); err != nil {
			return 0, err
		}
	}

	imported := 0
	for _, key := range snap.Keys() {
		if err := kv.Set(ctx, key, snap.Collections[key]); err != nil {
			return imported, fmt.Errorf("import %s: %w", key, err)
		}
		imported++
	}

	log.Debugf("backup import: %d collections restored", imported)
	return imported, nil
}

// checkCollection decodes raw into the type stored under key, so a restored
// collection can always be read back by its store.
func checkCollection(key string, raw json.RawMessage) error {
	var err error
	switch key {
	case kvstore.KeyUserData:
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("%w: %s is null", ErrInvalidCollection, key)
		}
		var p profile.UserProfile
		err = json.Unmarshal(raw, &p)
	case kvstore.KeyFoodEntries:
		var entries []ledger.FoodEntry
		err = json.Unmarshal(raw, &entries)
	case kvstore.KeyWorkoutEntries:
		var workouts []ledger.WorkoutEntry
		err = json.Unmarshal(raw, &workouts)
	case kvstore.KeyDietPlans:
		var plans []dietplan.DietPlan
		err = json.Unmarshal(raw, &plans)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidCollection, key, err)
	}
	return nil
}

// FileName is the backup file name for a snapshot taken at t.
func FileName(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("fitdiet-backup-%d-%02d-%02d_%02d%02d%02d.json", t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
}

func WriteFile(path string, snap *Snapshot) error {
	snapBytes, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if err := os.WriteFile(path, snapBytes, 0o600); err != nil {
		return fmt.Errorf("write backup %s: %w", path, err)
	}
	return nil
}

func ReadFile(path string) (*Snapshot, error) {
	snapBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup %s: %w", path, err)
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(snapBytes, snap); err != nil {
		return nil, fmt.Errorf("parse backup %s: %w", path, err)
	}
	return snap, nil
}
