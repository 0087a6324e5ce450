package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is the version of the persisted progress layout.
const SchemaVersion = 1

// ErrUnsupportedVersion is returned by Decode for a schemaVersion this build
// does not understand.
var ErrUnsupportedVersion = errors.New("unsupported schema version")

// Snapshot is the persisted form of a learner's progress.
type Snapshot struct {
	SchemaVersion int                 `json:"schemaVersion"`
	Completions   []CompletionRecord  `json:"completions"`
	Achievements  []AchievementRecord `json:"achievements"`
}

// CompletionRecord is one completed lesson.
type CompletionRecord struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	CompletedAt time.Time `json:"completedAt"`
}

// AchievementRecord is the unlock state of one achievement. Display metadata
// is not stored; it is re-joined from the catalog by ID on load.
type AchievementRecord struct {
	ID         string     `json:"id"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt"`
}

// Empty returns a snapshot with no progress.
func Empty() *Snapshot {
	return &Snapshot{
		SchemaVersion: SchemaVersion,
		Completions:   []CompletionRecord{},
		Achievements:  []AchievementRecord{},
	}
}

// Encode serializes snap. Nil slices are written as empty arrays.
func Encode(snap *Snapshot) ([]byte, error) {
	if snap == nil {
		snap = Empty()
	}
	out := Snapshot{
		SchemaVersion: SchemaVersion,
		Completions:   snap.Completions,
		Achievements:  snap.Achievements,
	}
	if out.Completions == nil {
		out.Completions = []CompletionRecord{}
	}
	if out.Achievements == nil {
		out.Achievements = []AchievementRecord{}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and validates raw. Duplicate completion or achievement IDs
// are collapsed, keeping the first occurrence.
func Decode(raw []byte) (*Snapshot, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	// Check the version before the schema so a newer layout is reported as
	// such rather than as a validation failure.
	if obj, ok := parsed.(map[string]any); ok {
		if v, ok := obj["schemaVersion"].(float64); ok && v != SchemaVersion {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedVersion, v)
		}
	}

	if err := validateSnapshot(parsed); err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.Completions = dedupe(snap.Completions, func(r CompletionRecord) string { return r.ID })
	snap.Achievements = dedupe(snap.Achievements, func(r AchievementRecord) string { return r.ID })

	for i := range snap.Achievements {
		if !snap.Achievements[i].Unlocked {
			snap.Achievements[i].UnlockedAt = nil
		}
	}
	return &snap, nil
}

func dedupe[T any](records []T, id func(T) string) []T {
	out := make([]T, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		k := id(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}
