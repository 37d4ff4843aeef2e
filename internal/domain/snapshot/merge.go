package snapshot

import (
	"context"
	"errors"
	"slices"

	"onboarding/internal/core/fields"
	"onboarding/pkg/logger"
)

// Merge combines the built-in dataset with a saved one.
//
// Entities in demo always take the built-in dictionary. Every other entity
// takes the saved dictionary when one exists, else the built-in one.
func Merge(defaults, saved fields.Dataset, demo []string) fields.Dataset {
	out := make(fields.Dataset, len(defaults)+len(saved))
	for id, d := range saved {
		out[id] = d.Clone()
	}
	for id, d := range defaults {
		if _, ok := out[id]; !ok || slices.Contains(demo, id) {
			out[id] = d.Clone()
		}
	}
	return out
}

// Loader produces the initial dataset of a session.
type Loader struct {
	store Store
	demo  []string
}

// NewLoader creates a loader backed by store. A nil store always yields defaults.
func NewLoader(store Store) *Loader {
	return &Loader{store: store, demo: DemoEntityIDs}
}

// Load returns the merged dataset for key. Missing, unreadable or corrupt
// snapshots fall back to the built-in dataset; partial data is never returned.
func (l *Loader) Load(ctx context.Context, key string) fields.Dataset {
	defaults := Defaults()
	if l.store == nil {
		return defaults
	}

	raw, err := l.store.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return defaults
	}
	if err != nil {
		logger.Warn(ctx, "snapshot load failed, using defaults", "key", key, "error", err)
		return defaults
	}

	saved, err := fields.Decode(raw)
	if err != nil {
		logger.Warn(ctx, "snapshot corrupt, using defaults", "key", key, "error", err)
		return defaults
	}

	return Merge(defaults, saved, l.demo)
}
