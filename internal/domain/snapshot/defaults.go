package snapshot

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"onboarding/internal/core/fields"
)

//go:embed default_dataset.yaml
var defaultDatasetYAML []byte

// DemoEntityIDs are entities whose built-in data always replaces saved data.
var DemoEntityIDs = []string{"john-smith", "joint-account"}

var (
	defaultsOnce sync.Once
	defaults     fields.Dataset
)

// Defaults returns a fresh copy of the built-in dataset.
func Defaults() fields.Dataset {
	defaultsOnce.Do(func() {
		ds, err := ParseDataset(defaultDatasetYAML)
		if err != nil {
			panic(fmt.Sprintf("snapshot: embedded default dataset is invalid: %v", err))
		}
		defaults = ds
	})
	return deepCopy(defaults)
}

// ParseDataset decodes a YAML dataset document (entity id -> fields).
func ParseDataset(data []byte) (fields.Dataset, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	ds := make(fields.Dataset, len(raw))
	for id, d := range raw {
		ds[id] = fields.Dictionary(d)
	}
	return ds, nil
}

// deepCopy round-trips through the JSON codec so nested lists are not shared.
func deepCopy(ds fields.Dataset) fields.Dataset {
	raw, err := fields.Encode(ds)
	if err != nil {
		return ds.Clone()
	}
	out, err := fields.Decode(raw)
	if err != nil {
		return ds.Clone()
	}
	return out
}
