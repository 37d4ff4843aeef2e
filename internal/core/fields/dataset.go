package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Dataset maps entity id to its field dictionary.
type Dataset map[string]Dictionary

// Get returns the dictionary for id or nil.
func (ds Dataset) Get(id string) Dictionary {
	if ds == nil {
		return nil
	}
	return ds[id]
}

// Clone copies the dataset and each dictionary one level deep.
func (ds Dataset) Clone() Dataset {
	if ds == nil {
		return nil
	}
	out := make(Dataset, len(ds))
	for id, d := range ds {
		out[id] = d.Clone()
	}
	return out
}

// IDs returns the entity ids in sorted order.
func (ds Dataset) IDs() []string {
	ids := make([]string, 0, len(ds))
	for id := range ds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Encode serializes the dataset as JSON.
func Encode(ds Dataset) ([]byte, error) {
	if ds == nil {
		ds = Dataset{}
	}
	return json.Marshal(ds)
}

// Decode parses a JSON dataset.
//
// CRITICAL: UseNumber() preserves numeric precision for amounts.
func Decode(data []byte) (Dataset, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Dataset{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var result map[string]map[string]any
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	ds := make(Dataset, len(result))
	for id, d := range result {
		ds[id] = Dictionary(d)
	}
	return ds, nil
}
