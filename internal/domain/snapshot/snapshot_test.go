package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/internal/core/fields"
	"onboarding/pkg/logger"
)

type fakeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   int
	loadErr error
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *fakeStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[key] = data
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *fakeStore) saved(t *testing.T, key string) fields.Dataset {
	t.Helper()
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	require.True(t, ok, "nothing saved under %s", key)
	ds, err := fields.Decode(raw)
	require.NoError(t, err)
	return ds
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func TestDefaults(t *testing.T) {
	ds := Defaults()

	require.Contains(t, ds, "john-smith")
	require.Contains(t, ds, "joint-account")
	assert.Equal(t, "1975-03-14", ds["john-smith"]["dateOfBirth"])
	assert.Equal(t, json.Number("25000"), ds["joint-account"]["investmentAmount"])

	// Callers get independent copies.
	ds["john-smith"]["name"] = "changed"
	assert.Equal(t, "John Smith", Defaults()["john-smith"]["name"])
}

func TestMerge(t *testing.T) {
	defaults := fields.Dataset{
		"john-smith":    {"name": "Default John"},
		"joint-account": {"accountType": "joint-taxable"},
		"mary-smith":    {"name": "Default Mary"},
		"trust-account": {"accountType": "trust"},
	}
	saved := fields.Dataset{
		"john-smith":       {"name": "Saved John"},
		"joint-account":    {"accountType": "trust"},
		"mary-smith":       {"name": "Saved Mary"},
		"roth-ira-account": {"accountType": "roth-ira"},
	}

	got := Merge(defaults, saved, DemoEntityIDs)

	assert.Equal(t, "Default John", got["john-smith"]["name"], "demo entity: default wins")
	assert.Equal(t, "joint-taxable", got["joint-account"]["accountType"], "demo entity: default wins")
	assert.Equal(t, "Saved Mary", got["mary-smith"]["name"], "saved wins")
	assert.Equal(t, "trust", got["trust-account"]["accountType"], "only in defaults")
	assert.Equal(t, "roth-ira", got["roth-ira-account"]["accountType"], "only in saved")
}

func TestLoader(t *testing.T) {
	ctx := context.Background()
	key := Key("s-1")

	t.Run("nothing saved", func(t *testing.T) {
		ds := NewLoader(newFakeStore()).Load(ctx, key)
		assert.Equal(t, Defaults(), ds)
	})

	t.Run("nil store", func(t *testing.T) {
		assert.Equal(t, Defaults(), NewLoader(nil).Load(ctx, key))
	})

	t.Run("store error", func(t *testing.T) {
		store := newFakeStore()
		store.loadErr = errors.New("connection refused")
		assert.Equal(t, Defaults(), NewLoader(store).Load(ctx, key))
	})

	t.Run("corrupt snapshot", func(t *testing.T) {
		store := newFakeStore()
		store.data[key] = []byte(`{"mary-smith": {"name": "Saved Ma`)
		assert.Equal(t, Defaults(), NewLoader(store).Load(ctx, key))
	})

	t.Run("saved data merged", func(t *testing.T) {
		store := newFakeStore()
		store.data[key] = []byte(`{"mary-smith": {"name": "Saved Mary"}, "john-smith": {"name": "Saved John"}}`)
		ds := NewLoader(store).Load(ctx, key)
		assert.Equal(t, fields.Dictionary{"name": "Saved Mary"}, ds["mary-smith"])
		assert.Equal(t, "John Smith", ds["john-smith"]["name"])
	})
}

func newTestWriter(store Store, delay time.Duration, onWrite func(string, error)) *DebouncedWriter {
	return NewDebouncedWriter(WriterConfig{Delay: delay, OnWrite: onWrite}, store, logger.Nop())
}

func TestDebouncedWriter_Coalesces(t *testing.T) {
	store := newFakeStore()
	w := newTestWriter(store, 20*time.Millisecond, nil)

	for i := 0; i < 5; i++ {
		w.Schedule("k", fields.Dataset{"mary-smith": {"name": string(rune('a' + i))}})
	}

	assert.Eventually(t, func() bool { return store.saveCount() == 1 && w.Pending() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "e", store.saved(t, "k")["mary-smith"]["name"])

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, store.saveCount())
}

func TestDebouncedWriter_Flush(t *testing.T) {
	store := newFakeStore()
	w := newTestWriter(store, time.Hour, nil)

	w.Schedule("a", fields.Dataset{"x": {"v": "1"}})
	w.Schedule("b", fields.Dataset{"x": {"v": "2"}})
	require.Equal(t, 2, w.Pending())

	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, 2, store.saveCount())
	assert.Equal(t, "2", store.saved(t, "b")["x"]["v"])

	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, 2, store.saveCount())
}

func TestDebouncedWriter_FlushKey(t *testing.T) {
	store := newFakeStore()
	w := newTestWriter(store, time.Hour, nil)

	w.Schedule("a", fields.Dataset{"x": {"v": "1"}})
	w.Schedule("b", fields.Dataset{"x": {"v": "2"}})

	require.NoError(t, w.FlushKey(context.Background(), "a"))
	assert.Equal(t, 1, w.Pending())
	assert.Equal(t, 1, store.saveCount())
	require.NoError(t, w.FlushKey(context.Background(), "missing"))
}

func TestDebouncedWriter_ErrorsAreReported(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")

	var mu sync.Mutex
	var observed []error
	w := newTestWriter(store, time.Hour, func(_ string, err error) {
		mu.Lock()
		defer mu.Unlock()
		observed = append(observed, err)
	})

	w.Schedule("a", fields.Dataset{})
	err := w.Flush(context.Background())
	assert.EqualError(t, err, "disk full")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, observed, 1)
	assert.EqualError(t, observed[0], "disk full")
}

func TestDebouncedWriter_Discard(t *testing.T) {
	store := newFakeStore()
	w := newTestWriter(store, time.Hour, nil)
	store.data["a"] = []byte(`{}`)

	w.Schedule("a", fields.Dataset{"x": {"v": "1"}})
	require.NoError(t, w.Discard(context.Background(), "a"))

	assert.Equal(t, 0, w.Pending())
	_, err := store.Load(context.Background(), "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "wizard:abc", Key("abc"))
}
