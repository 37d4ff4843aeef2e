package snapshot

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"onboarding/internal/core/fields"
	"onboarding/pkg/logger"
)

// WriterConfig configures DebouncedWriter behavior.
type WriterConfig struct {
	// Delay is how long a key must stay quiet before it is written.
	Delay time.Duration

	// WriteTimeout bounds a single timer-triggered store write.
	WriteTimeout time.Duration

	// OnWrite, if set, observes the outcome of every store write.
	OnWrite func(key string, err error)
}

// DefaultWriterConfig returns the interactive-editing defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Delay:        500 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

type pendingWrite struct {
	data  fields.Dataset
	seq   uint64
	timer *time.Timer
}

// DebouncedWriter coalesces rapid dataset changes into one store write per key.
// Writes are best effort: failures are logged and reported to OnWrite only.
// Thread-safe for concurrent access.
type DebouncedWriter struct {
	config WriterConfig
	store  Store
	log    *logger.Logger

	mu      sync.Mutex
	seq     uint64
	pending map[string]*pendingWrite
	written map[string]uint64
	keyLock map[string]*sync.Mutex
}

// NewDebouncedWriter creates a writer for store.
func NewDebouncedWriter(cfg WriterConfig, store Store, log *logger.Logger) *DebouncedWriter {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriterConfig().WriteTimeout
	}
	return &DebouncedWriter{
		config:  cfg,
		store:   store,
		log:     log.WithComponent("snapshot-writer"),
		pending: make(map[string]*pendingWrite),
		written: make(map[string]uint64),
		keyLock: make(map[string]*sync.Mutex),
	}
}

// Schedule queues data for key, replacing any pending write and restarting
// its timer. The caller must not mutate data afterwards.
func (w *DebouncedWriter) Schedule(key string, data fields.Dataset) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[key]; ok {
		p.timer.Stop()
	}

	w.seq++
	p := &pendingWrite{data: data, seq: w.seq}
	p.timer = time.AfterFunc(w.config.Delay, func() { w.fire(key, p) })
	w.pending[key] = p
}

// Pending returns the number of keys waiting to be written.
func (w *DebouncedWriter) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

func (w *DebouncedWriter) fire(key string, p *pendingWrite) {
	if !w.take(key, p) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.config.WriteTimeout)
	defer cancel()
	_ = w.write(ctx, key, p)
}

// take removes p from the pending set if it is still the latest write for key.
func (w *DebouncedWriter) take(key string, p *pendingWrite) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending[key] != p {
		return false
	}
	delete(w.pending, key)
	return true
}

// FlushKey writes the pending data for key now, if any.
func (w *DebouncedWriter) FlushKey(ctx context.Context, key string) error {
	w.mu.Lock()
	p, ok := w.pending[key]
	if ok {
		p.timer.Stop()
		delete(w.pending, key)
	}
	w.mu.Unlock()

	if !ok {
		return nil
	}
	return w.write(ctx, key, p)
}

// Flush writes every pending key concurrently and returns the first error.
func (w *DebouncedWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string]*pendingWrite)
	for _, p := range batch {
		p.timer.Stop()
	}
	w.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for key, p := range batch {
		g.Go(func() error {
			return w.write(gctx, key, p)
		})
	}
	return g.Wait()
}

// Discard drops any pending write for key and deletes the stored snapshot.
func (w *DebouncedWriter) Discard(ctx context.Context, key string) error {
	w.mu.Lock()
	if p, ok := w.pending[key]; ok {
		p.timer.Stop()
		delete(w.pending, key)
	}
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	lock := w.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	w.markWritten(key, seq)
	return w.store.Delete(ctx, key)
}

// write saves p unless a newer write for the same key already landed.
func (w *DebouncedWriter) write(ctx context.Context, key string, p *pendingWrite) error {
	lock := w.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	if p.seq <= w.lastWritten(key) {
		return nil
	}

	payload, err := fields.Encode(p.data)
	if err == nil {
		err = w.store.Save(ctx, key, payload)
	}
	if w.config.OnWrite != nil {
		w.config.OnWrite(key, err)
	}
	if err != nil {
		w.log.Warnw("snapshot write failed", "key", key, "error", err)
		return err
	}

	w.markWritten(key, p.seq)
	w.log.Debugw("snapshot written", "key", key, "bytes", len(payload))
	return nil
}

func (w *DebouncedWriter) lockFor(key string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	l, ok := w.keyLock[key]
	if !ok {
		l = &sync.Mutex{}
		w.keyLock[key] = l
	}
	return l
}

func (w *DebouncedWriter) lastWritten(key string) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written[key]
}

func (w *DebouncedWriter) markWritten(key string, seq uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq > w.written[key] {
		w.written[key] = seq
	}
}
