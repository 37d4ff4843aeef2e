package wizard

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"onboarding/internal/core/apperror"
	appctx "onboarding/internal/core/context"
	"onboarding/internal/core/fields"
	"onboarding/internal/domain/catalog"
	"onboarding/internal/domain/completion"
	"onboarding/internal/domain/expansion"
	"onboarding/internal/domain/navigation"
	"onboarding/internal/domain/registration"
	"onboarding/internal/domain/snapshot"
	"onboarding/pkg/logger"
)

var tracer = otel.Tracer("onboarding/wizard")

// DatasetLoader provides the initial dataset of a session.
type DatasetLoader interface {
	Load(ctx context.Context, key string) fields.Dataset
}

// Persister writes datasets back on a debounce.
type Persister interface {
	Schedule(key string, data fields.Dataset)
	FlushKey(ctx context.Context, key string) error
	Flush(ctx context.Context) error
}

// Recorder receives service events for metrics.
type Recorder interface {
	NavigationRequested(source string, changed bool)
	CompletionRecomputed(progress int)
	SessionOpened()
	SessionClosed()
}

// Config wires the service collaborators. Nil fields fall back to the
// built-in catalog and rules, a defaults-only loader, no persistence and no metrics.
type Config struct {
	Catalog *catalog.Catalog
	Engine  *completion.Engine
	Loader  DatasetLoader
	Writer  Persister
	Metrics Recorder
}

// Service holds every open wizard session. Thread-safe; each session is
// guarded by its own mutex so one session has a single writer at a time.
type Service struct {
	catalog *catalog.Catalog
	engine  *completion.Engine
	seq     *navigation.Sequencer
	loader  DatasetLoader
	writer  Persister
	metrics Recorder
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu       sync.Mutex
	id       string
	target   catalog.Target
	sticky   string
	modes    Modes
	data     fields.Dataset
	status   *completion.Status
	panels   expansion.State
	lastUsed time.Time
}

// NewService creates a wizard service.
func NewService(cfg Config) *Service {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Engine == nil {
		cfg.Engine = completion.DefaultEngine()
	}
	if cfg.Loader == nil {
		cfg.Loader = snapshot.NewLoader(nil)
	}
	if cfg.Writer == nil {
		cfg.Writer = discardWriter{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopRecorder{}
	}
	return &Service{
		catalog:  cfg.Catalog,
		engine:   cfg.Engine,
		seq:      navigation.NewSequencer(cfg.Catalog),
		loader:   cfg.Loader,
		writer:   cfg.Writer,
		metrics:  cfg.Metrics,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Catalog returns the catalog the service navigates.
func (svc *Service) Catalog() *catalog.Catalog {
	return svc.catalog
}

// Open starts a session at the first section, or returns the existing one.
func (svc *Service) Open(ctx context.Context, sessionID string) (*State, error) {
	if sessionID == "" {
		return nil, apperror.NewValidation("session id is required")
	}

	ctx = appctx.ForSession(ctx, sessionID)
	ctx, span := tracer.Start(ctx, "wizard.open",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	if sess := svc.lookup(sessionID); sess != nil {
		return svc.read(sess), nil
	}

	data := svc.loader.Load(ctx, snapshot.Key(sessionID))
	first, _ := svc.seq.First()
	sess := &session{
		id:     sessionID,
		target: first,
		data:   data,
	}
	sess.status = completion.Compute(svc.catalog, data, svc.engine)
	svc.rederive(sess)

	svc.mu.Lock()
	if existing, ok := svc.sessions[sessionID]; ok {
		svc.mu.Unlock()
		return svc.read(existing), nil
	}
	sess.lastUsed = svc.now()
	svc.sessions[sessionID] = sess
	svc.mu.Unlock()

	svc.metrics.SessionOpened()
	svc.metrics.CompletionRecomputed(sess.status.OverallProgress())
	logger.Info(ctx, "wizard session opened",
		"progress", sess.status.OverallProgress(),
	)

	return svc.read(sess), nil
}

// State returns the current snapshot.
func (svc *Service) State(_ context.Context, sessionID string) (*State, error) {
	sess, err := svc.get(sessionID)
	if err != nil {
		return nil, err
	}
	return svc.read(sess), nil
}

// Navigate applies a navigation request. Targets that are not valid for the
// catalog leave the session untouched and report Changed=false.
func (svc *Service) Navigate(ctx context.Context, sessionID string, req Request) (*State, error) {
	if req.Source == "" {
		req.Source = SourceClick
	}
	if !req.Source.Valid() {
		return nil, apperror.NewValidation("unknown navigation source").WithDetail("source", req.Source)
	}

	return svc.mutate(sessionID, func(sess *session) bool {
		changed := svc.apply(sess, req)
		svc.metrics.NavigationRequested(string(req.Source), changed)
		if !changed {
			logger.Debug(ctx, "navigation ignored",
				"section", req.Target.Section,
				"member_id", req.Target.MemberID,
				"account_id", req.Target.AccountID,
			)
		}
		return changed
	})
}

// Next moves to the following section. At the end it is a no-op.
func (svc *Service) Next(_ context.Context, sessionID string) (*State, error) {
	return svc.step(sessionID, SourceNext, svc.seq.Next)
}

// Previous moves to the preceding section. At the start it is a no-op.
func (svc *Service) Previous(_ context.Context, sessionID string) (*State, error) {
	return svc.step(sessionID, SourcePrevious, svc.seq.Previous)
}

func (svc *Service) step(sessionID string, source Source, move func(catalog.Target) (catalog.Target, bool)) (*State, error) {
	return svc.mutate(sessionID, func(sess *session) bool {
		changed := false
		if t, ok := move(sess.target); ok {
			changed = svc.apply(sess, Request{Target: t, Source: source})
		}
		svc.metrics.NavigationRequested(string(source), changed)
		return changed
	})
}

// SetModes switches display modes and re-derives expansion.
func (svc *Service) SetModes(_ context.Context, sessionID string, modes Modes) (*State, error) {
	return svc.mutate(sessionID, func(sess *session) bool {
		sess.modes = modes
		svc.rederive(sess)
		return true
	})
}

// TogglePanel flips one accordion panel without navigating. An index past
// the group's last panel leaves the state untouched and reports Changed=false.
func (svc *Service) TogglePanel(_ context.Context, sessionID string, group expansion.Group, index int) (*State, error) {
	if !group.Valid() {
		return nil, apperror.NewValidation("unknown panel group").WithDetail("group", group)
	}
	if index < 0 {
		return nil, apperror.NewValidation("panel index must not be negative").WithDetail("index", index)
	}
	return svc.mutate(sessionID, func(sess *session) bool {
		next, ok := expansion.Toggle(svc.catalog, sess.panels, group, index)
		sess.panels = next
		return ok
	})
}

// Fields returns a copy of one entity's dictionary.
func (svc *Service) Fields(_ context.Context, sessionID, entityID string) (fields.Dictionary, error) {
	if svc.catalog.Lookup(entityID) == nil {
		return nil, apperror.NewNotFound("entity", entityID)
	}
	sess, err := svc.get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	d := sess.data.Get(entityID).Clone()
	if d == nil {
		d = fields.Dictionary{}
	}
	return d, nil
}

// UpdateFields merges patch into an entity's dictionary. A nil value removes
// the field. Completion is recomputed and a snapshot write is scheduled.
func (svc *Service) UpdateFields(ctx context.Context, sessionID, entityID string, patch fields.Dictionary) (*State, error) {
	return svc.writeFields(ctx, "wizard.update_fields", sessionID, entityID, func(cur fields.Dictionary) fields.Dictionary {
		return cur.Merge(patch)
	})
}

// ReplaceFields replaces an entity's dictionary wholesale.
func (svc *Service) ReplaceFields(ctx context.Context, sessionID, entityID string, dict fields.Dictionary) (*State, error) {
	return svc.writeFields(ctx, "wizard.replace_fields", sessionID, entityID, func(fields.Dictionary) fields.Dictionary {
		if dict == nil {
			return fields.Dictionary{}
		}
		return dict.Clone()
	})
}

func (svc *Service) writeFields(ctx context.Context, op, sessionID, entityID string, change func(fields.Dictionary) fields.Dictionary) (*State, error) {
	ctx, span := tracer.Start(ctx, op,
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("entity.id", entityID),
		))
	defer span.End()

	if svc.catalog.Lookup(entityID) == nil {
		return nil, apperror.NewNotFound("entity", entityID)
	}

	st, err := svc.mutate(sessionID, func(sess *session) bool {
		next := sess.data.Clone()
		if next == nil {
			next = fields.Dataset{}
		}
		next[entityID] = change(sess.data.Get(entityID))
		sess.data = next
		sess.status = completion.Compute(svc.catalog, next, svc.engine)

		svc.metrics.CompletionRecomputed(sess.status.OverallProgress())
		svc.writer.Schedule(snapshot.Key(sess.id), next)
		return true
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("wizard.progress", st.OverallProgress))
	logger.Debug(ctx, "fields updated", "entity_id", entityID, "progress", st.OverallProgress)
	return st, nil
}

// Close flushes the session's pending snapshot and forgets the session.
func (svc *Service) Close(ctx context.Context, sessionID string) error {
	svc.mu.Lock()
	_, ok := svc.sessions[sessionID]
	delete(svc.sessions, sessionID)
	svc.mu.Unlock()

	if !ok {
		return apperror.NewNotFound("session", sessionID)
	}

	ctx = appctx.ForSession(ctx, sessionID)
	svc.metrics.SessionClosed()
	if err := svc.writer.FlushKey(ctx, snapshot.Key(sessionID)); err != nil {
		logger.Warn(ctx, "final snapshot write failed", "error", err)
	}
	logger.Info(ctx, "wizard session closed")
	return nil
}

// EvictIdle closes sessions unused for longer than maxIdle and returns how many were closed.
func (svc *Service) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := svc.now().Add(-maxIdle)

	svc.mu.RLock()
	var idle []string
	for id, sess := range svc.sessions {
		sess.mu.Lock()
		if sess.lastUsed.Before(cutoff) {
			idle = append(idle, id)
		}
		sess.mu.Unlock()
	}
	svc.mu.RUnlock()

	closed := 0
	for _, id := range idle {
		if err := svc.Close(ctx, id); err == nil {
			closed++
		}
	}
	return closed
}

// Shutdown flushes every pending snapshot.
func (svc *Service) Shutdown(ctx context.Context) error {
	return svc.writer.Flush(ctx)
}

// Len returns the number of open sessions.
func (svc *Service) Len() int {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return len(svc.sessions)
}

func (svc *Service) lookup(sessionID string) *session {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.sessions[sessionID]
}

func (svc *Service) get(sessionID string) (*session, error) {
	sess := svc.lookup(sessionID)
	if sess == nil {
		return nil, apperror.NewNotFound("session", sessionID)
	}
	return sess, nil
}

// mutate runs fn under the session lock and returns the resulting snapshot.
func (svc *Service) mutate(sessionID string, fn func(*session) bool) (*State, error) {
	sess, err := svc.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	changed := fn(sess)
	sess.lastUsed = svc.now()
	st := svc.snapshot(sess)
	st.Changed = changed
	return st, nil
}

func (svc *Service) read(sess *session) *State {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return svc.snapshot(sess)
}

// apply moves the session to req.Target if it is valid.
func (svc *Service) apply(sess *session, req Request) bool {
	if !svc.catalog.ValidTarget(req.Target) {
		return false
	}
	if req.Source == SourceClick && sess.modes.RegistrationGroups {
		sess.sticky = registration.StickyAfterSelect(svc.catalog, req.Target, req.RegistrationID, sess.sticky)
	}
	sess.target = req.Target
	svc.rederive(sess)
	return true
}

func (svc *Service) rederive(sess *session) {
	sess.panels = expansion.Derive(svc.catalog, expansion.Input{
		Target:             sess.target,
		Mode:               sess.modes.ExpansionMode(),
		RegistrationGroups: sess.modes.RegistrationGroups,
		StickyRegistration: sess.sticky,
	})
}

// snapshot builds the State. Caller holds sess.mu.
func (svc *Service) snapshot(sess *session) *State {
	st := sess.status
	out := &State{
		SessionID:            sess.id,
		Target:               sess.target,
		CanGoNext:            svc.seq.CanGoNext(sess.target),
		CanGoPrevious:        svc.seq.CanGoPrevious(sess.target),
		Completion:           st.Map(),
		EntityComplete:       make(map[string]bool),
		RegistrationComplete: make(map[string]bool),
		OverallProgress:      st.OverallProgress(),
		CompletedSections:    st.CompletedSections(),
		TotalSections:        st.TotalSections(),
		Missing:              st.MissingAll(),
		FundingTotals:        st.FundingTotals(),
		Expansion:            sess.panels,
		StickyRegistrationID: sess.sticky,
		Modes:                sess.modes,
	}
	for _, e := range svc.catalog.Entities() {
		out.EntityComplete[e.ID] = st.IsEntityComplete(e.ID)
	}
	for _, r := range svc.catalog.Registrations() {
		out.RegistrationComplete[r.ID] = st.IsRegistrationComplete(r.ID)
	}
	if r := registration.FindActive(svc.catalog, sess.target, sess.sticky); r != nil {
		out.ActiveRegistrationID = r.ID
	}
	return out
}

type discardWriter struct{}

func (discardWriter) Schedule(string, fields.Dataset)         {}
func (discardWriter) FlushKey(context.Context, string) error { return nil }
func (discardWriter) Flush(context.Context) error            { return nil }

type noopRecorder struct{}

func (noopRecorder) NavigationRequested(string, bool) {}
func (noopRecorder) CompletionRecomputed(int)         {}
func (noopRecorder) SessionOpened()                   {}
func (noopRecorder) SessionClosed()                   {}
