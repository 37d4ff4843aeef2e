package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"onboarding/internal/domain/snapshot"
)

const snapshotTable = "wizard_snapshots"

var snapshotColumns = []string{"snapshot_key", "payload", "compression", "updated_at"}

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS wizard_snapshots (
	snapshot_key TEXT PRIMARY KEY,
	payload      BYTEA NOT NULL,
	compression  TEXT NOT NULL DEFAULT 'none',
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const snapshotUpdatedIndex = `
CREATE INDEX IF NOT EXISTS wizard_snapshots_updated_at_idx ON wizard_snapshots (updated_at)`

// snapshotRow is one stored snapshot.
type snapshotRow struct {
	Key         string          `db:"snapshot_key"`
	Payload     []byte          `db:"payload"`
	Compression CompressionAlgo `db:"compression"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Compile-time check that SnapshotStore implements snapshot.Store.
var _ snapshot.Store = (*SnapshotStore)(nil)

// SnapshotStore keeps encoded wizard datasets in a single table.
type SnapshotStore struct {
	pool  *Pool
	txm   *TxManager
	codec *Codec
	now   func() time.Time
}

// NewSnapshotStore creates a store on pool.
func NewSnapshotStore(pool *Pool) (*SnapshotStore, error) {
	codec, err := NewCodec(DefaultCompressThreshold)
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{
		pool:  pool,
		txm:   NewTxManager(pool),
		codec: codec,
		now:   time.Now,
	}, nil
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (s *SnapshotStore) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// EnsureSchema creates the snapshot table if it does not exist.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		q := s.txm.GetQuerier(ctx)
		for _, stmt := range []string{snapshotSchema, snapshotUpdatedIndex} {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure snapshot schema: %w", err)
			}
		}
		return nil
	})
}

// Load returns the decoded payload for key.
func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "snapshot.load",
		trace.WithAttributes(attribute.String("snapshot.key", key)))
	defer span.End()

	sql, args, err := s.selectQuery(key).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row snapshotRow
	err = s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		return pgxscan.Get(ctx, s.txm.GetQuerier(ctx), &row, sql, args...)
	})
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, snapshot.ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}

	span.SetAttributes(
		attribute.String("snapshot.compression", string(row.Compression)),
		attribute.Int("snapshot.bytes", len(row.Payload)),
	)
	return s.codec.Decode(row.Payload, row.Compression)
}

// Save upserts the payload for key, compressing it when large.
func (s *SnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	ctx, span := tracer.Start(ctx, "snapshot.save",
		trace.WithAttributes(
			attribute.String("snapshot.key", key),
			attribute.Int("snapshot.bytes", len(data)),
		))
	defer span.End()

	payload, algo := s.codec.Encode(data)
	sql, args, err := s.upsertQuery(key, payload, algo, s.now().UTC()).ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			span.RecordError(err)
			return fmt.Errorf("save snapshot %s: %w", key, err)
		}
		return nil
	})
}

// Delete removes the snapshot for key. Deleting a missing key is not an error.
func (s *SnapshotStore) Delete(ctx context.Context, key string) error {
	sql, args, err := s.deleteQuery(key).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := s.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *SnapshotStore) selectQuery(key string) squirrel.SelectBuilder {
	return s.Builder().
		Select(snapshotColumns...).
		From(snapshotTable).
		Where(squirrel.Eq{"snapshot_key": key})
}

func (s *SnapshotStore) upsertQuery(key string, payload []byte, algo CompressionAlgo, at time.Time) squirrel.InsertBuilder {
	return s.Builder().
		Insert(snapshotTable).
		Columns(snapshotColumns...).
		Values(key, payload, string(algo), at).
		Suffix("ON CONFLICT (snapshot_key) DO UPDATE SET " +
			"payload = EXCLUDED.payload, compression = EXCLUDED.compression, updated_at = EXCLUDED.updated_at")
}

func (s *SnapshotStore) deleteQuery(key string) squirrel.DeleteBuilder {
	return s.Builder().
		Delete(snapshotTable).
		Where(squirrel.Eq{"snapshot_key": key})
}
