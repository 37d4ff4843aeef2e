package postgres

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSnapshotStore_Queries(t *testing.T) {
	s := &SnapshotStore{}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		build    func() (string, []any, error)
		wantSQL  string
		wantArgs int
	}{
		{
			name:     "select",
			build:    s.selectQuery("wizard:s-1").ToSql,
			wantSQL:  "SELECT snapshot_key, payload, compression, updated_at FROM wizard_snapshots WHERE snapshot_key = $1",
			wantArgs: 1,
		},
		{
			name:     "delete",
			build:    s.deleteQuery("wizard:s-1").ToSql,
			wantSQL:  "DELETE FROM wizard_snapshots WHERE snapshot_key = $1",
			wantArgs: 1,
		},
		{
			name:     "upsert",
			build:    s.upsertQuery("wizard:s-1", []byte("{}"), CompressionNone, at).ToSql,
			wantSQL:  "INSERT INTO wizard_snapshots (snapshot_key,payload,compression,updated_at) VALUES ($1,$2,$3,$4) ON CONFLICT (snapshot_key) DO UPDATE SET payload = EXCLUDED.payload, compression = EXCLUDED.compression, updated_at = EXCLUDED.updated_at",
			wantArgs: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.build()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}
			if strings.Join(strings.Fields(sql), " ") != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
			if len(args) != tt.wantArgs {
				t.Fatalf("Args count mismatch\nwant: %d\ngot:  %d", tt.wantArgs, len(args))
			}
			if args[0] != "wizard:s-1" {
				t.Errorf("first arg = %v, want key", args[0])
			}
		})
	}
}

func TestCodec_Threshold(t *testing.T) {
	codec, err := NewCodec(64)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	small := []byte(`{"john-smith":{"name":"John"}}`)
	out, algo := codec.Encode(small)
	if algo != CompressionNone || !bytes.Equal(out, small) {
		t.Errorf("small payload should be stored as-is, got %s", algo)
	}

	large := bytes.Repeat([]byte(`{"name":"John Smith"},`), 50)
	out, algo = codec.Encode(large)
	if algo != CompressionZstd {
		t.Fatalf("large payload should be compressed, got %s", algo)
	}
	if len(out) >= len(large) {
		t.Errorf("compressed size %d not smaller than %d", len(out), len(large))
	}

	back, err := codec.Decode(out, algo)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(back, large) {
		t.Error("round trip changed payload")
	}

	if _, err := codec.Decode(out, "lz4"); err == nil {
		t.Error("unknown algorithm should fail")
	}
}
