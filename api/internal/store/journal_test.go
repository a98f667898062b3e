package store

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestSafeDSNSummary(t *testing.T) {
	tests := []struct {
		dsn, want string
	}{
		{"postgres://parser:secret@db:5432/physics?sslmode=disable", "host=db port=5432 db=physics user=parser"},
		{"postgres://parser:secret@db/physics", "host=db db=physics user=parser"},
		{"::not a dsn", "dsn: parse error"},
	}
	for _, tt := range tests {
		got := SafeDSNSummary(tt.dsn)
		if got != tt.want {
			t.Errorf("SafeDSNSummary(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

// openTestDB needs a disposable Postgres in PHYSICS_TEST_DATABASE_URL.
func openTestDB(t *testing.T) *JournalRepo {
	t.Helper()
	dsn := os.Getenv("PHYSICS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PHYSICS_TEST_DATABASE_URL not set")
	}
	db, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewJournalRepo(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if _, err := db.Exec(`truncate parse_journal`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return repo
}

func TestJournal_RecordStatsPurge(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	start := time.Now().Add(-time.Minute)

	entries := []Entry{
		{TextHash: "a", TextLen: 10, Engine: "groq", Model: "m", OK: true, Duration: 120 * time.Millisecond},
		{TextHash: "b", TextLen: 0, Engine: "groq", Model: "m", OK: true, Warnings: []string{"gravity_mode_not_space"}, Duration: time.Second},
		{TextHash: "c", TextLen: 5, Engine: "groq", Model: "m", ErrorKind: "rate_limited", Duration: 10 * time.Millisecond},
		{Source: SourceTelegram, TextHash: "d", TextLen: 7, Engine: "gemini", Model: "g", OK: true, Duration: time.Second},
	}
	for _, e := range entries {
		if err := repo.Record(ctx, e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	stats, err := repo.Stats(ctx, start)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats[""] != 3 || stats["rate_limited"] != 1 {
		t.Errorf("unexpected stats %v", stats)
	}

	var bySource int
	if err := repo.DB.QueryRow(`select count(*) from parse_journal where source = $1`, SourceTelegram).Scan(&bySource); err != nil {
		t.Fatalf("count: %v", err)
	}
	if bySource != 1 {
		t.Errorf("expected one telegram row, got %d", bySource)
	}

	n, err := repo.PurgeOlderThan(ctx, time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing purged, got %d", n)
	}
	if _, err := repo.PurgeOlderThan(ctx, 0); err == nil {
		t.Error("expected error for zero retention")
	}
}
