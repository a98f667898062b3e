package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

const (
	SourceHTTP     = "http"
	SourceTelegram = "telegram"
)

// Entry is one parse outcome. Neither the text nor the scene is stored.
type Entry struct {
	Source    string
	TextHash  string
	TextLen   int
	Engine    string
	Model     string
	OK        bool
	ErrorKind string
	Warnings  []string
	Duration  time.Duration
}

type JournalRepo struct{ DB *sql.DB }

func NewJournalRepo(db *sql.DB) *JournalRepo { return &JournalRepo{DB: db} }

var schema = []string{`
create table if not exists parse_journal (
  id          bigserial primary key,
  created_at  timestamptz not null default now(),
  text_sha256 text not null,
  text_len    integer not null,
  engine      text not null,
  model       text not null,
  ok          boolean not null,
  error_kind  text not null default '',
  warnings    text not null default '',
  duration_ms integer not null
)`,
	`create index if not exists parse_journal_created_at_idx on parse_journal (created_at)`,
	`alter table parse_journal add column if not exists source text not null default 'http'`,
}

func (r *JournalRepo) EnsureSchema(ctx context.Context) error {
	for _, q := range schema {
		if _, err := r.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (r *JournalRepo) Record(ctx context.Context, e Entry) error {
	const q = `
insert into parse_journal (source, text_sha256, text_len, engine, model, ok, error_kind, warnings, duration_ms)
values ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	src := e.Source
	if src == "" {
		src = SourceHTTP
	}
	_, err := r.DB.ExecContext(ctx, q,
		src, e.TextHash, e.TextLen, e.Engine, e.Model, e.OK, e.ErrorKind,
		strings.Join(e.Warnings, ","), e.Duration.Milliseconds(),
	)
	return err
}

// Stats counts outcomes per error kind since the given time ("" = success).
func (r *JournalRepo) Stats(ctx context.Context, since time.Time) (map[string]int, error) {
	const q = `select error_kind, count(*) from parse_journal where created_at >= $1 group by error_kind`
	rows, err := r.DB.QueryContext(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[kind] = n
	}
	return out, rows.Err()
}

// PurgeOlderThan removes old journal rows so the table stays small.
func (r *JournalRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan)
	const q = `delete from parse_journal where created_at < $1`
	res, err := r.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}
