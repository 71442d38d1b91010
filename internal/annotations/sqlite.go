package annotations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/patchdash/internal/annotations/migrations"
)

var columns = []string{
	"id", "patch_id", "patch_name", "notes", "urgent", "author",
	"version", "supersedes", "created_at", "deleted_at",
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB

	mu      sync.Mutex
	entropy *rand.Rand
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path and applies migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrations.Migrate(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// row mirrors the table; timestamps are stored as RFC 3339 text.
type row struct {
	ID         string         `db:"id"`
	PatchID    int            `db:"patch_id"`
	PatchName  string         `db:"patch_name"`
	Notes      string         `db:"notes"`
	Urgent     bool           `db:"urgent"`
	Author     string         `db:"author"`
	Version    int            `db:"version"`
	Supersedes sql.NullString `db:"supersedes"`
	CreatedAt  string         `db:"created_at"`
	DeletedAt  sql.NullString `db:"deleted_at"`
}

func (r row) annotation() Annotation {
	a := Annotation{
		ID:        r.ID,
		PatchID:   r.PatchID,
		PatchName: r.PatchName,
		Notes:     r.Notes,
		Urgent:    r.Urgent,
		Author:    r.Author,
		Version:   r.Version,
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339Nano, r.CreatedAt)
	if r.Supersedes.Valid {
		a.Supersedes = r.Supersedes.String
	}
	if r.DeletedAt.Valid {
		t, _ := time.Parse(time.RFC3339Nano, r.DeletedAt.String)
		a.DeletedAt = &t
	}
	return a
}

func (s *SQLiteStore) selectRows(ctx context.Context, q sq.SelectBuilder) ([]Annotation, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]Annotation, len(rows))
	for i, r := range rows {
		out[i] = r.annotation()
	}
	return out, nil
}

// latestOnly restricts a query to the newest live version of each patch.
func latestOnly(q sq.SelectBuilder) sq.SelectBuilder {
	return q.Where(sq.Expr(`version = (SELECT MAX(a2.version) FROM annotations a2
		WHERE a2.patch_id = annotations.patch_id AND a2.deleted_at IS NULL)`))
}

func (s *SQLiteStore) Put(ctx context.Context, p PutParams) (*Annotation, error) {
	if p.PatchID <= 0 {
		return nil, fmt.Errorf("invalid patch id %d", p.PatchID)
	}
	now := time.Now().UTC()
	id := s.newID()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var prev struct {
		ID      string `db:"id"`
		Version int    `db:"version"`
	}
	query, args, err := sq.Select("id", "version").From("annotations").
		Where(sq.Eq{"patch_id": p.PatchID, "deleted_at": nil}).
		OrderBy("version DESC").Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	err = tx.GetContext(ctx, &prev, query, args...)

	version := 1
	var supersedes *string
	switch {
	case err == nil:
		version = prev.Version + 1
		supersedes = &prev.ID
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("find previous version: %w", err)
	}

	query, args, err = sq.Insert("annotations").
		Columns("id", "patch_id", "patch_name", "notes", "urgent", "author", "version", "supersedes", "created_at").
		Values(id, p.PatchID, p.PatchName, p.Notes, p.Urgent, p.Author, version, supersedes, now.Format(time.RFC3339Nano)).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert annotation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	a := &Annotation{
		ID:        id,
		PatchID:   p.PatchID,
		PatchName: p.PatchName,
		Notes:     p.Notes,
		Urgent:    p.Urgent,
		Author:    p.Author,
		Version:   version,
		CreatedAt: now,
	}
	if supersedes != nil {
		a.Supersedes = *supersedes
	}
	return a, nil
}

func (s *SQLiteStore) Latest(ctx context.Context, patchID int) (*Annotation, error) {
	got, err := s.selectRows(ctx, sq.Select(columns...).From("annotations").
		Where(sq.Eq{"patch_id": patchID, "deleted_at": nil}).
		OrderBy("version DESC").Limit(1))
	if err != nil {
		return nil, err
	}
	if len(got) == 0 {
		return nil, fmt.Errorf("%w: patch %d", ErrNotFound, patchID)
	}
	return &got[0], nil
}

func (s *SQLiteStore) History(ctx context.Context, patchID int) ([]Annotation, error) {
	got, err := s.selectRows(ctx, sq.Select(columns...).From("annotations").
		Where(sq.Eq{"patch_id": patchID, "deleted_at": nil}).
		OrderBy("version DESC"))
	if err != nil {
		return nil, err
	}
	if len(got) == 0 {
		return nil, fmt.Errorf("%w: patch %d", ErrNotFound, patchID)
	}
	return got, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]Annotation, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	q := latestOnly(sq.Select(columns...).From("annotations").Where(sq.Eq{"deleted_at": nil}))
	if p.UrgentOnly {
		q = q.Where(sq.Eq{"urgent": true})
	}
	return s.selectRows(ctx, q.OrderBy("created_at DESC", "id DESC").Limit(uint64(limit)))
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	var target sq.Sqlizer = sq.Eq{"patch_id": p.PatchID}
	if !p.AllVersions {
		latest, err := s.Latest(ctx, p.PatchID)
		if err != nil {
			return err
		}
		target = sq.Eq{"id": latest.ID}
	}

	var (
		query string
		args  []interface{}
		err   error
	)
	if p.Hard {
		query, args, err = sq.Delete("annotations").Where(target).ToSql()
	} else {
		now := time.Now().UTC().Format(time.RFC3339Nano)
		query, args, err = sq.Update("annotations").Set("deleted_at", now).
			Where(target).Where(sq.Eq{"deleted_at": nil}).ToSql()
	}
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: patch %d", ErrNotFound, p.PatchID)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
