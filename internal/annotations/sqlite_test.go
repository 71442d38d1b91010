package annotations

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndLatest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, err := s.Put(ctx, PutParams{PatchID: 3, PatchName: "Transformer", Notes: "check oil", Author: "ana"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if a.Version != 1 {
		t.Errorf("expected version 1, got %d", a.Version)
	}
	if a.ID == "" {
		t.Error("expected non-empty ID")
	}

	got, err := s.Latest(ctx, 3)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.Notes != "check oil" || got.PatchName != "Transformer" || got.Author != "ana" {
		t.Errorf("unexpected annotation: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to round-trip")
	}
}

func TestLatestNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Latest(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Put(context.Background(), PutParams{PatchID: 0}); err == nil {
		t.Error("expected error for invalid patch id")
	}
}

func TestVersioning(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{PatchID: 1, Notes: "v1"})
	a2, _ := s.Put(ctx, PutParams{PatchID: 1, Notes: "v2", Urgent: true})

	if a2.Version != 2 {
		t.Errorf("expected version 2, got %d", a2.Version)
	}
	if a2.Supersedes == "" {
		t.Error("expected supersedes to be set")
	}

	got, _ := s.Latest(ctx, 1)
	if got.Notes != "v2" || !got.Urgent {
		t.Errorf("expected latest v2 urgent, got %+v", got)
	}

	hist, err := s.History(ctx, 1)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 || hist[0].Version != 2 || hist[1].Version != 1 {
		t.Fatalf("unexpected history: %+v", hist)
	}
}

func TestListLatestOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{PatchID: 1, Notes: "a1"})
	s.Put(ctx, PutParams{PatchID: 1, Notes: "a2", Urgent: true})
	s.Put(ctx, PutParams{PatchID: 2, Notes: "b1"})
	s.Put(ctx, PutParams{PatchID: 3, Notes: "c1", Urgent: true})
	s.Put(ctx, PutParams{PatchID: 3, Notes: "c2"})

	all, err := s.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 (latest only), got %d", len(all))
	}
	for _, a := range all {
		if a.PatchID == 1 && a.Notes != "a2" {
			t.Errorf("expected latest version for patch 1, got %q", a.Notes)
		}
	}

	urgent, _ := s.List(ctx, ListParams{UrgentOnly: true})
	if len(urgent) != 1 || urgent[0].PatchID != 1 {
		t.Errorf("expected only patch 1 urgent, got %+v", urgent)
	}

	limited, _ := s.List(ctx, ListParams{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("expected 2 with limit, got %d", len(limited))
	}
}

func TestRm(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{PatchID: 1, Notes: "v1"})
	s.Put(ctx, PutParams{PatchID: 1, Notes: "v2"})

	if err := s.Rm(ctx, RmParams{PatchID: 1}); err != nil {
		t.Fatalf("rm: %v", err)
	}
	got, _ := s.Latest(ctx, 1)
	if got.Notes != "v1" {
		t.Errorf("expected v1 after removing latest, got %q", got.Notes)
	}

	if err := s.Rm(ctx, RmParams{PatchID: 1, AllVersions: true, Hard: true}); err != nil {
		t.Fatalf("hard rm: %v", err)
	}
	if _, err := s.Latest(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after hard delete, got %v", err)
	}
	if err := s.Rm(ctx, RmParams{PatchID: 1, AllVersions: true}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound removing nothing, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Put(ctx, PutParams{PatchID: 5, Notes: "persisted"})
	s.Close()

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Latest(ctx, 5)
	if err != nil || got.Notes != "persisted" {
		t.Errorf("expected persisted annotation, got %+v, %v", got, err)
	}
}
