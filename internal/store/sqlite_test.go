package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cwhuang-tw/linebot-gemini/internal/models"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	path := ChatPath("U1")

	_, found, err := s.Get(ctx, path)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found {
		t.Fatal("expected absent history on fresh store")
	}

	history := []models.Turn{{Role: models.RoleUser, Content: "hi"}}
	if err := s.Put(ctx, path, history); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	turns, found, err := s.Get(ctx, path)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found || len(turns) != 1 || turns[0].Content != "hi" {
		t.Fatalf("unexpected history: found=%v turns=%v", found, turns)
	}

	// Put overwrites, never merges.
	if err := s.Put(ctx, path, []models.Turn{{Role: models.RoleModel, Content: "only"}}); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	turns, _, _ = s.Get(ctx, path)
	if len(turns) != 1 || turns[0].Content != "only" {
		t.Fatalf("expected overwrite, got %v", turns)
	}

	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	_, found, _ = s.Get(ctx, path)
	if found {
		t.Fatal("expected absent history after delete")
	}
}

func TestSQLiteDeleteAbsentIsNoop(t *testing.T) {
	s := newTestSQLite(t)
	if err := s.Delete(context.Background(), ChatPath("missing")); err != nil {
		t.Fatalf("delete of absent path should succeed: %v", err)
	}
}

func TestSQLiteKeysAreIndependent(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.Put(ctx, ChatPath("U1"), []models.Turn{{Role: models.RoleUser, Content: "a"}}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Put(ctx, ChatPath("G1"), []models.Turn{{Role: models.RoleUser, Content: "b"}}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Delete(ctx, ChatPath("U1")); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	turns, found, err := s.Get(ctx, ChatPath("G1"))
	if err != nil || !found {
		t.Fatalf("expected G1 history to survive: found=%v err=%v", found, err)
	}
	if turns[0].Content != "b" {
		t.Fatalf("unexpected history: %v", turns)
	}
}
