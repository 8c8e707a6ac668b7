package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/SergeyParamoshkin/articles/internal/model"
	"github.com/SergeyParamoshkin/articles/internal/store"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()

	s, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "articles.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})

	return s
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open("mysql", ""); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoadWithoutSeed(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	if err := s.Initialize(ctx, false); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if _, err := s.Load(ctx); !errors.Is(err, store.ErrRead) {
		t.Fatalf("got %v, want ErrRead", err)
	}
}

func TestSaveLoad(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	if err := s.Initialize(ctx, true); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	c, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Articles) != 0 {
		t.Fatalf("articles: got %d, want 0", len(c.Articles))
	}

	c.Add(&model.Article{Title: "A", Content: "B"})
	if err := s.Save(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	// seeding again must not clobber stored data
	if err := s.Initialize(ctx, true); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	c, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Articles) != 1 || c.Articles[0].Title != "A" || c.Articles[0].ID != 1 {
		t.Errorf("unexpected collection: %+v", c.Articles)
	}
}
