package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArticleMarshalOrder(t *testing.T) {
	a := &Article{
		ID:      3,
		Title:   "A",
		Content: "B",
		Extra: map[string]json.RawMessage{
			"zeta":   json.RawMessage(`true`),
			"author": json.RawMessage(`"ann"`),
		},
	}

	got, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"id":3,"title":"A","content":"B","author":"ann","zeta":true}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestArticleUnmarshalKeepsExtra(t *testing.T) {
	var a Article
	if err := json.Unmarshal([]byte(`{"title":"T","content":"C","id":7,"tags":["x","y"]}`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := Article{
		ID:      7,
		Title:   "T",
		Content: "C",
		Extra:   map[string]json.RawMessage{"tags": json.RawMessage(`["x","y"]`)},
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("article mismatch (-want +got):\n%s", diff)
	}
}

func TestArticleUnmarshalBadID(t *testing.T) {
	var a Article
	if err := json.Unmarshal([]byte(`{"id":"one"}`), &a); err == nil {
		t.Fatal("expected error for non-integer id")
	}
}

func TestCollectionAddAssignsLengthPlusOne(t *testing.T) {
	c := &Collection{}

	for want := 1; want <= 3; want++ {
		a := c.Add(&Article{Title: "t", Content: "c"})
		if a.ID != want {
			t.Fatalf("id: got %d, want %d", a.ID, want)
		}
	}
}

func TestCollectionAddAfterRemoveDuplicatesID(t *testing.T) {
	c := &Collection{}
	c.Add(&Article{Title: "first"})
	c.Add(&Article{Title: "second"})

	if _, err := c.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	a := c.Add(&Article{Title: "third"})
	if a.ID != 2 {
		t.Fatalf("id: got %d, want 2", a.ID)
	}

	got, err := c.Get(2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "second" {
		t.Errorf("Get returns first match: got %q, want second", got.Title)
	}
}

func TestCollectionUpdateMerges(t *testing.T) {
	c := &Collection{Articles: []*Article{{
		ID:      1,
		Title:   "old",
		Content: "old",
		Extra: map[string]json.RawMessage{
			"author": json.RawMessage(`"ann"`),
			"draft":  json.RawMessage(`true`),
		},
	}}}

	got, err := c.Update(1, &Article{
		Title:   "new",
		Content: "body",
		Extra:   map[string]json.RawMessage{"draft": json.RawMessage(`false`)},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	want := &Article{
		ID:      1,
		Title:   "new",
		Content: "body",
		Extra: map[string]json.RawMessage{
			"author": json.RawMessage(`"ann"`),
			"draft":  json.RawMessage(`false`),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("article mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectionNotFound(t *testing.T) {
	c := &Collection{}

	if _, err := c.Get(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: got %v, want ErrNotFound", err)
	}
	if _, err := c.Update(1, &Article{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: got %v, want ErrNotFound", err)
	}
	if _, err := c.Remove(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove: got %v, want ErrNotFound", err)
	}
}
