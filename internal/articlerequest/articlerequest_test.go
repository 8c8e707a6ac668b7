package articlerequest

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
)

func bind(t *testing.T, body string) (*ArticleRequest, error) {
	t.Helper()

	a := &ArticleRequest{}
	if err := json.Unmarshal([]byte(body), a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	return a, a.Bind(httptest.NewRequest("POST", "/articles", nil))
}

func TestBindKeepsUntrimmedValues(t *testing.T) {
	a, err := bind(t, `{"title":" A ","content":"B","id":5,"lang":"en"}`)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	if a.Article.Title != " A " || a.Article.Content != "B" {
		t.Errorf("article: got %+v", a.Article)
	}
	if a.Article.ID != 0 {
		t.Errorf("client id kept: %d", a.Article.ID)
	}
	if string(a.Article.Extra["lang"]) != `"en"` {
		t.Errorf("extra: got %v", a.Article.Extra)
	}
	if _, ok := a.Article.Extra["id"]; ok {
		t.Error("id leaked into extra fields")
	}
}

func TestBindValidation(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"title":"","content":"x"}`,
		`{"title":"x","content":"\n"}`,
		`{"title":null,"content":"x"}`,
		`{"title":"x","content":{"a":1}}`,
		`[1,2]`,
		`"x"`,
		`5`,
		`null`,
	} {
		if _, err := bind(t, body); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: got %v, want ErrValidation", body, err)
		}
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	a := &ArticleRequest{}
	if err := json.Unmarshal([]byte(`[1,`), a); err == nil {
		t.Fatal("expected a syntax error")
	}
}
