package articlerequest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

var ErrValidation = errors.New("title and content are required")

// ArticleRequest is the request payload for create and update. Any field
// besides title and content is passed through; a client supplied id is
// dropped because ids are assigned by the collection.
type ArticleRequest struct {
	Fields map[string]json.RawMessage

	Article *model.Article
}

// UnmarshalJSON accepts any well-formed JSON value. Only an object carries
// fields; anything else leaves Fields nil and fails Bind.
func (a *ArticleRequest) UnmarshalJSON(data []byte) error {
	var v json.RawMessage
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		a.Fields = nil

		return nil
	}

	return json.Unmarshal(trimmed, &a.Fields)
}

// Bind on ArticleRequest runs after the body is decoded. title and content
// must both be strings that are non-empty once trimmed.
func (a *ArticleRequest) Bind(r *http.Request) error {
	title, err := requiredString(a.Fields, model.KeyTitle)
	if err != nil {
		return err
	}

	content, err := requiredString(a.Fields, model.KeyContent)
	if err != nil {
		return err
	}

	a.Article = &model.Article{Title: title, Content: content}
	a.Article.Merge(a.Fields)

	return nil
}

func requiredString(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s is missing", ErrValidation, key)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s is not a string", ErrValidation, key)
	}

	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrValidation, key)
	}

	return s, nil
}
