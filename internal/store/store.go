// Package store persists the article collection as one JSON document that is
// read whole and rewritten whole.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

var (
	ErrRead  = errors.New("store: read")
	ErrParse = errors.New("store: parse")
	ErrWrite = errors.New("store: write")
)

// Store loads and saves the full collection. Implementations do not
// coordinate overlapping load/save cycles: the last Save wins.
type Store interface {
	Load(ctx context.Context) (*model.Collection, error)
	Save(ctx context.Context, c *model.Collection) error
}

// Decode parses a persisted document. A missing "articles" key yields an
// empty collection.
func Decode(data []byte) (*model.Collection, error) {
	c := &model.Collection{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if c.Articles == nil {
		c.Articles = []*model.Article{}
	}

	for i, a := range c.Articles {
		if a == nil {
			return nil, fmt.Errorf("%w: articles[%d] is null", ErrParse, i)
		}
	}

	return c, nil
}

// Encode renders the document with 2-space indentation.
func Encode(c *model.Collection) ([]byte, error) {
	if c.Articles == nil {
		c = &model.Collection{Articles: []*model.Article{}}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrWrite, err)
	}

	return data, nil
}
