package model

import "errors"

var ErrNotFound = errors.New("article not found")

// Collection is the whole persisted document.
type Collection struct {
	Articles []*Article `json:"articles"`
}

// Index returns the position of the first article with id, or -1.
func (c *Collection) Index(id int) int {
	for i, a := range c.Articles {
		if a.ID == id {
			return i
		}
	}

	return -1
}

func (c *Collection) Get(id int) (*Article, error) {
	i := c.Index(id)
	if i == -1 {
		return nil, ErrNotFound
	}

	return c.Articles[i], nil
}

// Add appends article with id set to the collection length plus one.
// Ids freed by Remove are handed out again, so two articles may end up
// sharing an id.
func (c *Collection) Add(article *Article) *Article {
	article.ID = len(c.Articles) + 1
	c.Articles = append(c.Articles, article)

	return article
}

// Update merges patch over the first article with id. Title and content are
// replaced, extra fields are shallow-merged and the id is kept.
func (c *Collection) Update(id int, patch *Article) (*Article, error) {
	current, err := c.Get(id)
	if err != nil {
		return nil, err
	}

	current.Title = patch.Title
	current.Content = patch.Content
	current.Merge(patch.Extra)

	return current, nil
}

func (c *Collection) Remove(id int) (*Article, error) {
	i := c.Index(id)
	if i == -1 {
		return nil, ErrNotFound
	}

	removed := c.Articles[i]
	c.Articles = append(c.Articles[:i], c.Articles[i+1:]...)

	return removed, nil
}
