package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type Client struct {
	http.Client
	Addr string
}

// Article as seen over the wire. Fields other than id, title and content are
// kept in Extra.
type Article struct {
	ID      int    `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`

	Extra map[string]interface{} `json:"-"`
}

func (a Article) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(a.Extra)+3)
	for k, v := range a.Extra {
		m[k] = v
	}
	if a.ID != 0 {
		m["id"] = a.ID
	}
	m["title"] = a.Title
	m["content"] = a.Content

	return json.Marshal(m)
}

func (a *Article) UnmarshalJSON(data []byte) error {
	type plain Article

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	delete(m, "id")
	delete(m, "title")
	delete(m, "content")
	if len(m) > 0 {
		p.Extra = m
	}

	*a = Article(p)

	return nil
}

// APIError is returned for any non-2xx answer.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("articles: %d %s", e.StatusCode, e.Message)
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), err
}

func (c *Client) ListArticles(ctx context.Context) ([]Article, error) {
	var list []Article
	if err := c.do(ctx, http.MethodGet, "/articles", nil, &list); err != nil {
		return nil, err
	}

	return list, nil
}

func (c *Client) GetArticle(ctx context.Context, id int) (*Article, error) {
	a := &Article{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/articles/%d", id), nil, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (c *Client) CreateArticle(ctx context.Context, a Article) (*Article, error) {
	out := &Article{}
	if err := c.do(ctx, http.MethodPost, "/articles", a, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) UpdateArticle(ctx context.Context, id int, a Article) (*Article, error) {
	a.ID = 0

	out := &Article{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/articles/%d", id), a, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/articles/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)

		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
