package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Reserved keys of an Article document. Everything else lands in Extra.
const (
	KeyID      = "id"
	KeyTitle   = "title"
	KeyContent = "content"
)

// Article data model. Fields the service does not know about are kept in
// Extra and written back untouched.
type Article struct {
	ID      int
	Title   string
	Content string
	Extra   map[string]json.RawMessage
}

// MarshalJSON writes id, title and content first, then the extra fields
// sorted by key, so the persisted document is stable between rewrites.
func (a *Article) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	if err := writeField(&buf, KeyID, a.ID, true); err != nil {
		return nil, err
	}
	if err := writeField(&buf, KeyTitle, a.Title, false); err != nil {
		return nil, err
	}
	if err := writeField(&buf, KeyContent, a.Content, false); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(a.Extra))
	for k := range a.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := writeField(&buf, k, a.Extra[k], false); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, key string, v interface{}, first bool) error {
	if !first {
		buf.WriteByte(',')
	}

	k, err := json.Marshal(key)
	if err != nil {
		return err
	}

	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}

	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(val)

	return nil
}

// UnmarshalJSON reads a stored article. id must be an integer, title and
// content strings when present.
func (a *Article) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	out := Article{}

	if raw, ok := fields[KeyID]; ok {
		if err := json.Unmarshal(raw, &out.ID); err != nil {
			return fmt.Errorf("article id: %w", err)
		}
	}
	if raw, ok := fields[KeyTitle]; ok {
		if err := json.Unmarshal(raw, &out.Title); err != nil {
			return fmt.Errorf("article title: %w", err)
		}
	}
	if raw, ok := fields[KeyContent]; ok {
		if err := json.Unmarshal(raw, &out.Content); err != nil {
			return fmt.Errorf("article content: %w", err)
		}
	}

	out.Merge(fields)
	*a = out

	return nil
}

// Merge copies every non-reserved field over the article's extra fields.
func (a *Article) Merge(fields map[string]json.RawMessage) {
	for k, v := range fields {
		switch k {
		case KeyID, KeyTitle, KeyContent:
			continue
		}

		if a.Extra == nil {
			a.Extra = make(map[string]json.RawMessage)
		}
		a.Extra[k] = v
	}
}
