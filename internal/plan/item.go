package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Well-known record keys.
const (
	KeyStep         = "step"
	KeySubstep      = "substep"
	KeyStepTitle    = "stepTitle"
	KeySubstepTitle = "substepTitle"
	KeyCheckboxID   = "checkboxId"
	KeyTitle        = "title"
	KeyArticle      = "article"
)

// Field is one key/value pair of an Item. Link marks values taken from a
// hyperlink target rather than cell text.
type Field struct {
	Key   string
	Value any
	Link  bool
}

// Item is one extracted row. Fields keep insertion order; setting an
// existing key replaces its value in place.
type Item struct {
	fields []Field
}

func (it *Item) Set(key string, v any) {
	it.set(Field{Key: key, Value: v})
}

// SetLink stores href under key and marks it as a link field.
func (it *Item) SetLink(key, href string) {
	it.set(Field{Key: key, Value: href, Link: true})
}

func (it *Item) set(f Field) {
	for i := range it.fields {
		if it.fields[i].Key == f.Key {
			it.fields[i] = f
			return
		}
	}
	it.fields = append(it.fields, f)
}

func (it Item) Get(key string) (any, bool) {
	for _, f := range it.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the value under key if it is a string.
func (it Item) String(key string) string {
	v, _ := it.Get(key)
	s, _ := v.(string)
	return s
}

// Int returns the value under key if it is an integer.
func (it Item) Int(key string) (int, bool) {
	v, _ := it.Get(key)
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

func (it Item) Keys() []string {
	keys := make([]string, len(it.fields))
	for i, f := range it.fields {
		keys[i] = f.Key
	}
	return keys
}

func (it Item) Fields() []Field {
	return append([]Field(nil), it.fields...)
}

func (it Item) Len() int { return len(it.fields) }

func (it Item) Title() string { return it.String(KeyTitle) }

// HasLink reports whether any field holds a non-empty hyperlink.
func (it Item) HasLink() bool {
	for _, f := range it.fields {
		if s, ok := f.Value.(string); f.Link && ok && s != "" {
			return true
		}
	}
	return false
}

// Key is the completion-tracking key the front-end stores per item.
func (it Item) Key() string {
	if id := it.String(KeyCheckboxID); id != "" {
		return id
	}
	num := func(key string) string {
		if n, ok := it.Int(key); ok && n != 0 {
			return strconv.Itoa(n)
		}
		return ""
	}
	return "s" + num(KeyStep) + "-" + num(KeySubstep) + "-" + strings.ToLower(it.Title())
}

func (it Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range it.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, f.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, f.Value); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping its key order. Numbers that are
// integers decode to int.
func (it *Item) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode item: expected object, got %v", tok)
	}

	it.fields = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode item: expected key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				v = int(i)
			}
		}
		it.Set(key, v)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode always terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
