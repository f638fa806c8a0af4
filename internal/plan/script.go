package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// ErrNoDataArray is returned when a data script has no window.data array.
var ErrNoDataArray = errors.New("no window.data array found")

const scriptPrefix = "window.data = "

var scriptPattern = regexp.MustCompile(`(?s)window\.data\s*=\s*(.*?);\s*$`)

// EncodeScript writes items as a global assignment:
//
//	window.data = [ ... ];
//
// with 2-space indentation. Non-ASCII text and <, >, & are written literally.
func EncodeScript(w io.Writer, items []Item) error {
	body, err := marshal(items, "  ")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.Grow(len(scriptPrefix) + len(body) + 2)
	buf.WriteString(scriptPrefix)
	buf.Write(body)
	buf.WriteString(";\n")
	_, err = w.Write(buf.Bytes())
	return err
}

// MarshalCompact returns items as minified JSON.
func MarshalCompact(items []Item) ([]byte, error) {
	return marshal(items, "")
}

func marshal(items []Item, indent string) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodeScript parses the array literal out of a window.data script. If the
// trailing semicolon is missing it falls back to the outermost brackets
// after the assignment.
func DecodeScript(src []byte) ([]Item, error) {
	var arr []byte
	if m := scriptPattern.FindSubmatch(src); m != nil {
		arr = m[1]
	} else {
		assign := bytes.Index(src, []byte("window.data"))
		if assign < 0 {
			return nil, ErrNoDataArray
		}
		start := bytes.IndexByte(src[assign:], '[')
		end := bytes.LastIndexByte(src, ']')
		if start < 0 || end < assign+start {
			return nil, ErrNoDataArray
		}
		arr = src[assign+start : end+1]
	}

	var items []Item
	if err := json.Unmarshal(arr, &items); err != nil {
		return nil, fmt.Errorf("decode data array: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}
