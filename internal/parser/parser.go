package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/studyplan/internal/plan"
	"golang.org/x/net/html"
)

// Stats counts what a parse saw.
type Stats struct {
	Sections   int `json:"sections"` // <details> opened
	Headings   int `json:"headings"` // headings carrying a step marker
	Tables     int `json:"tables"`
	HeaderRows int `json:"header_rows"`
	DataRows   int `json:"data_rows"`
}

// Result is the outcome of one extraction: every data row in document
// order, before any filtering.
type Result struct {
	Items []plan.Item
	Stats Stats
}

// Extractor reconstructs the step outline and table rows of a study-plan
// page. It holds no per-document state and is safe for concurrent use.
type Extractor struct {
	labels *Labeler
}

// NewExtractor returns an Extractor. A nil labeler uses the built-in
// column synonyms.
func NewExtractor(labels *Labeler) *Extractor {
	if labels == nil {
		labels = defaultLabeler
	}
	return &Extractor{labels: labels}
}

// Parse makes a single forward pass over the token stream. Markup errors are
// tolerated: unknown tags are ignored and unmatched end tags are skipped.
// Only read errors are returned.
func (e *Extractor) Parse(r io.Reader) (Result, error) {
	s := newState(e.labels)
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return Result{}, fmt.Errorf("tokenize html: %w", err)
			}
			return Result{Items: s.items, Stats: s.stats}, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			var attrs map[string]string
			if hasAttr {
				attrs = readAttrs(z)
			}
			s.start(string(name), attrs)
		case html.EndTagToken:
			name, _ := z.TagName()
			s.end(string(name))
		case html.TextToken:
			s.text(string(z.Text()))
		}
	}
}

// ParseString is Parse over an in-memory document.
func (e *Extractor) ParseString(doc string) []plan.Item {
	res, _ := e.Parse(strings.NewReader(doc))
	return res.Items
}

func readAttrs(z *html.Tokenizer) map[string]string {
	attrs := map[string]string{}
	for {
		key, val, more := z.TagAttr()
		attrs[string(key)] = string(val)
		if !more {
			return attrs
		}
	}
}

// state is the per-document parse state.
type state struct {
	labels  *Labeler
	tracker Tracker
	tables  []*table
	items   []plan.Item
	stats   Stats

	ignore string // open <script> or <style>

	inSummary bool
	inBold    bool
	heading   strings.Builder
	bold      strings.Builder
	plain     strings.Builder
}

func newState(labels *Labeler) *state {
	return &state{labels: labels}
}

// table returns the innermost open table, opening an implicit one for rows
// that appear outside any <table>.
func (s *state) table() *table {
	if len(s.tables) == 0 {
		s.tables = append(s.tables, &table{})
	}
	return s.tables[len(s.tables)-1]
}

func (s *state) start(tag string, attrs map[string]string) {
	if s.ignore != "" {
		return
	}
	switch tag {
	case "script", "style":
		s.ignore = tag
	case "details":
		s.tracker.Push()
		s.stats.Sections++
	case "summary":
		s.inSummary = true
		s.heading.Reset()
		s.bold.Reset()
		s.plain.Reset()
	case "b", "strong":
		if s.inSummary {
			s.inBold = true
		}
	case "table":
		s.tables = append(s.tables, &table{})
		s.stats.Tables++
	case "thead":
		s.table().inHead = true
	case "tr":
		s.table().row = &row{}
	case "th", "td":
		if r := s.table().row; r != nil {
			r.startCell(tag == "th")
		}
	case "a":
		if r := s.openCell(); r != nil {
			if href := attrs["href"]; href != "" {
				r.links = append(r.links, href)
			}
		}
	case "input":
		if r := s.openCell(); r != nil && attrs["type"] == "checkbox" {
			if id := attrs["id"]; id != "" {
				r.checkboxID = id
			}
			r.hasCheckbox = true
		}
	}
}

func (s *state) end(tag string) {
	if s.ignore != "" {
		if tag == s.ignore {
			s.ignore = ""
		}
		return
	}
	switch tag {
	case "summary":
		s.endHeading()
	case "b", "strong":
		if s.inSummary {
			s.inBold = false
		}
	case "th", "td":
		if r := s.openCell(); r != nil {
			r.endCell()
		}
	case "tr":
		s.endRow()
	case "thead":
		if len(s.tables) > 0 {
			s.table().inHead = false
		}
	case "table":
		if len(s.tables) > 0 {
			s.tables = s.tables[:len(s.tables)-1]
		}
	case "details":
		s.tracker.Pop()
	}
}

func (s *state) text(data string) {
	if s.ignore != "" {
		return
	}
	if s.inSummary {
		s.heading.WriteString(data)
		if s.inBold {
			s.bold.WriteString(data)
		} else {
			s.plain.WriteString(data)
		}
	}
	if r := s.openCell(); r != nil {
		r.text.WriteString(data)
	}
}

// openCell returns the row whose cell is currently open, if any.
func (s *state) openCell() *row {
	if len(s.tables) == 0 {
		return nil
	}
	r := s.tables[len(s.tables)-1].row
	if r == nil || !r.inCell {
		return nil
	}
	return r
}

// endHeading applies the finished summary to the innermost section. The
// step marker is read from the bold part of the heading, or from the whole
// heading when nothing in it is bold.
func (s *state) endHeading() {
	full := strings.TrimSpace(s.heading.String())
	marker := strings.TrimSpace(s.bold.String())
	if marker == "" {
		marker = full
	}
	title := HeadingTitle(full, s.plain.String())
	if s.tracker.SetHeading(marker, title) {
		s.stats.Headings++
	}
	s.inSummary = false
	s.inBold = false
	s.heading.Reset()
	s.bold.Reset()
	s.plain.Reset()
}

func (s *state) endRow() {
	if len(s.tables) == 0 {
		return
	}
	t := s.tables[len(s.tables)-1]
	r := t.row
	if r == nil {
		return
	}
	t.row = nil

	if t.isHeader(r) {
		t.setHeaders(r)
		s.stats.HeaderRows++
		return
	}
	s.items = append(s.items, t.item(r, s.tracker.Current(), s.labels))
	s.stats.DataRows++
}
