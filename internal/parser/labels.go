package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical column keys.
const (
	LabelCheckbox     = "checkbox"
	LabelTopicArticle = "topicArticle"
	LabelTopic        = "topic"
	LabelArticle      = "article"
)

var defaultLabels = map[string]string{
	"":              LabelCheckbox,
	"topic/article": LabelTopicArticle,
	"topic":         LabelTopic,
	"article":       LabelArticle,
	"gfg":           "gfg",
	"leetcode":      "leetcode",
	"solution":      "solution",
}

var labelSplit = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Labeler turns header text into lookup keys.
type Labeler struct {
	synonyms map[string]string
}

// NewLabeler returns a Labeler with the built-in synonyms plus extra, whose
// keys match header text case-insensitively.
func NewLabeler(extra map[string]string) *Labeler {
	l := &Labeler{synonyms: make(map[string]string, len(defaultLabels)+len(extra))}
	for k, v := range defaultLabels {
		l.synonyms[k] = v
	}
	for k, v := range extra {
		l.synonyms[strings.ToLower(collapseSpace(k))] = v
	}
	return l
}

// Normalize maps a header label to a key. Known synonyms map directly; other
// labels are split on non-alphanumerics and camel-cased, so "Practice Link"
// becomes "practiceLink". A label with no alphanumerics becomes "field".
func (l *Labeler) Normalize(label string) string {
	label = collapseSpace(label)
	if key, ok := l.synonyms[strings.ToLower(label)]; ok {
		return key
	}

	var parts []string
	for _, p := range labelSplit.Split(label, -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "field"
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(parts[0]))
	for _, p := range parts[1:] {
		b.WriteString(capitalize(p))
	}
	return b.String()
}

// NormLabel normalizes with the built-in synonyms only.
func NormLabel(label string) string {
	return defaultLabeler.Normalize(label)
}

var defaultLabeler = NewLabeler(nil)

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
