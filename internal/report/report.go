package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/dgallion1/studyplan/internal/plan"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders grouped items as an outline: a heading per step and
// sub-step and one bullet per item with its links.
func Markdown(title string, groups []*plan.StepGroup) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", escape(title))
	for _, step := range groups {
		fmt.Fprintf(&b, "## Step %s: %s (%d)\n\n", step.Key, escape(step.Title), step.Total)
		for _, sub := range step.Subs {
			fmt.Fprintf(&b, "### %s.%s %s (%d)\n\n", step.Key, sub.Key, escape(sub.Title), len(sub.Items))
			for _, it := range sub.Items {
				b.WriteString("- ")
				b.WriteString(itemLine(it))
				b.WriteByte('\n')
			}
			b.WriteByte('\n')
		}
	}
	return b.Bytes()
}

// HTML renders the outline to a standalone page. Raw HTML in titles is
// escaped, never passed through.
func HTML(title string, groups []*plan.StepGroup) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert(Markdown(title, groups), &body); err != nil {
		return nil, fmt.Errorf("render outline: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>")
	page.WriteString(html.EscapeString(title))
	page.WriteString("</title></head><body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}

func itemLine(it plan.Item) string {
	title := it.Title()
	if title == "" {
		title = "(untitled)"
	}

	var parts []string
	if href := it.String(plan.KeyArticle); href != "" {
		parts = append(parts, link(title, href))
	} else {
		parts = append(parts, escape(title))
	}
	for _, f := range it.Fields() {
		if !f.Link || f.Key == plan.KeyArticle {
			continue
		}
		if href, ok := f.Value.(string); ok && href != "" {
			parts = append(parts, link(f.Key, href))
		}
	}
	return strings.Join(parts, " · ")
}

func link(text, href string) string {
	href = strings.NewReplacer("<", "%3C", ">", "%3E", "\n", "").Replace(href)
	return "[" + escape(text) + "](<" + href + ">)"
}

// escape backslash-escapes ASCII punctuation so titles render literally.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune("\\`*_{}[]()#+-.!|<>&~", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
