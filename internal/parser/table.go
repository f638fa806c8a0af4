package parser

import (
	"strconv"
	"strings"

	"github.com/dgallion1/studyplan/internal/plan"
)

type cell struct {
	text  string
	links []string
}

func (c cell) link() string {
	if len(c.links) > 0 {
		return c.links[0]
	}
	return ""
}

type row struct {
	cells       []cell
	thCount     int
	hasCheckbox bool
	checkboxID  string

	inCell bool
	text   strings.Builder
	links  []string
}

// startCell opens a cell. An unclosed previous cell is discarded.
func (r *row) startCell(header bool) {
	r.inCell = true
	r.text.Reset()
	r.links = nil
	if header {
		r.thCount++
	}
}

func (r *row) endCell() {
	r.cells = append(r.cells, cell{
		text:  collapseSpace(r.text.String()),
		links: r.links,
	})
	r.inCell = false
	r.text.Reset()
	r.links = nil
}

// table is the state of one open <table>. headersSet distinguishes "no
// header row yet" from an empty header row.
type table struct {
	headers    []string
	headersSet bool
	inHead     bool
	row        *row
}

// isHeader classifies a finished row.
func (t *table) isHeader(r *row) bool {
	if t.inHead {
		return true
	}
	return !t.headersSet && r.thCount >= 2 && !r.hasCheckbox
}

func (t *table) setHeaders(r *row) {
	labels := make([]string, len(r.cells))
	for i, c := range r.cells {
		labels[i] = c.text
	}
	t.headers = labels
	t.headersSet = true
}

// item maps a data row onto a record using the active headers.
func (t *table) item(r *row, ctx Context, labels *Labeler) plan.Item {
	var it plan.Item
	it.Set(plan.KeyStep, intOrNil(ctx.Step))
	it.Set(plan.KeySubstep, intOrNil(ctx.Substep))
	if ctx.StepTitle != "" {
		it.Set(plan.KeyStepTitle, ctx.StepTitle)
	}
	if ctx.SubstepTitle != "" {
		it.Set(plan.KeySubstepTitle, ctx.SubstepTitle)
	}
	if r.checkboxID != "" {
		it.Set(plan.KeyCheckboxID, r.checkboxID)
	}

	for i, c := range r.cells {
		label := "col" + strconv.Itoa(i)
		if i < len(t.headers) {
			label = t.headers[i]
		}
		key := labels.Normalize(label)
		link := c.link()

		switch key {
		case LabelTopicArticle, LabelTopic, LabelArticle:
			if c.text != "" {
				it.Set(plan.KeyTitle, c.text)
			}
			if link != "" {
				it.SetLink(plan.KeyArticle, link)
			}
		case LabelCheckbox:
		default:
			if link != "" {
				it.SetLink(key, link)
			} else if c.text != "" {
				it.Set(key+"Text", c.text)
			}
		}
	}
	return it
}

func intOrNil(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
