package publish

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/dgallion1/studyplan/internal/fileutil"
	"github.com/dgallion1/studyplan/internal/plan"
)

// ErrNoInlineBlock is returned when the page has no inline data block.
var ErrNoInlineBlock = errors.New(`page has no <script type="application/json" id="a2z-json"> block`)

var inlinePattern = regexp.MustCompile(`(?is)(<script\s+type="application/json"\s+id="a2z-json">)(.*?)(</script>)`)

// Result describes an inline run.
type Result struct {
	Items     int
	MinBytes  int
	PageBytes int
}

// Paths locates the files an inline run touches.
type Paths struct {
	Data    string // window.data script to read
	MinJSON string // minified JSON to write
	Page    string // page rewritten in place
}

// Inline reads the data script, writes it as minified JSON, and replaces the
// body of the page's inline data block with the same JSON.
func Inline(p Paths) (Result, error) {
	src, err := os.ReadFile(p.Data)
	if err != nil {
		return Result{}, fmt.Errorf("read data script: %w", err)
	}
	items, err := plan.DecodeScript(src)
	if err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", p.Data, err)
	}
	compact, err := plan.MarshalCompact(items)
	if err != nil {
		return Result{}, err
	}

	page, err := os.ReadFile(p.Page)
	if err != nil {
		return Result{}, fmt.Errorf("read page: %w", err)
	}
	out, err := ReplaceInline(page, compact)
	if err != nil {
		return Result{}, fmt.Errorf("inline into %s: %w", p.Page, err)
	}

	if err := fileutil.WriteAtomic(p.MinJSON, compact, 0o644); err != nil {
		return Result{}, fmt.Errorf("write min json: %w", err)
	}
	if err := fileutil.WriteAtomic(p.Page, out, 0o644); err != nil {
		return Result{}, fmt.Errorf("write page: %w", err)
	}
	return Result{Items: len(items), MinBytes: len(compact), PageBytes: len(out)}, nil
}

// ReplaceInline swaps the body of the first inline data block for data.
// "</" is written as "<\/" so the JSON cannot close the script element.
func ReplaceInline(page, data []byte) ([]byte, error) {
	loc := inlinePattern.FindSubmatchIndex(page)
	if loc == nil {
		return nil, ErrNoInlineBlock
	}
	body := bytes.ReplaceAll(data, []byte("</"), []byte(`<\/`))

	bodyStart, bodyEnd := loc[4], loc[5]
	out := make([]byte, 0, len(page)-(bodyEnd-bodyStart)+len(body))
	out = append(out, page[:bodyStart]...)
	out = append(out, body...)
	out = append(out, page[bodyEnd:]...)
	return out, nil
}
