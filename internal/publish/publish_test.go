package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const page = `<html><head>
<script type="application/json" id="a2z-json">[{"old":true}]</script>
<script src="main.js"></script>
</head><body></body></html>`

func TestReplaceInline(t *testing.T) {
	out, err := ReplaceInline([]byte(page), []byte(`[{"title":"a</b>"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<html><head>
<script type="application/json" id="a2z-json">[{"title":"a<\/b>"}]</script>
<script src="main.js"></script>
</head><body></body></html>`
	if string(out) != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, out)
	}
}

func TestReplaceInline_Missing(t *testing.T) {
	_, err := ReplaceInline([]byte(`<html></html>`), []byte(`[]`))
	if !errors.Is(err, ErrNoInlineBlock) {
		t.Errorf("expected ErrNoInlineBlock, got %v", err)
	}
}

func TestInline(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Data:    filepath.Join(dir, "data.global.js"),
		MinJSON: filepath.Join(dir, "data.min.json"),
		Page:    filepath.Join(dir, "index.html"),
	}
	data := "window.data = [\n  {\n    \"step\": 1,\n    \"title\": \"Arrays\"\n  }\n];\n"
	if err := os.WriteFile(p.Data, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p.Page, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Inline(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Items != 1 {
		t.Errorf("expected 1 item, got %d", res.Items)
	}

	compact, err := os.ReadFile(p.MinJSON)
	if err != nil {
		t.Fatal(err)
	}
	if string(compact) != `[{"step":1,"title":"Arrays"}]` {
		t.Errorf("unexpected min json %s", compact)
	}
	if res.MinBytes != len(compact) {
		t.Errorf("expected MinBytes=%d, got %d", len(compact), res.MinBytes)
	}

	out, err := os.ReadFile(p.Page)
	if err != nil {
		t.Fatal(err)
	}
	want := `<script type="application/json" id="a2z-json">[{"step":1,"title":"Arrays"}]</script>`
	if !strings.Contains(string(out), want) {
		t.Errorf("expected page to contain %s, got %s", want, out)
	}
}

func TestInline_PageWithoutBlockLeavesFilesUntouched(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Data:    filepath.Join(dir, "data.global.js"),
		MinJSON: filepath.Join(dir, "data.min.json"),
		Page:    filepath.Join(dir, "index.html"),
	}
	os.WriteFile(p.Data, []byte("window.data = [];\n"), 0o644)
	os.WriteFile(p.Page, []byte("<html></html>"), 0o644)

	if _, err := Inline(p); !errors.Is(err, ErrNoInlineBlock) {
		t.Fatalf("expected ErrNoInlineBlock, got %v", err)
	}
	if _, err := os.Stat(p.MinJSON); !os.IsNotExist(err) {
		t.Errorf("expected no min json written, got %v", err)
	}
}
