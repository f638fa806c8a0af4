package report

import (
	"strings"
	"testing"

	"github.com/dgallion1/studyplan/internal/plan"
)

func groups() []*plan.StepGroup {
	var a plan.Item
	a.Set(plan.KeyStep, 1)
	a.Set(plan.KeySubstep, 1)
	a.Set(plan.KeyStepTitle, "Basics")
	a.Set(plan.KeySubstepTitle, "I/O")
	a.Set(plan.KeyTitle, "Read <input>")
	a.SetLink(plan.KeyArticle, "https://e.example/io")
	a.SetLink("leetcode", "https://lc.example/1")
	a.Set("notesText", "skip me")

	var b plan.Item
	b.Set(plan.KeyStep, 1)
	b.Set(plan.KeySubstep, 1)
	b.SetLink("gfg", "https://g.example/2")
	return plan.Group([]plan.Item{a, b})
}

func TestMarkdown(t *testing.T) {
	got := string(Markdown("Plan", groups()))
	want := "# Plan\n\n" +
		"## Step 1: Basics (2)\n\n" +
		"### 1.1 I/O (2)\n\n" +
		"- [Read \\<input\\>](<https://e.example/io>) · [leetcode](<https://lc.example/1>)\n" +
		"- \\(untitled\\) · [gfg](<https://g.example/2>)\n\n"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestHTML(t *testing.T) {
	page, err := HTML("Plan <1>", groups())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(page)
	for _, want := range []string{
		"<title>Plan &lt;1&gt;</title>",
		"<h2>Step 1: Basics (2)</h2>",
		`<a href="https://e.example/io">Read &lt;input&gt;</a>`,
		`<a href="https://lc.example/1">leetcode</a>`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("expected page to contain %q, got:\n%s", want, s)
		}
	}
	if strings.Contains(s, "<input>") {
		t.Error("expected raw HTML from titles to be escaped")
	}
	if strings.Contains(s, "skip me") {
		t.Error("expected text-only fields to be left out")
	}
}

func TestEscape(t *testing.T) {
	if got := escape("a_b*c [d]"); got != `a\_b\*c \[d\]` {
		t.Errorf("unexpected escape %q", got)
	}
	if got := escape("Ünï"); got != "Ünï" {
		t.Errorf("expected non-ASCII untouched, got %q", got)
	}
}
