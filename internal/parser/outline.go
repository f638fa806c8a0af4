package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var stepPattern = regexp.MustCompile(`(?i)Step\s+(\d+)(?:\.(\d+))?`)

// Frame is the outline metadata of one open <details> section. A zero
// Frame belongs to a section whose heading carried no step marker.
type Frame struct {
	Step         *int
	Substep      *int
	StepTitle    string
	SubstepTitle string
}

// Context is the effective step/sub-step at some point of the document.
type Context struct {
	Step         *int
	Substep      *int
	StepTitle    string
	SubstepTitle string
}

// Tracker mirrors nested collapsible sections as a stack of frames.
type Tracker struct {
	stack []Frame
}

func (t *Tracker) Push() {
	t.stack = append(t.stack, Frame{})
}

// Pop drops the innermost frame. Popping an empty stack does nothing.
func (t *Tracker) Pop() {
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

func (t *Tracker) Depth() int { return len(t.stack) }

// HeadingTitle picks the display title of a section heading: the text after
// the first colon of the full heading, or, with no colon, the heading minus
// its bold part.
func HeadingTitle(full, plain string) string {
	if _, after, ok := strings.Cut(full, ":"); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(plain)
}

// SetHeading fills the innermost frame from a section heading. marker is the
// text searched for "Step N" or "Step N.M" and title is the display title.
// Headings without a marker leave the frame untouched.
func (t *Tracker) SetHeading(marker, title string) bool {
	if len(t.stack) == 0 {
		return false
	}
	m := stepPattern.FindStringSubmatch(marker)
	if m == nil {
		return false
	}

	title = strings.TrimSpace(title)
	step, _ := strconv.Atoi(m[1])
	top := &t.stack[len(t.stack)-1]

	if m[2] == "" {
		top.Step = &step
		top.Substep = nil
		top.StepTitle = title
		return true
	}

	sub, _ := strconv.Atoi(m[2])
	parentTitle := ""
	for i := len(t.stack) - 2; i >= 0; i-- {
		e := t.stack[i]
		if e.Step != nil && *e.Step == step && e.Substep == nil {
			parentTitle = e.StepTitle
			break
		}
	}
	top.Step = &step
	top.Substep = &sub
	top.StepTitle = parentTitle
	top.SubstepTitle = title
	return true
}

// Current scans the stack outermost first. Step-only frames set the step;
// sub-step frames set step, sub-step and both titles, so the deepest
// sub-step wins.
func (t *Tracker) Current() Context {
	var c Context
	for _, e := range t.stack {
		if e.Step != nil && e.Substep == nil {
			c.Step = e.Step
			c.StepTitle = e.StepTitle
		}
		if e.Substep != nil {
			c.Step = e.Step
			c.StepTitle = e.StepTitle
			c.Substep = e.Substep
			c.SubstepTitle = e.SubstepTitle
		}
	}
	return c
}
