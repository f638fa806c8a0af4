package plan

import (
	"slices"
	"strconv"
)

const unknownKey = "Unknown"

// StepGroup collects items of one step, split by sub-step.
type StepGroup struct {
	Key   string      `json:"step"`
	Title string      `json:"title"`
	Subs  []*SubGroup `json:"substeps"`
	Total int         `json:"total"`
}

// SubGroup collects items of one sub-step.
type SubGroup struct {
	Key   string `json:"substep"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Group arranges items by step and sub-step. Numeric keys sort ascending and
// come before non-numeric ones; otherwise first-seen order is kept. Group
// titles come from the first item seen, defaulting to "Step N" and
// "Step N.M".
func Group(items []Item) []*StepGroup {
	var steps []*StepGroup
	byKey := map[string]*StepGroup{}
	subsByKey := map[string]*SubGroup{}

	for _, it := range items {
		sk := groupKey(it, KeyStep)
		step, ok := byKey[sk]
		if !ok {
			title := it.String(KeyStepTitle)
			if title == "" {
				title = "Step " + sk
			}
			step = &StepGroup{Key: sk, Title: title}
			byKey[sk] = step
			steps = append(steps, step)
		}

		subk := groupKey(it, KeySubstep)
		sub, ok := subsByKey[sk+"."+subk]
		if !ok {
			title := it.String(KeySubstepTitle)
			if title == "" {
				title = "Step " + sk + "." + subk
			}
			sub = &SubGroup{Key: subk, Title: title}
			subsByKey[sk+"."+subk] = sub
			step.Subs = append(step.Subs, sub)
		}
		sub.Items = append(sub.Items, it)
		step.Total++
	}

	slices.SortStableFunc(steps, func(a, b *StepGroup) int { return compareKeys(a.Key, b.Key) })
	for _, s := range steps {
		slices.SortStableFunc(s.Subs, func(a, b *SubGroup) int { return compareKeys(a.Key, b.Key) })
	}
	return steps
}

func groupKey(it Item, key string) string {
	if n, ok := it.Int(key); ok {
		return strconv.Itoa(n)
	}
	return unknownKey
}

func compareKeys(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai - bi
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return 0
}
