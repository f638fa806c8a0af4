package plan

import "slices"

// DefaultKeyOrder is the canonical field priority. Keys not listed follow
// in encounter order.
var DefaultKeyOrder = []string{
	KeyStep,
	KeySubstep,
	KeyStepTitle,
	KeySubstepTitle,
	KeyCheckboxID,
	KeyTitle,
	KeyArticle,
	"gfg",
	"solution",
	"leetcode",
}

// KeyOrder returns DefaultKeyOrder followed by any extra keys not
// already present.
func KeyOrder(extra ...string) []string {
	order := slices.Clone(DefaultKeyOrder)
	for _, k := range extra {
		if k != "" && !slices.Contains(order, k) {
			order = append(order, k)
		}
	}
	return order
}

// Ordered returns a copy of it with fields rearranged by order.
func (it Item) Ordered(order []string) Item {
	out := Item{fields: make([]Field, 0, len(it.fields))}
	for _, k := range order {
		for _, f := range it.fields {
			if f.Key == k {
				out.fields = append(out.fields, f)
				break
			}
		}
	}
	for _, f := range it.fields {
		if !slices.Contains(order, f.Key) {
			out.fields = append(out.fields, f)
		}
	}
	return out
}

// Keep reports whether a row carries usable data: a title or a link.
func Keep(it Item) bool {
	return it.Title() != "" || it.HasLink()
}

// Filter drops rows without usable data. It returns the kept rows and the
// number dropped.
func Filter(items []Item) ([]Item, int) {
	kept := make([]Item, 0, len(items))
	for _, it := range items {
		if Keep(it) {
			kept = append(kept, it)
		}
	}
	return kept, len(items) - len(kept)
}

// Order applies Ordered to every item.
func Order(items []Item, order []string) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Ordered(order)
	}
	return out
}
