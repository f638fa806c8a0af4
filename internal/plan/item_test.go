package plan

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestItem_SetKeepsFirstPosition(t *testing.T) {
	var it Item
	it.Set(KeyTitle, "first")
	it.Set("gfgText", "x")
	it.Set(KeyTitle, "second")

	want := []string{KeyTitle, "gfgText"}
	if got := it.Keys(); !slices.Equal(got, want) {
		t.Fatalf("expected keys %v, got %v", want, got)
	}
	if it.Title() != "second" {
		t.Errorf("expected title %q, got %q", "second", it.Title())
	}
}

func TestItem_HasLink(t *testing.T) {
	var it Item
	it.Set("leetcodeText", "Practice")
	if it.HasLink() {
		t.Error("expected text field not to count as a link")
	}
	it.SetLink("leetcode", "https://leetcode.com/problems/two-sum/")
	if !it.HasLink() {
		t.Error("expected link field to be reported")
	}
}

func TestItem_MarshalJSONKeepsOrderAndNulls(t *testing.T) {
	var it Item
	it.Set(KeyStep, nil)
	it.Set(KeySubstep, 2)
	it.Set(KeyTitle, "Arrays é")

	b, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"step":null,"substep":2,"title":"Arrays é"}`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}

func TestItem_UnmarshalJSONKeepsOrder(t *testing.T) {
	var it Item
	src := `{"title":"Two Sum","step":1,"substep":null,"checkboxId":"cb-1"}`
	if err := json.Unmarshal([]byte(src), &it); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{KeyTitle, KeyStep, KeySubstep, KeyCheckboxID}
	if got := it.Keys(); !slices.Equal(got, want) {
		t.Fatalf("expected keys %v, got %v", want, got)
	}
	if n, ok := it.Int(KeyStep); !ok || n != 1 {
		t.Errorf("expected step=1, got %d (ok=%v)", n, ok)
	}
	if _, ok := it.Int(KeySubstep); ok {
		t.Error("expected null substep not to decode as int")
	}
}

func TestItem_UnmarshalJSONRejectsNonObject(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`[1,2]`), &it); err == nil {
		t.Error("expected error for array input")
	}
}

func TestItem_Key(t *testing.T) {
	tests := []struct {
		name string
		item func() Item
		want string
	}{
		{
			name: "checkbox id wins",
			item: func() Item {
				var it Item
				it.Set(KeyStep, 1)
				it.Set(KeyCheckboxID, "cb-42")
				it.Set(KeyTitle, "Two Sum")
				return it
			},
			want: "cb-42",
		},
		{
			name: "derived from context and title",
			item: func() Item {
				var it Item
				it.Set(KeyStep, 3)
				it.Set(KeySubstep, 2)
				it.Set(KeyTitle, "Two Sum")
				return it
			},
			want: "s3-2-two sum",
		},
		{
			name: "missing numbers",
			item: func() Item {
				var it Item
				it.Set(KeyStep, nil)
				it.Set(KeySubstep, nil)
				it.Set(KeyTitle, "Intro")
				return it
			},
			want: "s--intro",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.item().Key(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
