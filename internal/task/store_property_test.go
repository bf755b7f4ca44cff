package task

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// textGen draws task text that is valid after trimming: 1..500 runes,
// starting with a non-space character.
func textGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-zA-Z0-9][a-zA-Z0-9 .,!?-]{0,499}`)
}

func TestPropertyCreateStoresValidText(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewStore()
		text := textGen().Draw(rt, "text")

		created, err := s.Create(text)
		if err != nil {
			rt.Fatalf("Create(%q) failed: %v", text, err)
		}
		got, ok := s.Get(created.ID)
		if !ok {
			rt.Fatal("created task not found")
		}
		if got.Text != Sanitize(strings.TrimSpace(text)) {
			rt.Fatalf("stored text %q, want sanitized %q", got.Text, Sanitize(strings.TrimSpace(text)))
		}
		if got.Completed {
			rt.Fatal("new task must not be completed")
		}
		if !got.CreatedAt.Equal(got.UpdatedAt) {
			rt.Fatalf("CreatedAt %v != UpdatedAt %v", got.CreatedAt, got.UpdatedAt)
		}
	})
}

func TestPropertyToggleEvenTimesRestores(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewStore()
		created, err := s.Create(textGen().Draw(rt, "text"))
		if err != nil {
			rt.Fatalf("Create failed: %v", err)
		}

		n := rapid.IntRange(1, 10).Draw(rt, "pairs")
		prev := created.UpdatedAt
		for i := 0; i < 2*n; i++ {
			s.ToggleCompletion(created.ID)
			got, _ := s.Get(created.ID)
			if !got.UpdatedAt.After(prev) {
				rt.Fatalf("toggle %d did not advance UpdatedAt", i+1)
			}
			prev = got.UpdatedAt
		}

		got, _ := s.Get(created.ID)
		if got.Completed {
			rt.Fatal("an even number of toggles must restore the original state")
		}
	})
}

func TestPropertyDuplicateDetection(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewStore()
		text := textGen().Draw(rt, "text")
		created, err := s.Create(text)
		if err != nil {
			rt.Fatalf("Create failed: %v", err)
		}

		variant := created.Text
		if rapid.Bool().Draw(rt, "upper") {
			variant = strings.ToUpper(variant)
		}
		pad := strings.Repeat(" ", rapid.IntRange(0, 5).Draw(rt, "pad"))
		variant = pad + variant + pad

		if !s.IsDuplicate(variant, "") {
			rt.Fatalf("IsDuplicate(%q) = false for a stored variant of %q", variant, created.Text)
		}
		if s.IsDuplicate(variant, created.ID) {
			rt.Fatal("IsDuplicate must exclude the given id")
		}
	})
}
