package task

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tk, err := New("  Buy milk  ")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if tk.ID == "" {
		t.Error("expected a generated id")
	}
	if tk.Text != "Buy milk" {
		t.Errorf("Text = %q, want %q", tk.Text, "Buy milk")
	}
	if tk.Completed {
		t.Error("new task must not be completed")
	}
	if !tk.CreatedAt.Equal(tk.UpdatedAt) {
		t.Errorf("CreatedAt %v != UpdatedAt %v", tk.CreatedAt, tk.UpdatedAt)
	}

	other, err := New("Buy milk")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if other.ID == tk.ID {
		t.Error("ids must be unique")
	}
}

func TestValidateText(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", ErrEmptyText},
		{"whitespace only", "   ", ErrEmptyText},
		{"single char", "x", nil},
		{"max length", strings.Repeat("a", 500), nil},
		{"max length multibyte", strings.Repeat("ä", 500), nil},
		{"over max", strings.Repeat("a", 501), ErrTextTooLong},
		{"padded within max", "  " + strings.Repeat("a", 500) + "  ", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateText(tc.text)
			if !errors.Is(err, tc.want) {
				t.Errorf("ValidateText(%.20q) = %v, want %v", tc.text, err, tc.want)
			}
			if tc.want != nil && !errors.Is(err, ErrInvalidText) {
				t.Errorf("%v must match ErrInvalidText", err)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "plain text", "plain text"},
		{"markup", "<b>bold</b>", "&lt;b&gt;bold&lt;/b&gt;"},
		{"script", "<script>alert('x')</script>", "&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;"},
		{"ampersand", "Tom & Jerry", "Tom &amp; Jerry"},
		{"quotes", `say "hi"`, "say &quot;hi&quot;"},
		{"tab becomes space", "a\tb", "a b"},
		{"control dropped", "a\x1b[31mb", "a[31mb"},
		{"newline dropped", "a\nb", "ab"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.in); got != tc.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPlainInvertsSanitize(t *testing.T) {
	inputs := []string{
		"plain",
		`<a href="x">link</a>`,
		"it's 5 > 3 & 2 < 4",
		"&lt;already escaped&gt;",
	}
	for _, in := range inputs {
		if got := Plain(Sanitize(in)); got != in {
			t.Errorf("Plain(Sanitize(%q)) = %q", in, got)
		}
	}
}
