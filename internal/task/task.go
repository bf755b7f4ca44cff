package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTextLen is the longest accepted task text, counted in runes after
// trimming.
const MaxTextLen = 500

var (
	ErrInvalidText = errors.New("invalid task text")
	ErrEmptyText   = fmt.Errorf("%w: empty", ErrInvalidText)
	ErrTextTooLong = fmt.Errorf("%w: longer than %d characters", ErrInvalidText, MaxTextLen)
	ErrDuplicateID = errors.New("duplicate task id")
)

type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New builds a task from raw user input: the text is trimmed, validated and
// sanitized, the id is fresh, and both timestamps are set to the same
// instant.
func New(text string) (Task, error) {
	trimmed := strings.TrimSpace(text)
	if err := ValidateText(trimmed); err != nil {
		return Task{}, err
	}
	now := time.Now().UTC()
	return Task{
		ID:        uuid.NewString(),
		Text:      Sanitize(trimmed),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateText rejects text that is empty after trimming or longer than
// MaxTextLen runes.
func ValidateText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(trimmed) > MaxTextLen {
		return ErrTextTooLong
	}
	return nil
}

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Sanitize neutralizes structural markup in user text so the stored value
// can never be interpreted as markup when displayed: the characters
// & < > " ' are replaced by their entity forms, and control characters
// (including terminal escape bytes) are dropped. Tabs become single spaces.
// Sanitize is applied exactly once, on the raw trimmed input.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return markupEscaper.Replace(b.String())
}

var markupUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&amp;", "&",
)

// Plain reverses Sanitize's escaping for presentation in contexts that do
// not interpret markup, such as terminal rows and edit prompts.
func Plain(text string) string {
	return markupUnescaper.Replace(text)
}
