package task

import (
	"sort"
	"strings"
	"time"
)

// Store owns the in-memory task collection plus the at-most-one selection
// slot. It is not safe for concurrent use; the UI event loop is its single
// owner.
type Store struct {
	tasks    map[string]Task
	selected string
}

func NewStore() *Store {
	return &Store{tasks: make(map[string]Task)}
}

// Create validates and sanitizes text, builds a new task and inserts it.
func (s *Store) Create(text string) (Task, error) {
	t, err := New(text)
	if err != nil {
		return Task{}, err
	}
	if err := s.Add(t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Add inserts a pre-built task. A colliding id is a programmer error, not a
// user-facing condition.
func (s *Store) Add(t Task) error {
	if _, ok := s.tasks[t.ID]; ok {
		return ErrDuplicateID
	}
	s.tasks[t.ID] = t
	return nil
}

func (s *Store) Get(id string) (Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// ToggleCompletion flips the completion flag and refreshes UpdatedAt.
// Unknown ids are a silent no-op.
func (s *Store) ToggleCompletion(id string) {
	t, ok := s.tasks[id]
	if !ok {
		return
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.touch(t.UpdatedAt)
	s.tasks[id] = t
}

// Update replaces the task text after re-validating and re-sanitizing it.
// Unknown ids are a silent no-op.
func (s *Store) Update(id, newText string) error {
	t, ok := s.tasks[id]
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(newText)
	if err := ValidateText(trimmed); err != nil {
		return err
	}
	t.Text = Sanitize(trimmed)
	t.UpdatedAt = s.touch(t.UpdatedAt)
	s.tasks[id] = t
	return nil
}

// Remove deletes the task and clears the selection if it pointed at it.
// Unknown ids are a no-op.
func (s *Store) Remove(id string) {
	delete(s.tasks, id)
	if s.selected == id {
		s.selected = ""
	}
}

// Clear empties the store and drops any selection.
func (s *Store) Clear() {
	s.tasks = make(map[string]Task)
	s.selected = ""
}

// IsDuplicate reports whether any task other than excludeID has the same
// text, compared case-insensitively after trimming.
func (s *Store) IsDuplicate(text, excludeID string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	for id, t := range s.tasks {
		if id == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(t.Text)) == needle {
			return true
		}
	}
	return false
}

func (s *Store) Count() int {
	return len(s.tasks)
}

func (s *Store) CompletedCount() int {
	n := 0
	for _, t := range s.tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// CompletedPercent is round(completed/total*100), 0 for an empty store.
func (s *Store) CompletedPercent() int {
	total := len(s.tasks)
	if total == 0 {
		return 0
	}
	return (s.CompletedCount()*100 + total/2) / total
}

// Select marks the task as the active one. Selecting an unknown id is a
// no-op and reports false.
func (s *Store) Select(id string) bool {
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	s.selected = id
	return true
}

func (s *Store) Deselect() {
	s.selected = ""
}

// SelectedID returns the selected task id, or "" when nothing is selected.
func (s *Store) SelectedID() string {
	return s.selected
}

func (s *Store) Selected() (Task, bool) {
	if s.selected == "" {
		return Task{}, false
	}
	t, ok := s.tasks[s.selected]
	return t, ok
}

// Tasks returns the collection in unspecified order.
func (s *Store) Tasks() []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

// Sorted returns the display order: incomplete before completed, newest
// created first within each group, id as the final tiebreaker.
func (s *Store) Sorted() []Task {
	out := s.Tasks()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// touch returns the current instant, nudged forward when the clock has not
// advanced past the previous timestamp within one event.
func (s *Store) touch(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}
