package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// noteShowDelay approximates the next-paint alignment of the entry
	// transition: a fresh notification becomes visible one frame after it
	// is created.
	noteShowDelay = 16 * time.Millisecond
	noteLifetime  = 3 * time.Second
	noteExitTime  = 200 * time.Millisecond
)

type severity int

const (
	sevInfo severity = iota
	sevSuccess
	sevWarning
	sevError
)

// notification is one transient stacked message. Each owns its show, expiry
// and removal timers independently of the others.
type notification struct {
	id      int
	text    string
	sev     severity
	visible bool
	leaving bool
}

type noteShowMsg struct{ id int }

type noteExpireMsg struct{ id int }

type noteRemoveMsg struct{ id int }

// pushNote appends a hidden notification and returns the commands driving
// its lifecycle.
func (m *Model) pushNote(text string, sev severity) tea.Cmd {
	m.noteSeq++
	id := m.noteSeq
	m.notes = append(m.notes, notification{id: id, text: text, sev: sev})
	show := tea.Tick(noteShowDelay, func(time.Time) tea.Msg { return noteShowMsg{id: id} })
	expire := tea.Tick(noteLifetime, func(time.Time) tea.Msg { return noteExpireMsg{id: id} })
	return tea.Batch(show, expire)
}

func (m Model) updateNotes(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case noteShowMsg:
		for i := range m.notes {
			if m.notes[i].id == msg.id {
				m.notes[i].visible = true
			}
		}
		return m, nil
	case noteExpireMsg:
		for i := range m.notes {
			if m.notes[i].id == msg.id {
				m.notes[i].leaving = true
			}
		}
		id := msg.id
		return m, tea.Tick(noteExitTime, func(time.Time) tea.Msg { return noteRemoveMsg{id: id} })
	case noteRemoveMsg:
		kept := m.notes[:0:0]
		for _, n := range m.notes {
			if n.id != msg.id {
				kept = append(kept, n)
			}
		}
		m.notes = kept
		return m, nil
	}
	return m, nil
}
