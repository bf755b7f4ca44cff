package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"pado/internal/config"
	"pado/internal/storage"
	"pado/internal/task"
)

// debounceDelay is how long typing must pause before the add control is
// re-validated.
const debounceDelay = 300 * time.Millisecond

type mode int

const (
	modeList mode = iota
	modeAdd
)

// dialog is the modal state. At most one dialog is open at a time; while
// one is open no other can be requested, because all keys route through
// updateDialog.
type dialog int

const (
	dialogNone dialog = iota
	dialogDelete
	dialogClear
	dialogEdit
)

// debounceMsg carries the generation it was scheduled for; stale
// generations are dropped, which is what resets the delay on every
// keystroke.
type debounceMsg struct {
	gen int
}

// outsideWatch stands in for the lazily installed outside-click listener:
// it exists exactly while a task is selected and is disposed when the
// selection returns to none.
type outsideWatch struct {
	disposed bool
}

func newOutsideWatch() *outsideWatch { return &outsideWatch{} }

func (w *outsideWatch) dispose() { w.disposed = true }

type Model struct {
	tasks   *task.Store
	persist *storage.Store
	cfg     config.Config

	cursor int
	mode   mode
	dialog dialog
	input  textinput.Model

	pendingDel *task.Task
	editID     string

	outside *outsideWatch

	debounceGen int
	addDisabled bool

	notes   []notification
	noteSeq int

	initCmd tea.Cmd
	width   int
}

// Run wires the store, persistence and config into the event loop and
// blocks until the user quits. loadErr, when non-nil, is surfaced as an
// error notification on the first frame.
func Run(tasks *task.Store, persist *storage.Store, cfg config.Config, loadErr error) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return errors.New("pado requires a terminal")
	}

	program := tea.NewProgram(newModel(tasks, persist, cfg, loadErr))
	_, err := program.Run()
	return err
}

func newModel(tasks *task.Store, persist *storage.Store, cfg config.Config, loadErr error) Model {
	ti := textinput.New()
	ti.Placeholder = "Task text"
	ti.Width = 40

	m := Model{
		tasks:   tasks,
		persist: persist,
		cfg:     cfg,
		input:   ti,
		mode:    modeList,
	}
	if loadErr != nil {
		m.initCmd = m.pushNote("Could not read saved tasks, starting empty", sevError)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.initCmd
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.dialog != dialogNone {
			return m.updateDialog(msg)
		}
		if m.mode == modeAdd {
			return m.updateAddMode(msg)
		}
		return m.updateListMode(msg.String())
	case debounceMsg:
		if msg.gen == m.debounceGen {
			m.addDisabled = task.ValidateText(m.input.Value()) != nil
		}
		return m, nil
	case noteShowMsg, noteExpireMsg, noteRemoveMsg:
		return m.updateNotes(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, m.tasks.Count())
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, m.tasks.Count())
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Focus()
		m.debounceGen++
		m.addDisabled = true
	case m.cfg.Keys.Toggle:
		t, ok := m.cursorTask()
		if !ok {
			return m, nil
		}
		m.tasks.ToggleCompletion(t.ID)
		m.cursor = m.cursorTo(t.ID)
		saveCmd := m.persistNow()
		return m, tea.Batch(saveCmd, m.pushNote(toggleMessage(!t.Completed), sevSuccess))
	case m.cfg.Keys.Select:
		t, ok := m.cursorTask()
		if !ok {
			return m, nil
		}
		m.selectTask(t.ID)
	case m.cfg.Keys.Delete:
		t, ok := m.cursorTask()
		if !ok {
			return m, nil
		}
		m.dialog = dialogDelete
		m.pendingDel = &t
	case m.cfg.Keys.Edit:
		sel, ok := m.tasks.Selected()
		if !ok {
			return m, m.pushNote("Select a task to edit first", sevWarning)
		}
		m.dialog = dialogEdit
		m.editID = sel.ID
		m.input.SetValue(task.Plain(sel.Text))
		m.input.Focus()
		m.input.CursorEnd()
	case m.cfg.Keys.Clear:
		if m.tasks.Count() == 0 {
			return m, m.pushNote("Nothing to clear", sevInfo)
		}
		m.dialog = dialogClear
	default:
		// Anything else counts as interacting outside the list; an active
		// selection is cleared.
		if m.tasks.SelectedID() != "" {
			m.clearSelection()
		}
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel, "esc":
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		return m.submitAdd()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.debounceGen++
		gen := m.debounceGen
		deb := tea.Tick(debounceDelay, func(time.Time) tea.Msg { return debounceMsg{gen: gen} })
		return m, tea.Batch(cmd, deb)
	}
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if err := task.ValidateText(text); err != nil {
		return m, m.pushNote(validationMessage(err), sevWarning)
	}
	if m.tasks.IsDuplicate(task.Sanitize(strings.TrimSpace(text)), "") {
		return m, m.pushNote("That task already exists", sevWarning)
	}
	t, err := m.tasks.Create(text)
	if err != nil {
		return m, m.pushNote(validationMessage(err), sevWarning)
	}
	m.input.SetValue("")
	m.input.Blur()
	m.mode = modeList
	m.cursor = m.cursorTo(t.ID)
	saveCmd := m.persistNow()
	return m, tea.Batch(saveCmd, m.pushNote(fmt.Sprintf("Added %q", task.Plain(t.Text)), sevSuccess))
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.dialog {
	case dialogDelete:
		switch key {
		case "y", "Y":
			return m.confirmDelete()
		case "n", "N", m.cfg.Keys.Cancel:
			m.dialog = dialogNone
			m.pendingDel = nil
		}
		return m, nil
	case dialogClear:
		switch key {
		case "y", "Y":
			return m.confirmClear()
		case "n", "N", m.cfg.Keys.Cancel:
			m.dialog = dialogNone
		}
		return m, nil
	case dialogEdit:
		switch key {
		case m.cfg.Keys.Cancel, "esc":
			m.dialog = dialogNone
			m.editID = ""
			m.input.SetValue("")
			m.input.Blur()
			return m, nil
		case m.cfg.Keys.Confirm, "enter":
			return m.submitEdit()
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	if m.pendingDel == nil {
		m.dialog = dialogNone
		return m, nil
	}
	t := *m.pendingDel
	m.tasks.Remove(t.ID)
	m.syncOutside()
	m.dialog = dialogNone
	m.pendingDel = nil
	m.cursor = clampCursor(m.cursor, m.tasks.Count())
	saveCmd := m.persistNow()
	return m, tea.Batch(saveCmd, m.pushNote(fmt.Sprintf("Deleted %q", task.Plain(t.Text)), sevSuccess))
}

func (m Model) confirmClear() (tea.Model, tea.Cmd) {
	n := m.tasks.Count()
	m.tasks.Clear()
	m.syncOutside()
	m.dialog = dialogNone
	m.cursor = 0
	saveCmd := m.persistNow()
	return m, tea.Batch(saveCmd, m.pushNote(fmt.Sprintf("Cleared %d tasks", n), sevSuccess))
}

// submitEdit re-validates like the add path. On failure the prompt stays
// open with its text intact, so the edit can be corrected and resubmitted;
// unlike the original, every failure still notifies.
func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if err := task.ValidateText(text); err != nil {
		return m, m.pushNote(validationMessage(err), sevWarning)
	}
	if m.tasks.IsDuplicate(task.Sanitize(strings.TrimSpace(text)), m.editID) {
		return m, m.pushNote("That task already exists", sevWarning)
	}
	if err := m.tasks.Update(m.editID, text); err != nil {
		return m, m.pushNote(validationMessage(err), sevWarning)
	}
	edited := m.editID
	m.dialog = dialogNone
	m.editID = ""
	m.input.SetValue("")
	m.input.Blur()
	m.cursor = m.cursorTo(edited)
	saveCmd := m.persistNow()
	return m, tea.Batch(saveCmd, m.pushNote("Updated task", sevSuccess))
}

// persistNow writes the whole collection before the update cycle returns.
// Failures keep the in-memory state and surface as an error notification.
func (m *Model) persistNow() tea.Cmd {
	if err := m.persist.Save(m.tasks.Tasks()); err != nil {
		return m.pushNote("Could not save tasks, changes kept in memory", sevError)
	}
	return nil
}

func (m *Model) selectTask(id string) {
	if !m.tasks.Select(id) {
		return
	}
	if m.outside == nil {
		m.outside = newOutsideWatch()
	}
}

func (m *Model) clearSelection() {
	m.tasks.Deselect()
	m.syncOutside()
}

// syncOutside disposes the watcher once no task is selected, whatever
// cleared the selection.
func (m *Model) syncOutside() {
	if m.tasks.SelectedID() == "" && m.outside != nil {
		m.outside.dispose()
		m.outside = nil
	}
}

// cursorTask returns the task under the cursor in display order.
func (m Model) cursorTask() (task.Task, bool) {
	sorted := m.tasks.Sorted()
	if len(sorted) == 0 {
		return task.Task{}, false
	}
	return sorted[clampCursor(m.cursor, len(sorted))], true
}

// cursorTo returns the display index of id, falling back to the clamped
// current cursor.
func (m Model) cursorTo(id string) int {
	for i, t := range m.tasks.Sorted() {
		if t.ID == id {
			return i
		}
	}
	return clampCursor(m.cursor, m.tasks.Count())
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, task.ErrTextTooLong):
		return fmt.Sprintf("Task text must be at most %d characters", task.MaxTextLen)
	case errors.Is(err, task.ErrEmptyText):
		return "Task text cannot be empty"
	default:
		return err.Error()
	}
}

func toggleMessage(done bool) string {
	if done {
		return "Task completed"
	}
	return "Task reopened"
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
