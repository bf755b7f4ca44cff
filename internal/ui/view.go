package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pado/internal/config"
	"pado/internal/task"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("57"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Strikethrough(true)

	counterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	noteInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	noteSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	noteWarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	noteErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// View is a pure projection of the model: every frame rebuilds the whole
// screen from store state.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("pado"))
	b.WriteString("\n\n")

	if notes := m.renderNotes(); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	}

	if m.tasks.Count() == 0 {
		b.WriteString(emptyStyle.Render("No tasks yet. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderCounters())
	b.WriteString("\n")

	switch {
	case m.dialog == dialogDelete && m.pendingDel != nil:
		b.WriteString(fmt.Sprintf("Delete %q? y/n", task.Plain(m.pendingDel.Text)))
		b.WriteString("\n")
	case m.dialog == dialogClear:
		b.WriteString(fmt.Sprintf("Clear all %d tasks? y/n", m.tasks.Count()))
		b.WriteString("\n")
	case m.dialog == dialogEdit:
		b.WriteString("Edit task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case m.mode == modeAdd:
		b.WriteString(m.renderAddLine())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))

	return b.String()
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	selected := m.tasks.SelectedID()
	for i, t := range m.tasks.Sorted() {
		cursor := " "
		if m.cursor == i && m.mode == modeList && m.dialog == dialogNone {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}

		row := fmt.Sprintf("%s %s %s", cursor, checkbox, task.Plain(t.Text))
		switch {
		case t.ID == selected:
			row = selectedStyle.Render(row)
		case t.Completed:
			row = doneStyle.Render(row)
		}

		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCounters() string {
	total := m.tasks.Count()
	done := m.tasks.CompletedCount()
	return counterStyle.Render(
		fmt.Sprintf("%d total • %d done • %d%% complete", total, done, m.tasks.CompletedPercent()))
}

func (m Model) renderAddLine() string {
	label := "Add task: "
	if m.addDisabled {
		label = disabledStyle.Render(fmt.Sprintf("Add task (1-%d chars): ", task.MaxTextLen))
	}
	return label + m.input.View()
}

func (m Model) renderNotes() string {
	var b strings.Builder
	for _, n := range m.notes {
		if !n.visible && !n.leaving {
			continue
		}
		st := noteStyle(n.sev)
		if n.leaving {
			st = st.Faint(true)
		}
		b.WriteString(st.Render(n.text))
		b.WriteString("\n")
	}
	return b.String()
}

func noteStyle(sev severity) lipgloss.Style {
	switch sev {
	case sevSuccess:
		return noteSuccessStyle
	case sevWarning:
		return noteWarningStyle
	case sevError:
		return noteErrorStyle
	default:
		return noteInfoStyle
	}
}

func renderHelp(k config.Keymap) string {
	return helpStyle.Render(
		fmt.Sprintf("%s/%s move • %s add • %s select • %s toggle • %s edit • %s delete • %s clear all • %s quit",
			k.Up, k.Down, k.Add, k.Select, k.Toggle, k.Edit, k.Delete, k.Clear, k.Quit))
}
