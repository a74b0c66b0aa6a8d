package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ezbooks/ezb/internal/model"
	"github.com/ezbooks/ezb/internal/tui/themes"
)

// maxSuggestions caps the number of suggestion rows rendered under the input.
const maxSuggestions = 6

// FieldCommitMsg is sent when an edit is committed with a changed value.
type FieldCommitMsg struct {
	ReceiptID string
	Value     string
	Field     model.ReceiptField
	IsNew     bool
}

// FieldCancelMsg is sent when an edit ends without a change, either
// because it was abandoned or the committed value equals the original.
type FieldCancelMsg struct{}

// EditableFieldModel is an inline cell editor. It shows a text input
// seeded with the current value and, for reference fields, a filtered
// suggestion list. Committing a value not in the list marks it as new
// so the caller can create the entity before attaching it.
type EditableFieldModel struct {
	theme       themes.Theme
	receiptID   string
	original    string
	suggestions []string
	filtered    []string
	input       textinput.Model
	field       model.ReceiptField
	cursor      int
	width       int
}

// NewEditableField creates an editor for one field of one receipt.
// suggestions may be nil for free-form fields like amount or date.
func NewEditableField(receiptID string, field model.ReceiptField, current string, suggestions []string, theme themes.Theme) EditableFieldModel {
	input := textinput.New()
	input.SetValue(current)
	input.CursorEnd()
	input.CharLimit = 80
	input.Focus()

	m := EditableFieldModel{
		receiptID:   receiptID,
		field:       field,
		original:    current,
		suggestions: suggestions,
		input:       input,
		theme:       theme,
		cursor:      -1,
		width:       40,
	}
	m.refilter()
	return m
}

// Resize sets the editor width.
func (m *EditableFieldModel) Resize(width int) {
	m.width = width
	m.input.Width = width - 4
}

// Value returns the current input text.
func (m EditableFieldModel) Value() string {
	return m.input.Value()
}

// Update handles messages.
func (m EditableFieldModel) Update(msg tea.Msg) (EditableFieldModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		return m, func() tea.Msg { return FieldCancelMsg{} }

	case "up":
		if len(m.filtered) > 0 {
			if m.cursor <= 0 {
				m.cursor = len(m.filtered) - 1
			} else {
				m.cursor--
			}
		}
		return m, nil

	case "down":
		if len(m.filtered) > 0 {
			m.cursor = (m.cursor + 1) % len(m.filtered)
		}
		return m, nil

	case "tab":
		// Complete the highlighted suggestion without committing.
		if m.cursor >= 0 && m.cursor < len(m.filtered) {
			m.input.SetValue(m.filtered[m.cursor])
			m.input.CursorEnd()
			m.refilter()
		}
		return m, nil

	case "enter":
		return m, m.commit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.cursor = -1
	m.refilter()
	return m, cmd
}

// commit resolves the final value and emits the commit or cancel message.
func (m EditableFieldModel) commit() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())
	if m.cursor >= 0 && m.cursor < len(m.filtered) {
		value = m.filtered[m.cursor]
	}

	if value == strings.TrimSpace(m.original) {
		return func() tea.Msg { return FieldCancelMsg{} }
	}

	msg := FieldCommitMsg{
		ReceiptID: m.receiptID,
		Field:     m.field,
		Value:     value,
		IsNew:     len(m.suggestions) > 0 && !m.knownSuggestion(value),
	}
	return func() tea.Msg { return msg }
}

// knownSuggestion reports whether value matches a suggestion,
// ignoring case.
func (m EditableFieldModel) knownSuggestion(value string) bool {
	for _, s := range m.suggestions {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

// refilter recomputes the suggestion list for the current input.
func (m *EditableFieldModel) refilter() {
	m.filtered = m.filtered[:0]
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	for _, s := range m.suggestions {
		if query == "" || strings.Contains(strings.ToLower(s), query) {
			m.filtered = append(m.filtered, s)
		}
		if len(m.filtered) == maxSuggestions {
			break
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
}

// View renders the editor.
func (m EditableFieldModel) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())

	for i, s := range m.filtered {
		b.WriteString("\n")
		if i == m.cursor {
			b.WriteString(m.theme.Selected.Render("▸ " + s))
		} else {
			b.WriteString(m.theme.Normal.Render("  " + s))
		}
	}

	value := strings.TrimSpace(m.input.Value())
	if len(m.suggestions) > 0 && value != "" && !m.knownSuggestion(value) {
		hint := lipgloss.NewStyle().Foreground(m.theme.Muted).
			Render("  enter creates \"" + value + "\"")
		b.WriteString("\n" + hint)
	}

	return m.theme.BorderedBox.Width(m.width).Render(b.String())
}
