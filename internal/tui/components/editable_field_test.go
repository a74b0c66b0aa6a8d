package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezbooks/ezb/internal/model"
	"github.com/ezbooks/ezb/internal/tui/themes"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeString(t *testing.T, m EditableFieldModel, s string) EditableFieldModel {
	t.Helper()
	for _, r := range s {
		m, _ = m.Update(keyRunes(string(r)))
	}
	return m
}

func TestEditableField_CommitNewValue(t *testing.T) {
	m := NewEditableField("r1", model.FieldCategory, "", []string{"Fuel", "Materials"}, themes.Default)
	m = typeString(t, m, "Paint")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(FieldCommitMsg)
	require.True(t, ok)
	assert.Equal(t, "r1", msg.ReceiptID)
	assert.Equal(t, model.FieldCategory, msg.Field)
	assert.Equal(t, "Paint", msg.Value)
	assert.True(t, msg.IsNew, "a name absent from the suggestions is new")
}

func TestEditableField_UnchangedValueCancels(t *testing.T) {
	m := NewEditableField("r1", model.FieldAmount, "12.50", nil, themes.Default)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	_, ok := cmd().(FieldCancelMsg)
	assert.True(t, ok, "committing the original value must not write")
}

func TestEditableField_EscapeCancels(t *testing.T) {
	m := NewEditableField("r1", model.FieldVendorID, "v1", nil, themes.Default)
	m = typeString(t, m, "garbage")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	_, ok := cmd().(FieldCancelMsg)
	assert.True(t, ok)
}

func TestEditableField_SuggestionSelection(t *testing.T) {
	m := NewEditableField("r1", model.FieldCategory, "", []string{"Fuel", "Materials", "Tools"}, themes.Default)
	m = typeString(t, m, "mat")

	require.Equal(t, []string{"Materials"}, m.filtered)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Materials", m.Value())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(FieldCommitMsg)
	require.True(t, ok)
	assert.Equal(t, "Materials", msg.Value)
	assert.False(t, msg.IsNew)
}

func TestEditableField_KnownNameIgnoresCase(t *testing.T) {
	m := NewEditableField("r1", model.FieldCategory, "", []string{"Fuel"}, themes.Default)
	m = typeString(t, m, "fuel")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(FieldCommitMsg)
	require.True(t, ok)
	assert.False(t, msg.IsNew, "case-differing match of an existing name is not new")
}

func TestEditableField_FilterCapsSuggestions(t *testing.T) {
	many := []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"}
	m := NewEditableField("r1", model.FieldCategory, "", many, themes.Default)

	assert.Len(t, m.filtered, maxSuggestions)
}
