package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezbooks/ezb/internal/daterange"
	"github.com/ezbooks/ezb/internal/tui/themes"
)

func openPicker(bound daterange.Bound, committed string) daterange.Picker {
	now := func() time.Time {
		return time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC)
	}
	p := daterange.NewPicker(now)
	p.Open(bound, committed)
	return p
}

func TestDatePicker_SelectDay(t *testing.T) {
	dp := NewDatePicker(openPicker(daterange.BoundStart, "2024-02-01"), []int{2023, 2024}, themes.Default)

	for i := 0; i < 9; i++ {
		dp, _ = dp.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	}

	_, cmd := dp.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(DateSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "2024-02-10", msg.Date)
	assert.Equal(t, daterange.BoundStart, msg.Bound)
}

func TestDatePicker_CursorClampsToMonth(t *testing.T) {
	dp := NewDatePicker(openPicker(daterange.BoundEnd, "2024-02-01"), nil, themes.Default)

	dp, _ = dp.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	assert.Equal(t, 1, dp.cursorDay, "moving left of day 1 stays on day 1")

	for i := 0; i < 40; i++ {
		dp, _ = dp.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	}
	assert.Equal(t, 29, dp.cursorDay, "2024 is a leap year")
}

func TestDatePicker_MonthAndYearMoves(t *testing.T) {
	dp := NewDatePicker(openPicker(daterange.BoundStart, "2024-01-31"), nil, themes.Default)
	dp.cursorDay = 31

	dp, _ = dp.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	year, month := dp.picker.Cursor()
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.February, month)
	assert.Equal(t, 29, dp.cursorDay, "cursor clamps after the month move")

	dp, _ = dp.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("J")})
	year, _ = dp.picker.Cursor()
	assert.Equal(t, 2023, year)
	assert.Equal(t, 28, dp.cursorDay)
}

func TestDatePicker_EscapeCancels(t *testing.T) {
	dp := NewDatePicker(openPicker(daterange.BoundStart, ""), nil, themes.Default)

	_, cmd := dp.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	_, ok := cmd().(DateCancelMsg)
	assert.True(t, ok)
}

func TestDatePicker_ViewShowsMonthAndWeekHeader(t *testing.T) {
	dp := NewDatePicker(openPicker(daterange.BoundStart, "2024-02-01"), nil, themes.Default)

	view := dp.View()
	assert.True(t, strings.Contains(view, "February 2024"))
	assert.True(t, strings.Contains(view, "Su Mo Tu We Th Fr Sa"))
}
