package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ezbooks/ezb/internal/daterange"
	"github.com/ezbooks/ezb/internal/tui/themes"
)

// DateSelectedMsg is sent when a day is committed in the calendar.
type DateSelectedMsg struct {
	Date  string
	Bound daterange.Bound
}

// DateCancelMsg is sent when the calendar is dismissed without a pick.
type DateCancelMsg struct{}

// DatePickerModel renders an open calendar popover and moves a day
// cursor over its grid. Month and year movement is delegated to the
// underlying picker so the commit rules live in one place.
type DatePickerModel struct {
	theme     themes.Theme
	picker    daterange.Picker
	years     []int
	cursorDay int
	width     int
}

// NewDatePicker wraps an already-open picker. years is the selectable
// year span shown in the header.
func NewDatePicker(picker daterange.Picker, years []int, theme themes.Theme) DatePickerModel {
	m := DatePickerModel{
		picker:    picker,
		years:     years,
		theme:     theme,
		cursorDay: 1,
		width:     24,
	}
	if now := time.Now(); sameCursorMonth(picker, now) {
		m.cursorDay = now.Day()
	}
	return m
}

func sameCursorMonth(p daterange.Picker, t time.Time) bool {
	year, month := p.Cursor()
	return year == t.Year() && month == t.Month()
}

// Resize sets the popover width.
func (m *DatePickerModel) Resize(width int) {
	m.width = width
}

// Update handles messages.
func (m DatePickerModel) Update(msg tea.Msg) (DatePickerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		m.picker.Close()
		return m, func() tea.Msg { return DateCancelMsg{} }

	case "left", "h":
		m.moveDay(-1)
	case "right", "l":
		m.moveDay(1)
	case "up", "k":
		m.moveDay(-7)
	case "down", "j":
		m.moveDay(7)

	case "pgup", "H":
		m.picker.PrevMonth()
		m.clampDay()
	case "pgdown", "L":
		m.picker.NextMonth()
		m.clampDay()

	case "K":
		year, _ := m.picker.Cursor()
		m.picker.SetYear(year + 1)
		m.clampDay()
	case "J":
		year, _ := m.picker.Cursor()
		m.picker.SetYear(year - 1)
		m.clampDay()

	case "enter":
		if date, bound, ok := m.picker.SelectDay(m.cursorDay); ok {
			return m, func() tea.Msg { return DateSelectedMsg{Date: date, Bound: bound} }
		}
	}

	return m, nil
}

// moveDay shifts the day cursor, clamping to the cursor month.
func (m *DatePickerModel) moveDay(delta int) {
	year, month := m.picker.Cursor()
	day := m.cursorDay + delta
	if day < 1 {
		day = 1
	}
	if max := daterange.DaysInMonth(year, month); day > max {
		day = max
	}
	m.cursorDay = day
}

// clampDay keeps the cursor valid after a month or year move.
func (m *DatePickerModel) clampDay() {
	m.moveDay(0)
}

// View renders the calendar grid with a Sunday-first week header.
func (m DatePickerModel) View() string {
	year, month := m.picker.Cursor()

	title := fmt.Sprintf("%s %d", month.String(), year)
	if m.picker.Bound() == daterange.BoundStart {
		title += "  (from)"
	} else {
		title += "  (to)"
	}

	var b strings.Builder
	b.WriteString(m.theme.Bold.Render(title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Su Mo Tu We Th Fr Sa"))

	for i, day := range m.picker.Grid() {
		if i%7 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
		if day == 0 {
			b.WriteString("  ")
			continue
		}
		cell := fmt.Sprintf("%2d", day)
		if day == m.cursorDay {
			b.WriteString(m.theme.Selected.Render(cell))
		} else {
			b.WriteString(m.theme.Normal.Render(cell))
		}
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Muted).
		Render("←→↑↓ day  H/L month  J/K year  enter pick"))

	return m.theme.BorderedBox.Width(m.width).Render(b.String())
}
