package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return m.renderLoading()
	}

	if m.quitting {
		return ""
	}

	switch m.state {
	case StateHelp:
		return m.renderHelp()
	case StateEditing:
		return m.renderOverlay(m.editor.View())
	case StatePicking:
		return m.renderOverlay(m.datePicker.View())
	case StateConfirmDeleteAll:
		return m.renderOverlay(m.renderDeleteAllPrompt())
	case StateUploadPrompt:
		return m.renderOverlay(m.renderUploadPrompt())
	case StateUploadReport:
		return m.renderOverlay(m.renderUploadReport())
	}

	return m.renderList()
}

// renderLoading renders the loading screen.
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("ezb"),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Loading receipts..."),
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// renderList renders the main receipt table with the status bar.
func (m Model) renderList() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.table.View(),
		m.renderStatusBar(),
	)
}

// renderOverlay centers a popover over the dimmed list.
func (m Model) renderOverlay(popover string) string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		popover,
	)
}

// renderDeleteAllPrompt renders the delete-all confirmation box.
func (m Model) renderDeleteAllPrompt() string {
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.StatusWarning.Render("Delete ALL receipts?"),
		"",
		m.theme.Normal.Render("This removes every receipt on the server,"),
		m.theme.Normal.Render("not just the loaded date range."),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("y confirms, any other key cancels"),
	)
	return m.theme.BorderedBox.Width(46).Render(body)
}

// renderUploadPrompt renders the path entry box for a TUI upload.
func (m Model) renderUploadPrompt() string {
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Bold.Render("Upload receipts"),
		"",
		m.pathInput.View(),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("enter uploads, esc cancels"),
	)
	return m.theme.BorderedBox.Width(m.width/2 + 4).Render(body)
}

// renderUploadReport renders the batch failure summary.
func (m Model) renderUploadReport() string {
	lines := []string{
		m.theme.StatusWarning.Render("Upload finished with failures"),
		"",
		m.theme.Normal.Render(fmt.Sprintf("%d uploaded, %d failed", m.report.SuccessCount, len(m.report.Failed))),
		"",
	}
	for _, f := range m.report.Failed {
		lines = append(lines, m.theme.StatusError.Render("  ✗ "+f.Name)+
			m.theme.Normal.Render(": "+f.Message))
	}
	lines = append(lines, "",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("press any key to continue"))

	return m.theme.BorderedBox.Width(60).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderStatusBar renders the bottom status bar: range on the left,
// selection and transient status in the middle, help hint on the right.
func (m Model) renderStatusBar() string {
	r := m.list.Range()
	left := fmt.Sprintf("%s … %s", r.Start, r.End)

	var center string
	if n := len(m.list.Selection()); n > 0 {
		center = fmt.Sprintf("%d selected", n)
	}
	if m.statusText != "" {
		if center != "" {
			center += "  "
		}
		if m.statusIsErr {
			center += m.theme.StatusError.Render(m.statusText)
		} else {
			center += m.theme.StatusSuccess.Render(m.statusText)
		}
	}

	right := "? Help"

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right) - 2
	if spacing < 2 {
		spacing = 2
	}
	leftPad := spacing / 2
	rightPad := spacing - leftPad

	return m.theme.Normal.
		Width(m.width).
		MaxWidth(m.width).
		Render(m.theme.StatusInfo.Render(left) +
			strings.Repeat(" ", leftPad) +
			center +
			strings.Repeat(" ", rightPad) +
			lipgloss.NewStyle().Foreground(m.theme.Muted).Render(right))
}

// renderHelp renders the help screen.
func (m Model) renderHelp() string {
	title := m.theme.Title.Render("ezb - Help")

	sections := []struct {
		title string
		items []string
	}{
		{
			"Navigation",
			[]string{
				"↑/k, ↓/j    Move up/down",
				"PgUp/PgDn   Page up/down",
			},
		},
		{
			"Selection",
			[]string{
				"x/Space     Toggle selection",
				"Ctrl+A      Select all",
				"Ctrl+D      Deselect all",
			},
		},
		{
			"Editing",
			[]string{
				"e           Edit date",
				"v           Edit vendor",
				"c           Edit category",
				"o           Edit job",
				"a           Edit amount",
				"t           Edit tax",
			},
		},
		{
			"Receipts",
			[]string{
				"u           Upload files",
				"d           Delete selected",
				"D           Delete all",
				"r           Refresh",
				"[, ]        Pick range start/end",
			},
		},
		{
			"Application",
			[]string{
				"?           Toggle help",
				"q           Quit",
				"Ctrl+C      Force quit",
			},
		},
	}

	var content []string
	for _, section := range sections {
		content = append(content, m.theme.Subtitle.Render(section.title))

		for _, item := range section.items {
			parts := strings.SplitN(item, "  ", 2)
			if len(parts) == 2 {
				line := fmt.Sprintf("  %-12s %s",
					lipgloss.NewStyle().Foreground(m.theme.Primary).Render(parts[0]),
					m.theme.Normal.Render(strings.TrimSpace(parts[1])),
				)
				content = append(content, line)
			}
		}
		content = append(content, "")
	}

	footer := lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Press any key to close help")

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.theme.BorderedBox.
			Width(50).
			MaxHeight(m.height-2).
			Render(lipgloss.JoinVertical(
				lipgloss.Left,
				title,
				"",
				lipgloss.JoinVertical(lipgloss.Left, content...),
				footer,
			)),
	)
}
