package components

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ezbooks/ezb/internal/model"
	"github.com/ezbooks/ezb/internal/tui/themes"
)

// ReceiptTableModel renders the receipt list with a selection column.
// Selection state belongs to the caller; the table only displays it.
type ReceiptTableModel struct {
	theme    themes.Theme
	receipts []model.Receipt
	table    table.Model
	width    int
	height   int
}

// NewReceiptTable creates an empty receipt table.
func NewReceiptTable(theme themes.Theme) ReceiptTableModel {
	t := table.New(
		table.WithColumns(receiptColumns(80)),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	return ReceiptTableModel{
		theme:  theme,
		table:  t,
		width:  80,
		height: 24,
	}
}

func receiptColumns(width int) []table.Column {
	// Fixed columns plus a vendor column that absorbs the slack.
	vendor := width - (3 + 11 + 14 + 14 + 11 + 10 + 12)
	if vendor < 12 {
		vendor = 12
	}
	return []table.Column{
		{Title: " ", Width: 3},
		{Title: "Date", Width: 11},
		{Title: "Vendor", Width: vendor},
		{Title: "Category", Width: 14},
		{Title: "Job", Width: 14},
		{Title: "Amount", Width: 11},
		{Title: "Status", Width: 10},
	}
}

// SetReceipts replaces the table contents. selected marks rows with a
// check, and vendorName/jobName resolve reference IDs for display.
func (m *ReceiptTableModel) SetReceipts(receipts []model.Receipt, selected map[string]bool, vendorName, jobName func(string) string) {
	m.receipts = receipts

	rows := make([]table.Row, 0, len(receipts))
	for _, r := range receipts {
		mark := " "
		if selected[r.ID] {
			mark = "✓"
		}
		rows = append(rows, table.Row{
			mark,
			r.Date,
			vendorName(r.VendorID),
			r.Category,
			jobName(r.JobID),
			"$" + r.Amount.StringFixed(2),
			string(r.Status),
		})
	}
	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// CursorReceipt returns the receipt under the cursor.
func (m ReceiptTableModel) CursorReceipt() (model.Receipt, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.receipts) {
		return model.Receipt{}, false
	}
	return m.receipts[cursor], true
}

// Len returns the number of rows.
func (m ReceiptTableModel) Len() int { return len(m.receipts) }

// Resize adjusts the table to the given size.
func (m *ReceiptTableModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(receiptColumns(width))
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}

// Update handles messages.
func (m ReceiptTableModel) Update(msg tea.Msg) (ReceiptTableModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m ReceiptTableModel) View() string {
	return m.table.View()
}
