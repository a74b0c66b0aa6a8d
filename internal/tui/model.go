package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ezbooks/ezb/internal/controller"
	"github.com/ezbooks/ezb/internal/daterange"
	"github.com/ezbooks/ezb/internal/model"
	"github.com/ezbooks/ezb/internal/tui/components"
	"github.com/ezbooks/ezb/internal/tui/themes"
)

// State represents the current state of the TUI.
type State int

const (
	StateList State = iota
	StateEditing
	StatePicking
	StateConfirmDeleteAll
	StateUploadPrompt
	StateUploadReport
	StateHelp
)

// Model holds the main TUI state. All receipt and selection state
// lives in the list controller; the model only renders it and turns
// key presses into controller calls.
type Model struct {
	list        *controller.ReceiptList
	theme       themes.Theme
	config      Config
	keymap      KeyMap
	table       components.ReceiptTableModel
	editor      components.EditableFieldModel
	datePicker  components.DatePickerModel
	pathInput   textinput.Model
	report      controller.UploadReport
	statusText  string
	width       int
	height      int
	state       State
	statusIsErr bool
	ready       bool
	quitting    bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	opts := []controller.Option{}
	if cfg.DateRange != nil {
		opts = append(opts, controller.WithRange(*cfg.DateRange))
	}

	return Model{
		list:   controller.New(cfg.Backend, opts...),
		state:  StateList,
		config: cfg,
		keymap: DefaultKeyMap(),
		theme:  cfg.Theme,
		table:  components.NewReceiptTable(cfg.Theme),
		width:  cfg.Width,
		height: cfg.Height,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.loadReceipts(),
		m.loadReferences(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			m.list.Close()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case receiptsLoadedMsg:
		m.ready = true
		m.refreshTable()
		if msg.err != nil {
			return m, status(msg.err.Error(), true)
		}
		return m, nil

	case referencesLoadedMsg:
		m.refreshTable()
		if msg.err != nil {
			return m, status("loading references: "+msg.err.Error(), true)
		}
		return m, nil

	case fieldSavedMsg:
		m.refreshTable()
		if msg.err != nil {
			return m, status(msg.err.Error(), true)
		}
		return m, status("saved", false)

	case deleteDoneMsg:
		m.refreshTable()
		if msg.err != nil {
			return m, status(msg.err.Error(), true)
		}
		if msg.count > 0 {
			return m, status(fmt.Sprintf("deleted %d receipt(s)", msg.count), false)
		}
		return m, status("deleted all receipts", false)

	case rangeCommittedMsg:
		m.refreshTable()
		if msg.err != nil {
			return m, status(msg.err.Error(), true)
		}
		return m, nil

	case uploadDoneMsg:
		m.refreshTable()
		// Per-file failures always get the summary screen, even when
		// the post-batch reload also failed.
		if len(msg.report.Failed) > 0 {
			m.report = msg.report
			m.state = StateUploadReport
			if msg.err != nil {
				return m, status(msg.err.Error(), true)
			}
			return m, nil
		}
		m.state = StateList
		if msg.err != nil {
			return m, status(msg.err.Error(), true)
		}
		return m, status(fmt.Sprintf("uploaded %d file(s)", msg.report.SuccessCount), false)

	case statusMsg:
		m.statusText = msg.text
		m.statusIsErr = msg.isError
		return m, nil

	case components.FieldCancelMsg:
		m.state = StateList
		return m, nil

	case components.FieldCommitMsg:
		m.state = StateList
		return m, m.dispatchCommit(msg)

	case components.DateCancelMsg:
		m.state = StateList
		return m, nil

	case components.DateSelectedMsg:
		m.state = StateList
		return m, m.commitBound(msg.Date, msg.Bound)
	}

	switch m.state {
	case StateList:
		return m.updateList(msg)
	case StateEditing:
		return m.updateEditing(msg)
	case StatePicking:
		return m.updatePicking(msg)
	case StateConfirmDeleteAll:
		return m.updateConfirmDeleteAll(msg)
	case StateUploadPrompt:
		return m.updateUploadPrompt(msg)
	case StateUploadReport:
		return m.updateUploadReport(msg)
	case StateHelp:
		return m.updateHelp(msg)
	}
	return m, nil
}

// updateList handles the main list state.
func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	keymap := m.keymap
	switch {
	case key.Matches(keyMsg, keymap.Quit):
		m.quitting = true
		m.list.Close()
		return m, tea.Quit

	case key.Matches(keyMsg, keymap.Help):
		m.state = StateHelp
		return m, nil

	case key.Matches(keyMsg, keymap.Refresh):
		return m, tea.Batch(m.loadReceipts(), m.loadReferences())

	case key.Matches(keyMsg, keymap.ToggleSelect):
		if r, ok := m.table.CursorReceipt(); ok {
			m.list.ToggleSelect(r.ID)
			m.refreshTable()
		}
		return m, nil

	case key.Matches(keyMsg, keymap.SelectAll):
		m.list.SelectAll()
		m.refreshTable()
		return m, nil

	case key.Matches(keyMsg, keymap.DeselectAll):
		m.list.ClearSelection()
		m.refreshTable()
		return m, nil

	case key.Matches(keyMsg, keymap.Delete):
		if len(m.list.Selection()) == 0 {
			return m, status("nothing selected", true)
		}
		return m, m.deleteSelected()

	case key.Matches(keyMsg, keymap.DeleteAll):
		if m.table.Len() == 0 {
			return m, status("no receipts to delete", true)
		}
		m.list.RequestDeleteAll()
		m.state = StateConfirmDeleteAll
		return m, nil

	case key.Matches(keyMsg, keymap.Upload):
		if m.list.IsUploading() {
			return m, status("an upload is already running", true)
		}
		input := textinput.New()
		input.Placeholder = "receipt image paths, space separated"
		input.CharLimit = 512
		input.Width = m.width / 2
		input.Focus()
		m.pathInput = input
		m.state = StateUploadPrompt
		return m, nil

	case key.Matches(keyMsg, keymap.EditDate):
		return m.openEditor(model.FieldDate)
	case key.Matches(keyMsg, keymap.EditVendor):
		return m.openEditor(model.FieldVendorID)
	case key.Matches(keyMsg, keymap.EditCategory):
		return m.openEditor(model.FieldCategory)
	case key.Matches(keyMsg, keymap.EditJob):
		return m.openEditor(model.FieldJobID)
	case key.Matches(keyMsg, keymap.EditAmount):
		return m.openEditor(model.FieldAmount)
	case key.Matches(keyMsg, keymap.EditTax):
		return m.openEditor(model.FieldTaxAmount)

	case key.Matches(keyMsg, keymap.PickStart):
		return m.openPicker(daterange.BoundStart)
	case key.Matches(keyMsg, keymap.PickEnd):
		return m.openPicker(daterange.BoundEnd)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// updateEditing delegates to the inline field editor. Its commit and
// cancel messages come back through Update.
func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// dispatchCommit routes a committed field edit to the right
// controller call.
func (m Model) dispatchCommit(commit components.FieldCommitMsg) tea.Cmd {
	switch commit.Field {
	case model.FieldCategory:
		return m.assignCategory(commit.ReceiptID, commit.Value)
	case model.FieldJobID:
		return m.assignJob(commit.ReceiptID, commit.Value)
	case model.FieldVendorID:
		for _, v := range m.list.Vendors() {
			if strings.EqualFold(v.Name, commit.Value) {
				return m.saveField(commit.ReceiptID, model.FieldVendorID, v.ID)
			}
		}
		return status(fmt.Sprintf("unknown vendor %q", commit.Value), true)
	default:
		return m.saveField(commit.ReceiptID, commit.Field, commit.Value)
	}
}

// updatePicking delegates to the calendar popover. Its selection and
// cancel messages come back through Update.
func (m Model) updatePicking(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.datePicker, cmd = m.datePicker.Update(msg)
	return m, cmd
}

// updateUploadPrompt handles the path entry for a TUI upload.
func (m Model) updateUploadPrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch keyMsg.String() {
		case "esc":
			m.state = StateList
			return m, nil

		case "enter":
			paths := strings.Fields(strings.TrimSpace(m.pathInput.Value()))
			if len(paths) == 0 {
				m.state = StateList
				return m, nil
			}
			m.state = StateList
			return m, tea.Batch(
				status(fmt.Sprintf("uploading %d file(s)...", len(paths)), false),
				m.uploadFiles(paths),
			)
		}
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// updateUploadReport dismisses the failure summary on any key. The
// summary never auto-dismisses; failures require acknowledgement.
func (m Model) updateUploadReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		m.state = StateList
	}
	return m, nil
}

// updateConfirmDeleteAll handles the delete-all confirmation. Only an
// explicit yes proceeds; everything else cancels.
func (m Model) updateConfirmDeleteAll(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.state = StateList
	switch keyMsg.String() {
	case "y", "Y":
		return m, m.confirmDeleteAll()
	default:
		m.list.CancelDeleteAll()
		return m, nil
	}
}

// updateHelp dismisses the help screen on any key.
func (m Model) updateHelp(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		m.state = StateList
	}
	return m, nil
}

// openEditor starts an inline edit of the given field on the cursor
// receipt.
func (m Model) openEditor(field model.ReceiptField) (tea.Model, tea.Cmd) {
	r, ok := m.table.CursorReceipt()
	if !ok {
		return m, status("no receipt under cursor", true)
	}

	var current string
	var suggestions []string
	switch field {
	case model.FieldDate:
		current = r.Date
	case model.FieldVendorID:
		current = m.vendorName(r.VendorID)
		for _, v := range m.list.Vendors() {
			suggestions = append(suggestions, v.Name)
		}
	case model.FieldCategory:
		current = r.Category
		for _, c := range m.list.Categories() {
			suggestions = append(suggestions, c.Name)
		}
	case model.FieldJobID:
		current = m.jobName(r.JobID)
		for _, j := range m.list.Jobs() {
			suggestions = append(suggestions, j.Name)
		}
	case model.FieldAmount:
		current = r.Amount.StringFixed(2)
	case model.FieldTaxAmount:
		current = r.TaxAmount.StringFixed(2)
	}

	m.editor = components.NewEditableField(r.ID, field, current, suggestions, m.theme)
	m.editor.Resize(m.width / 2)
	m.state = StateEditing
	return m, nil
}

// openPicker opens the calendar popover for one range bound.
func (m Model) openPicker(bound daterange.Bound) (tea.Model, tea.Cmd) {
	committed := m.list.Range().Start
	if bound == daterange.BoundEnd {
		committed = m.list.Range().End
	}

	picker := daterange.NewPicker(nil)
	picker.Open(bound, committed)
	m.datePicker = components.NewDatePicker(picker, m.list.YearBounds().Years(), m.theme)
	m.state = StatePicking
	return m, nil
}

// refreshTable re-reads the controller snapshot into the table.
func (m *Model) refreshTable() {
	rows := m.list.Rows()
	selected := make(map[string]bool, len(rows))
	for _, r := range rows {
		if m.list.IsSelected(r.ID) {
			selected[r.ID] = true
		}
	}
	m.table.SetReceipts(rows, selected, m.vendorName, m.jobName)
}

// vendorName resolves a vendor ID for display, falling back to the ID.
func (m Model) vendorName(id string) string {
	for _, v := range m.list.Vendors() {
		if v.ID == id {
			return v.Name
		}
	}
	return id
}

// jobName resolves a job ID for display, falling back to the ID.
func (m Model) jobName(id string) string {
	for _, j := range m.list.Jobs() {
		if j.ID == id {
			return j.Name
		}
	}
	return id
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	m.table.Resize(m.width-2, m.height-5)
	m.editor.Resize(m.width / 2)
	m.datePicker.Resize(28)
}
