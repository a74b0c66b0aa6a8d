package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ezbooks/ezb/internal/controller"
	"github.com/ezbooks/ezb/internal/daterange"
	"github.com/ezbooks/ezb/internal/model"
	"github.com/ezbooks/ezb/internal/service"
)

const (
	loadTimeout = 30 * time.Second
	saveTimeout = 10 * time.Second
)

// loadReceipts reloads the list for the committed range.
func (m Model) loadReceipts() tea.Cmd {
	list := m.list
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return receiptsLoadedMsg{err: list.Load(ctx)}
	}
}

// loadReferences loads vendors, categories, jobs, and cards.
func (m Model) loadReferences() tea.Cmd {
	list := m.list
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return referencesLoadedMsg{err: list.LoadReferences(ctx)}
	}
}

// saveField persists one edited field.
func (m Model) saveField(receiptID string, field model.ReceiptField, value string) tea.Cmd {
	list := m.list
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return fieldSavedMsg{err: list.UpdateField(ctx, receiptID, field, value)}
	}
}

// assignCategory attaches a category by name, creating it first when
// the name is unknown.
func (m Model) assignCategory(receiptID, name string) tea.Cmd {
	list := m.list
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return fieldSavedMsg{err: list.AssignCategory(ctx, receiptID, name)}
	}
}

// assignJob attaches a job by name, creating it first when the name is
// unknown.
func (m Model) assignJob(receiptID, name string) tea.Cmd {
	list := m.list
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return fieldSavedMsg{err: list.AssignJob(ctx, receiptID, name)}
	}
}

// deleteSelected removes every selected receipt in one call.
func (m Model) deleteSelected() tea.Cmd {
	list := m.list
	count := len(list.Selection())
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return deleteDoneMsg{err: list.DeleteSelected(ctx), count: count}
	}
}

// confirmDeleteAll runs the confirmed delete-all.
func (m Model) confirmDeleteAll() tea.Cmd {
	list := m.list
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return deleteDoneMsg{err: list.ConfirmDeleteAll(ctx)}
	}
}

// uploadFiles opens each path and sends the batch through the
// controller. A path that cannot be opened becomes a per-file failure
// in the report alongside any upload failures.
func (m Model) uploadFiles(paths []string) tea.Cmd {
	list := m.list
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		var files []controller.UploadFile
		var unopenable []controller.FileError
		var handles []*os.File
		defer func() {
			for _, h := range handles {
				_ = h.Close()
			}
		}()

		for _, path := range paths {
			f, err := os.Open(path)
			if err != nil {
				unopenable = append(unopenable, controller.FileError{
					Name:    filepath.Base(path),
					Message: err.Error(),
				})
				continue
			}
			handles = append(handles, f)
			files = append(files, controller.UploadFile{Name: filepath.Base(path), Content: f})
		}

		report, err := list.Upload(ctx, files, service.UploadFields{})
		report.Failed = append(unopenable, report.Failed...)
		return uploadDoneMsg{report: report, err: err}
	}
}

// commitBound moves one end of the date range and reloads.
func (m Model) commitBound(date string, bound daterange.Bound) tea.Cmd {
	list := m.list
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		if bound == daterange.BoundStart {
			return rangeCommittedMsg{err: list.CommitStart(ctx, date)}
		}
		return rangeCommittedMsg{err: list.CommitEnd(ctx, date)}
	}
}

// status emits a transient status line message.
func status(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}
