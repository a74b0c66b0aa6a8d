// Package controller owns the receipt collection shown to the user:
// the loaded rows, the selection set, the committed date range, and
// every mutation against them. Nothing else touches this state; the
// TUI and the commands drive it through these methods.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ezbooks/ezb/internal/daterange"
	"github.com/ezbooks/ezb/internal/model"
	"github.com/ezbooks/ezb/internal/service"
)

// LoadState is the lifecycle of the receipt list.
type LoadState int

// Load states.
const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateErrored
)

// ReceiptList is the receipt table controller. All methods are safe
// for concurrent use; async completions that arrive after the
// controller is closed, or after a newer reload started, are
// discarded rather than applied.
type ReceiptList struct {
	backend service.Backend
	now     func() time.Time

	mu         sync.Mutex
	rows       []model.Receipt
	selected   map[string]bool
	dateRange  daterange.Range
	yearBounds daterange.YearBounds
	categories []model.Category
	jobs       []model.Job
	vendors    []model.Vendor
	cards      []model.Card
	state      LoadState
	lastErr    error
	loadGen    uint64
	loaded     bool
	uploading  bool
	deleting   bool
	confirming bool
	closed     bool
}

// Option configures a ReceiptList.
type Option func(*ReceiptList)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *ReceiptList) { l.now = now }
}

// WithRange overrides the initial committed date range.
func WithRange(r daterange.Range) Option {
	return func(l *ReceiptList) { l.dateRange = r }
}

// New creates a controller with the default range of "first of the
// current month through today".
func New(backend service.Backend, opts ...Option) *ReceiptList {
	l := &ReceiptList{
		backend:  backend,
		now:      time.Now,
		selected: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.dateRange == (daterange.Range{}) {
		l.dateRange = daterange.CurrentMonthToToday(l.now())
	}
	l.yearBounds = daterange.NewYearBounds(l.now())

	return l
}

// Close marks the controller inactive. In-flight results resolving
// after this point are dropped instead of mutating state nobody is
// displaying.
func (l *ReceiptList) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// Rows returns a copy of the currently loaded receipts.
func (l *ReceiptList) Rows() []model.Receipt {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows := make([]model.Receipt, len(l.rows))
	copy(rows, l.rows)
	return rows
}

// State returns the load state.
func (l *ReceiptList) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the current banner error, or nil.
func (l *ReceiptList) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// DismissError clears the banner. Rows are untouched; a dismissed
// load failure leaves the list in its last good state.
func (l *ReceiptList) DismissError() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastErr = nil
	if l.state == StateErrored {
		if l.loaded {
			l.state = StateLoaded
		} else {
			l.state = StateIdle
		}
	}
}

// Range returns the committed date range.
func (l *ReceiptList) Range() daterange.Range {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dateRange
}

// YearBounds returns the observed year bounds across all receipts
// seen this session.
func (l *ReceiptList) YearBounds() daterange.YearBounds {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.yearBounds
}

// CommitStart commits a new start bound (snapping the end if needed)
// and reloads.
func (l *ReceiptList) CommitStart(ctx context.Context, date string) error {
	l.mu.Lock()
	l.dateRange.SetStart(date)
	l.mu.Unlock()
	return l.Load(ctx)
}

// CommitEnd commits a new end bound (snapping the start if needed)
// and reloads.
func (l *ReceiptList) CommitEnd(ctx context.Context, date string) error {
	l.mu.Lock()
	l.dateRange.SetEnd(date)
	l.mu.Unlock()
	return l.Load(ctx)
}

// Load fetches the receipt list for the committed range. A failed
// reload keeps whatever rows were already loaded: transient network
// trouble must not blank the table. Each call supersedes any reload
// still in flight; the superseded completion is discarded when it
// eventually resolves.
func (l *ReceiptList) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.loadGen++
	gen := l.loadGen
	r := l.dateRange
	l.state = StateLoading
	l.mu.Unlock()

	rows, err := l.backend.ListReceipts(ctx, r.Start, r.End)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.loadGen {
		slog.Debug("Discarding superseded receipt load", "generation", gen)
		return nil
	}

	if err != nil {
		l.lastErr = fmt.Errorf("failed to load receipts: %w", err)
		l.state = StateErrored
		return l.lastErr
	}

	l.rows = rows
	l.loaded = true
	l.state = StateLoaded
	l.lastErr = nil
	l.pruneSelectionLocked()
	l.observeYearsLocked(rows)

	return nil
}

// ReconcileWithServer discards any optimistic local state in favor of
// a fresh server copy. This is the single rollback mechanism after a
// failed mutation; there is no per-field undo.
func (l *ReceiptList) ReconcileWithServer(ctx context.Context) error {
	return l.Load(ctx)
}

// ToggleSelect flips one row's membership in the selection set.
// Unknown ids are ignored.
func (l *ReceiptList) ToggleSelect(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasRowLocked(id) {
		return
	}
	if l.selected[id] {
		delete(l.selected, id)
	} else {
		l.selected[id] = true
	}
}

// SelectAll sets the selection to exactly the loaded row ids. It is
// not sticky: rows outside the current page are never selected.
func (l *ReceiptList) SelectAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.selected = make(map[string]bool, len(l.rows))
	for _, row := range l.rows {
		l.selected[row.ID] = true
	}
}

// ClearSelection empties the selection set.
func (l *ReceiptList) ClearSelection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = make(map[string]bool)
}

// IsSelected reports one row's selection state.
func (l *ReceiptList) IsSelected(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected[id]
}

// Selection returns the selected ids in a stable order.
func (l *ReceiptList) Selection() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(l.selected))
	for id := range l.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DeleteSelected deletes the selected receipts in one call, then
// reloads and clears the selection. An empty selection is a no-op.
// From the client's point of view the delete is atomic: on error the
// rows and selection are left untouched.
func (l *ReceiptList) DeleteSelected(ctx context.Context) error {
	l.mu.Lock()
	if l.deleting || len(l.selected) == 0 {
		l.mu.Unlock()
		return nil
	}
	l.deleting = true
	ids := make([]string, 0, len(l.selected))
	for id := range l.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	l.mu.Unlock()

	// A single row uses the single-receipt endpoint; only real
	// batches go through the bulk delete.
	var err error
	if len(ids) == 1 {
		err = l.backend.DeleteReceipt(ctx, ids[0])
	} else {
		err = l.backend.DeleteReceipts(ctx, ids)
	}

	l.mu.Lock()
	l.deleting = false
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	if err != nil {
		l.lastErr = fmt.Errorf("failed to delete receipts: %w", err)
		l.mu.Unlock()
		return l.lastErr
	}
	l.selected = make(map[string]bool)
	l.mu.Unlock()

	return l.Load(ctx)
}

// RequestDeleteAll arms the two-step delete-all commit. Nothing is
// deleted until ConfirmDeleteAll.
func (l *ReceiptList) RequestDeleteAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirming = true
}

// CancelDeleteAll disarms a pending delete-all.
func (l *ReceiptList) CancelDeleteAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirming = false
}

// ConfirmingDeleteAll reports whether delete-all awaits confirmation.
func (l *ReceiptList) ConfirmingDeleteAll() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.confirming
}

// ConfirmDeleteAll executes a previously requested delete-all, then
// reloads and clears the selection. Calling it without a pending
// request is an error: the confirmation step is not skippable.
func (l *ReceiptList) ConfirmDeleteAll(ctx context.Context) error {
	l.mu.Lock()
	if !l.confirming {
		l.mu.Unlock()
		return fmt.Errorf("delete all was not requested")
	}
	if l.deleting {
		l.mu.Unlock()
		return nil
	}
	l.confirming = false
	l.deleting = true
	l.mu.Unlock()

	err := l.backend.DeleteAllReceipts(ctx)

	l.mu.Lock()
	l.deleting = false
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	if err != nil {
		l.lastErr = fmt.Errorf("failed to delete all receipts: %w", err)
		l.mu.Unlock()
		return l.lastErr
	}
	l.selected = make(map[string]bool)
	l.mu.Unlock()

	return l.Load(ctx)
}

// hasRowLocked reports whether a row id is currently loaded.
// Callers hold l.mu.
func (l *ReceiptList) hasRowLocked(id string) bool {
	for _, row := range l.rows {
		if row.ID == id {
			return true
		}
	}
	return false
}

// pruneSelectionLocked drops selected ids that no longer exist after
// a reload. Callers hold l.mu.
func (l *ReceiptList) pruneSelectionLocked() {
	for id := range l.selected {
		if !l.hasRowLocked(id) {
			delete(l.selected, id)
		}
	}
}

// observeYearsLocked widens the session year bounds with the freshly
// loaded dates. Callers hold l.mu.
func (l *ReceiptList) observeYearsLocked(rows []model.Receipt) {
	dates := make([]string, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row.Date)
	}
	l.yearBounds.Observe(dates)
}
