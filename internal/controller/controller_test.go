package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezbooks/ezb/internal/daterange"
	"github.com/ezbooks/ezb/internal/model"
	"github.com/ezbooks/ezb/internal/testutil"
)

func fixedClock() time.Time {
	return time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC)
}

func januaryReceipts() []model.Receipt {
	return []model.Receipt{
		{ID: "r1", Date: "2024-01-05", Category: "Fuel", Status: model.StatusProcessed},
		{ID: "r2", Date: "2024-01-10", Category: "Meals", Status: model.StatusProcessed},
		{ID: "r3", Date: "2024-01-15", Status: model.StatusPending},
	}
}

func newLoaded(t *testing.T, backend *testutil.FakeBackend) *ReceiptList {
	t.Helper()
	list := New(backend, WithClock(fixedClock),
		WithRange(daterange.Range{Start: "2024-01-01", End: "2024-01-31"}))
	require.NoError(t, list.Load(context.Background()))
	return list
}

func TestReceiptList_DefaultRangeIsMonthToToday(t *testing.T) {
	list := New(testutil.NewFakeBackend(), WithClock(fixedClock))
	assert.Equal(t, daterange.Range{Start: "2024-01-01", End: "2024-01-20"}, list.Range())
	assert.Equal(t, StateIdle, list.State())
}

func TestReceiptList_LoadPopulatesRows(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()

	list := newLoaded(t, backend)

	assert.Equal(t, StateLoaded, list.State())
	assert.Len(t, list.Rows(), 3)
	assert.Equal(t, []string{"ListReceipts(2024-01-01,2024-01-31)"}, backend.CallTrace())
}

func TestReceiptList_FailedReloadKeepsPriorRows(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()
	list := newLoaded(t, backend)

	backend.FailList = errors.New("gateway timeout")
	err := list.Load(context.Background())
	require.Error(t, err)

	// The table must not flicker to empty on a transient failure.
	assert.Equal(t, StateErrored, list.State())
	assert.Len(t, list.Rows(), 3)
	require.Error(t, list.Err())

	list.DismissError()
	assert.NoError(t, list.Err())
	assert.Equal(t, StateLoaded, list.State())
	assert.Len(t, list.Rows(), 3)
}

func TestReceiptList_CommitRangeSnapsAndReloads(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()
	list := newLoaded(t, backend)

	// Moving the start past the end snaps the end to match.
	require.NoError(t, list.CommitStart(context.Background(), "2024-02-10"))
	assert.Equal(t, daterange.Range{Start: "2024-02-10", End: "2024-02-10"}, list.Range())

	trace := backend.CallTrace()
	assert.Equal(t, "ListReceipts(2024-02-10,2024-02-10)", trace[len(trace)-1])
	assert.Empty(t, list.Rows())
}

func TestReceiptList_SupersededReloadIsDiscarded(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()
	backend.ListBarrier = make(chan struct{})

	list := New(backend, WithClock(fixedClock),
		WithRange(daterange.Range{Start: "2024-01-01", End: "2024-01-31"}))

	firstDone := make(chan error, 1)
	go func() { firstDone <- list.Load(context.Background()) }()

	// Let the first fetch get registered, then start a second that
	// supersedes it while the first is still blocked.
	secondDone := make(chan error, 1)
	go func() {
		for len(backend.CallTrace()) == 0 {
			time.Sleep(time.Millisecond)
		}
		secondDone <- list.CommitEnd(context.Background(), "2024-01-10")
	}()

	go func() {
		for len(backend.CallTrace()) < 2 {
			time.Sleep(time.Millisecond)
		}
		// Release the second fetch first, then the stale one.
		backend.ListBarrier <- struct{}{}
		backend.ListBarrier <- struct{}{}
	}()

	require.NoError(t, <-secondDone)
	require.NoError(t, <-firstDone)

	// Only r1 and r2 fall in the narrowed range; the stale full-month
	// result must not have overwritten them.
	rows := list.Rows()
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"r1", "r2"}, ids)
}

func TestReceiptList_ResultsAfterCloseAreDiscarded(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()
	backend.ListBarrier = make(chan struct{}, 1)

	list := New(backend, WithClock(fixedClock))

	done := make(chan error, 1)
	go func() { done <- list.Load(context.Background()) }()

	for len(backend.CallTrace()) == 0 {
		time.Sleep(time.Millisecond)
	}
	list.Close()
	backend.ListBarrier <- struct{}{}

	require.NoError(t, <-done)
	assert.Empty(t, list.Rows())
}

func TestReceiptList_SelectionLifecycle(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()
	list := newLoaded(t, backend)

	list.ToggleSelect("r1")
	list.ToggleSelect("r3")
	list.ToggleSelect("nope") // unknown ids are ignored
	assert.Equal(t, []string{"r1", "r3"}, list.Selection())

	list.ToggleSelect("r1")
	assert.Equal(t, []string{"r3"}, list.Selection())

	list.SelectAll()
	assert.Equal(t, []string{"r1", "r2", "r3"}, list.Selection())
	assert.True(t, list.IsSelected("r2"))

	list.ClearSelection()
	assert.Empty(t, list.Selection())
}

func TestReceiptList_SelectAllThenDeleteSelected(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()
	list := newLoaded(t, backend)

	list.SelectAll()
	require.NoError(t, list.DeleteSelected(context.Background()))

	// One delete call carrying all three ids, then a reload.
	trace := backend.CallTrace()
	require.Len(t, trace, 3)
	assert.Equal(t, "DeleteReceipts([r1 r2 r3])", trace[1])
	assert.Equal(t, "ListReceipts(2024-01-01,2024-01-31)", trace[2])

	assert.Empty(t, list.Rows())
	assert.Empty(t, list.Selection())
	assert.Equal(t, StateLoaded, list.State())
}

func TestReceiptList_SingleSelectionUsesSingleDelete(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()
	list := newLoaded(t, backend)

	list.ToggleSelect("r2")
	require.NoError(t, list.DeleteSelected(context.Background()))

	trace := backend.CallTrace()
	require.Len(t, trace, 3)
	assert.Equal(t, "DeleteReceipt(r2)", trace[1])
	assert.Equal(t, "ListReceipts(2024-01-01,2024-01-31)", trace[2])
	assert.Len(t, list.Rows(), 2)
}

func TestReceiptList_DeleteSelectedEmptyIsNoOp(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()
	list := newLoaded(t, backend)

	require.NoError(t, list.DeleteSelected(context.Background()))
	assert.Len(t, backend.CallTrace(), 1) // just the initial load
}

func TestReceiptList_DeleteFailureLeavesRowsUntouched(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()
	list := newLoaded(t, backend)

	list.SelectAll()
	backend.FailDelete = errors.New("forbidden")

	err := list.DeleteSelected(context.Background())
	require.Error(t, err)
	assert.Len(t, list.Rows(), 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, list.Selection())
	require.Error(t, list.Err())
}

func TestReceiptList_DeleteAllRequiresConfirmation(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()
	list := newLoaded(t, backend)

	err := list.ConfirmDeleteAll(context.Background())
	require.Error(t, err)
	assert.Len(t, list.Rows(), 3)

	list.RequestDeleteAll()
	assert.True(t, list.ConfirmingDeleteAll())
	list.CancelDeleteAll()
	assert.False(t, list.ConfirmingDeleteAll())

	list.RequestDeleteAll()
	require.NoError(t, list.ConfirmDeleteAll(context.Background()))
	assert.Empty(t, list.Rows())
	assert.Empty(t, list.Selection())
}

func TestReceiptList_ReloadPrunesVanishedSelection(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = januaryReceipts()
	list := newLoaded(t, backend)

	list.SelectAll()
	backend.Receipts = backend.Receipts[:1] // r2 and r3 gone server-side

	require.NoError(t, list.Load(context.Background()))
	assert.Equal(t, []string{"r1"}, list.Selection())
}

func TestReceiptList_YearBoundsWidenAcrossLoads(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.Receipts = []model.Receipt{
		{ID: "old", Date: "2019-06-01"},
		{ID: "new", Date: "2026-02-01"},
	}

	list := New(backend, WithClock(fixedClock),
		WithRange(daterange.Range{Start: "2019-01-01", End: "2026-12-31"}))
	require.NoError(t, list.Load(context.Background()))

	bounds := list.YearBounds()
	assert.Equal(t, 2019, bounds.Min)
	assert.Equal(t, 2026, bounds.Max)

	// Narrowing the range never narrows the bounds.
	require.NoError(t, list.CommitEnd(context.Background(), "2019-12-31"))
	bounds = list.YearBounds()
	assert.Equal(t, 2019, bounds.Min)
	assert.Equal(t, 2026, bounds.Max)
}
