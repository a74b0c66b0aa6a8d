package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezbooks/ezb/internal/daterange"
	"github.com/ezbooks/ezb/internal/service"
	"github.com/ezbooks/ezb/internal/testutil"
)

func batchOf(names ...string) []UploadFile {
	files := make([]UploadFile, 0, len(names))
	for _, name := range names {
		files = append(files, UploadFile{Name: name, Content: strings.NewReader("bytes of " + name)})
	}
	return files
}

func TestUpload_ZeroFilesIsNoOp(t *testing.T) {
	backend := testutil.NewFakeBackend()
	list := New(backend, WithClock(fixedClock))

	report, err := list.Upload(context.Background(), nil, service.UploadFields{})
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.Empty(t, backend.CallTrace(), "zero files must mean zero network calls")
	assert.Equal(t, StateIdle, list.State())
}

func TestUpload_AllSucceedTriggersReload(t *testing.T) {
	backend := testutil.NewFakeBackend()
	list := New(backend, WithClock(fixedClock),
		WithRange(daterange.Range{Start: "2024-01-01", End: "2024-01-31"}))

	report, err := list.Upload(context.Background(),
		batchOf("a.jpg", "b.jpg"),
		service.UploadFields{Date: "2024-01-12", JobID: "job-1"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.SuccessCount)
	assert.Empty(t, report.Failed)
	assert.True(t, report.Ok())

	trace := backend.CallTrace()
	require.Len(t, trace, 3)
	assert.Equal(t, "UploadReceipt(a.jpg)", trace[0])
	assert.Equal(t, "UploadReceipt(b.jpg)", trace[1])
	assert.Equal(t, "ListReceipts(2024-01-01,2024-01-31)", trace[2])

	assert.Len(t, list.Rows(), 2)
}

func TestUpload_PartialFailureIsAttributedPerFile(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.FailUpload = map[string]error{
		"f2.pdf": errors.New("unsupported media type"),
		"f5.pdf": errors.New("payload too large"),
	}
	list := New(backend, WithClock(fixedClock),
		WithRange(daterange.Range{Start: "2024-01-01", End: "2024-01-31"}))

	var names []string
	for i := 1; i <= 7; i++ {
		names = append(names, fmt.Sprintf("f%d.pdf", i))
	}

	report, err := list.Upload(context.Background(), batchOf(names...),
		service.UploadFields{Date: "2024-01-12"})
	require.NoError(t, err)

	assert.Equal(t, 5, report.SuccessCount)
	require.Len(t, report.Failed, 2)
	assert.Equal(t, "f2.pdf", report.Failed[0].Name)
	assert.Contains(t, report.Failed[0].Message, "unsupported media type")
	assert.Equal(t, "f5.pdf", report.Failed[1].Name)
	assert.False(t, report.Ok())

	// Partial success still reloads so the landed files show up.
	trace := backend.CallTrace()
	assert.Equal(t, "ListReceipts(2024-01-01,2024-01-31)", trace[len(trace)-1])
	assert.Len(t, list.Rows(), 5)
}

func TestUpload_ProcessesStrictlyInSubmissionOrder(t *testing.T) {
	backend := testutil.NewFakeBackend()
	list := New(backend, WithClock(fixedClock))

	names := []string{"third.png", "first.png", "second.png"}
	_, err := list.Upload(context.Background(), batchOf(names...),
		service.UploadFields{Date: "2024-01-20"})
	require.NoError(t, err)

	trace := backend.CallTrace()
	require.GreaterOrEqual(t, len(trace), 3)
	for i, name := range names {
		assert.Equal(t, "UploadReceipt("+name+")", trace[i])
	}
}

func TestUpload_RejectsOverlappingBatches(t *testing.T) {
	backend := testutil.NewFakeBackend()
	list := New(backend, WithClock(fixedClock))

	list.mu.Lock()
	list.uploading = true
	list.mu.Unlock()

	_, err := list.Upload(context.Background(), batchOf("a.jpg"), service.UploadFields{})
	require.Error(t, err)
	assert.Empty(t, backend.CallTrace())
	assert.True(t, list.IsUploading())
}
