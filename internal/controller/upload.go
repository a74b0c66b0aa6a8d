package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ezbooks/ezb/internal/service"
)

// UploadFile is one file queued for upload.
type UploadFile struct {
	Content io.Reader
	Name    string
}

// FileError records why one file in a batch failed.
type FileError struct {
	Name    string
	Message string
}

// UploadReport summarizes a batch upload. Failures are never dropped:
// any non-empty Failed list must be surfaced to the user for explicit
// acknowledgement.
type UploadReport struct {
	Failed       []FileError
	SuccessCount int
}

// Empty reports a batch where nothing happened at all.
func (r UploadReport) Empty() bool {
	return r.SuccessCount == 0 && len(r.Failed) == 0
}

// Ok reports a fully successful batch.
func (r UploadReport) Ok() bool {
	return len(r.Failed) == 0
}

// Upload sends files strictly in order, one at a time, recording each
// file's outcome before the next begins. Sequential processing trades
// throughput for a per-file failure report with no cross-file
// interference. A zero-file batch performs zero network calls. Any
// activity, success or failure, ends with one soft reload so the
// table reflects whatever partially landed.
func (l *ReceiptList) Upload(ctx context.Context, files []UploadFile, fields service.UploadFields) (UploadReport, error) {
	var report UploadReport

	if len(files) == 0 {
		return report, nil
	}

	l.mu.Lock()
	if l.uploading {
		l.mu.Unlock()
		return report, fmt.Errorf("an upload is already in progress")
	}
	l.uploading = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.uploading = false
		l.mu.Unlock()
	}()

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, FileError{Name: file.Name, Message: err.Error()})
			continue
		}

		_, err := l.backend.UploadReceipt(ctx, file.Name, file.Content, fields)
		if err != nil {
			slog.Debug("Receipt upload failed", "file", file.Name, "error", err)
			report.Failed = append(report.Failed, FileError{Name: file.Name, Message: err.Error()})
			continue
		}
		report.SuccessCount++
	}

	if err := l.Load(ctx); err != nil {
		return report, err
	}

	return report, nil
}

// IsUploading reports whether a batch is in flight.
func (l *ReceiptList) IsUploading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.uploading
}
