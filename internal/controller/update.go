package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ezbooks/ezb/internal/common"
	"github.com/ezbooks/ezb/internal/model"
)

// LoadReferences fetches the reference lists (categories, jobs,
// vendors, cards) the field editors offer as options.
func (l *ReceiptList) LoadReferences(ctx context.Context) error {
	categories, err := l.backend.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	jobs, err := l.backend.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}
	vendors, err := l.backend.ListVendors(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vendors: %w", err)
	}
	cards, err := l.backend.ListCards(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.categories = categories
	l.jobs = jobs
	l.vendors = vendors
	l.cards = cards
	return nil
}

// Categories returns a copy of the known categories.
func (l *ReceiptList) Categories() []model.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Category, len(l.categories))
	copy(out, l.categories)
	return out
}

// Jobs returns a copy of the known jobs.
func (l *ReceiptList) Jobs() []model.Job {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Job, len(l.jobs))
	copy(out, l.jobs)
	return out
}

// Vendors returns a copy of the known vendors.
func (l *ReceiptList) Vendors() []model.Vendor {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Vendor, len(l.vendors))
	copy(out, l.vendors)
	return out
}

// Cards returns a copy of the known cards.
func (l *ReceiptList) Cards() []model.Card {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Card, len(l.cards))
	copy(out, l.cards)
	return out
}

// UpdateField edits one field of one receipt optimistically: the
// local row changes immediately, then the backend is asked to persist
// it. A rejected persist does not attempt a fine-grained rollback;
// the whole list is reloaded so the table converges on server truth.
// Setting a field to its current value makes no network call at all.
func (l *ReceiptList) UpdateField(ctx context.Context, id string, field model.ReceiptField, value string) error {
	l.mu.Lock()
	idx := -1
	for i := range l.rows {
		if l.rows[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return fmt.Errorf("receipt %s: %w", id, common.ErrNotFound)
	}

	if fieldValue(l.rows[idx], field) == value {
		l.mu.Unlock()
		return nil
	}

	if err := applyField(&l.rows[idx], field, value); err != nil {
		l.mu.Unlock()
		return err
	}
	l.mu.Unlock()

	if err := l.backend.UpdateReceiptField(ctx, id, field, value); err != nil {
		updateErr := fmt.Errorf("failed to update %s: %w", field, err)

		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()
		if !closed {
			// Best effort: a reload error here would only mask the
			// update failure the user actually needs to see.
			_ = l.ReconcileWithServer(ctx)
		}

		l.mu.Lock()
		l.lastErr = updateErr
		l.mu.Unlock()
		return updateErr
	}

	return nil
}

// fieldValue reads a receipt attribute by wire field name.
func fieldValue(r model.Receipt, field model.ReceiptField) string {
	switch field {
	case model.FieldDate:
		return r.Date
	case model.FieldVendorID:
		return r.VendorID
	case model.FieldAmount:
		return r.Amount.String()
	case model.FieldTaxAmount:
		return r.TaxAmount.String()
	case model.FieldCategory:
		return r.Category
	case model.FieldCardID:
		return r.CardID
	case model.FieldJobID:
		return r.JobID
	}
	return ""
}

// applyField writes a receipt attribute by wire field name, with
// client-side validation for the numeric fields.
func applyField(r *model.Receipt, field model.ReceiptField, value string) error {
	switch field {
	case model.FieldDate:
		r.Date = value
	case model.FieldVendorID:
		r.VendorID = value
	case model.FieldCategory:
		r.Category = value
	case model.FieldCardID:
		r.CardID = value
	case model.FieldJobID:
		r.JobID = value
	case model.FieldAmount:
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return &common.ValidationError{Field: "amount", Message: "not a number"}
		}
		r.Amount = amount
	case model.FieldTaxAmount:
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return &common.ValidationError{Field: "taxAmount", Message: "not a number"}
		}
		r.TaxAmount = amount
	default:
		return fmt.Errorf("unknown receipt field %q", field)
	}
	return nil
}

// EnsureCategory returns the named category, creating it server-side
// first when it does not exist yet. The new entry is appended to the
// local list immediately so it is selectable elsewhere without a
// reload.
func (l *ReceiptList) EnsureCategory(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, &common.ValidationError{Field: "category", Message: "name is required"}
	}

	l.mu.Lock()
	for _, cat := range l.categories {
		if strings.EqualFold(cat.Name, name) {
			l.mu.Unlock()
			return cat, nil
		}
	}
	l.mu.Unlock()

	created, err := l.backend.CreateCategory(ctx, name, "")
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to create category %q: %w", name, err)
	}

	l.mu.Lock()
	l.categories = append(l.categories, created)
	l.mu.Unlock()

	return created, nil
}

// EnsureJob returns the named job, creating it server-side first when
// it does not exist yet.
func (l *ReceiptList) EnsureJob(ctx context.Context, name string) (model.Job, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Job{}, &common.ValidationError{Field: "job", Message: "name is required"}
	}

	l.mu.Lock()
	for _, job := range l.jobs {
		if strings.EqualFold(job.Name, name) {
			l.mu.Unlock()
			return job, nil
		}
	}
	l.mu.Unlock()

	created, err := l.backend.CreateJob(ctx, name)
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to create job %q: %w", name, err)
	}

	l.mu.Lock()
	l.jobs = append(l.jobs, created)
	l.mu.Unlock()

	return created, nil
}

// AssignCategory sets a receipt's category by name. An unknown name
// triggers create-then-attach: the category must exist server-side
// before it is attached to the row, never the other way around.
func (l *ReceiptList) AssignCategory(ctx context.Context, receiptID, name string) error {
	cat, err := l.EnsureCategory(ctx, name)
	if err != nil {
		return err
	}
	return l.UpdateField(ctx, receiptID, model.FieldCategory, cat.Name)
}

// AssignJob sets a receipt's job by name, creating the job first when
// it is new. Rows reference jobs by id.
func (l *ReceiptList) AssignJob(ctx context.Context, receiptID, name string) error {
	job, err := l.EnsureJob(ctx, name)
	if err != nil {
		return err
	}
	return l.UpdateField(ctx, receiptID, model.FieldJobID, job.ID)
}
