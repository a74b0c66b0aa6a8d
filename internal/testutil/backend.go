// Package testutil provides an in-memory scriptable backend for tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ezbooks/ezb/internal/model"
	"github.com/ezbooks/ezb/internal/service"
)

// FakeBackend is an in-memory service.Backend. Every method records
// itself in Calls, and each operation can be scripted to fail.
type FakeBackend struct {
	mu sync.Mutex

	Receipts   []model.Receipt
	Categories []model.Category
	Jobs       []model.Job
	Vendors    []model.Vendor
	Cards      []model.Card
	User       *model.User

	// Calls is the ordered trace of backend invocations.
	Calls []string

	FailList           error
	FailUpload         map[string]error
	FailUpdate         error
	FailDelete         error
	FailCreateCategory error
	FailCreateJob      error

	// ListBarrier, when set, blocks each ListReceipts call until the
	// channel is fed. Tests use it to interleave reloads.
	ListBarrier chan struct{}

	nextID int
}

var _ service.Backend = (*FakeBackend)(nil)

// NewFakeBackend creates an empty backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{}
}

func (f *FakeBackend) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

// CallTrace returns a copy of the recorded calls.
func (f *FakeBackend) CallTrace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	trace := make([]string, len(f.Calls))
	copy(trace, f.Calls)
	return trace
}

func (f *FakeBackend) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

// ListReceipts returns receipts whose normalized date falls inside
// the requested range; receipts with unparseable dates are kept only
// when no range is given.
func (f *FakeBackend) ListReceipts(_ context.Context, startDate, endDate string) ([]model.Receipt, error) {
	f.mu.Lock()
	f.record("ListReceipts(%s,%s)", startDate, endDate)
	fail := f.FailList
	receipts := append([]model.Receipt(nil), f.Receipts...)
	barrier := f.ListBarrier
	f.mu.Unlock()

	if barrier != nil {
		<-barrier
	}
	if fail != nil {
		return nil, fail
	}

	var out []model.Receipt
	for _, r := range receipts {
		if startDate != "" || endDate != "" {
			iso, ok := model.NormalizeDate(r.Date)
			if !ok {
				continue
			}
			if startDate != "" && iso < startDate {
				continue
			}
			if endDate != "" && iso > endDate {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *FakeBackend) UploadReceipt(_ context.Context, filename string, content io.Reader, fields service.UploadFields) (model.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UploadReceipt(%s)", filename)

	if content != nil {
		_, _ = io.Copy(io.Discard, content)
	}
	if err := f.FailUpload[filename]; err != nil {
		return model.Receipt{}, err
	}

	receipt := model.Receipt{
		ID:       f.newID("receipt"),
		Date:     fields.Date,
		VendorID: fields.VendorID,
		Category: fields.Category,
		CardID:   fields.CardID,
		JobID:    fields.JobID,
		Status:   model.StatusUploaded,
	}
	f.Receipts = append(f.Receipts, receipt)
	return receipt, nil
}

func (f *FakeBackend) UpdateReceiptField(_ context.Context, id string, field model.ReceiptField, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateReceiptField(%s,%s,%s)", id, field, value)

	if f.FailUpdate != nil {
		return f.FailUpdate
	}

	for i := range f.Receipts {
		if f.Receipts[i].ID != id {
			continue
		}
		switch field {
		case model.FieldDate:
			f.Receipts[i].Date = value
		case model.FieldVendorID:
			f.Receipts[i].VendorID = value
		case model.FieldCategory:
			f.Receipts[i].Category = value
		case model.FieldCardID:
			f.Receipts[i].CardID = value
		case model.FieldJobID:
			f.Receipts[i].JobID = value
		}
		return nil
	}
	return fmt.Errorf("receipt %s not found", id)
}

func (f *FakeBackend) DeleteReceipt(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteReceipt(%s)", id)

	if f.FailDelete != nil {
		return f.FailDelete
	}
	f.removeReceipts(map[string]bool{id: true})
	return nil
}

func (f *FakeBackend) DeleteReceipts(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteReceipts(%v)", ids)

	if f.FailDelete != nil {
		return f.FailDelete
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	f.removeReceipts(set)
	return nil
}

func (f *FakeBackend) DeleteAllReceipts(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteAllReceipts()")

	if f.FailDelete != nil {
		return f.FailDelete
	}
	f.Receipts = nil
	return nil
}

func (f *FakeBackend) removeReceipts(ids map[string]bool) {
	kept := f.Receipts[:0]
	for _, r := range f.Receipts {
		if !ids[r.ID] {
			kept = append(kept, r)
		}
	}
	f.Receipts = kept
}

func (f *FakeBackend) ReceiptImageURL(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ReceiptImageURL(%s)", id)
	return "https://images.example.com/" + id, nil
}

func (f *FakeBackend) ListVendors(_ context.Context) ([]model.Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListVendors()")
	return append([]model.Vendor(nil), f.Vendors...), nil
}

func (f *FakeBackend) CreateVendor(_ context.Context, name string) (model.Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateVendor(%s)", name)

	vendor := model.Vendor{ID: f.newID("vendor"), Name: name}
	f.Vendors = append(f.Vendors, vendor)
	return vendor, nil
}

func (f *FakeBackend) DeleteVendor(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteVendor(%s)", id)

	for i, v := range f.Vendors {
		if v.ID == id {
			f.Vendors = append(f.Vendors[:i], f.Vendors[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("vendor %s not found", id)
}

func (f *FakeBackend) ListCategories(_ context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListCategories()")
	return append([]model.Category(nil), f.Categories...), nil
}

func (f *FakeBackend) CreateCategory(_ context.Context, name, description string) (model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCategory(%s)", name)

	if f.FailCreateCategory != nil {
		return model.Category{}, f.FailCreateCategory
	}

	category := model.Category{ID: f.newID("category"), Name: name, Description: description}
	f.Categories = append(f.Categories, category)
	return category, nil
}

func (f *FakeBackend) ListJobs(_ context.Context) ([]model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListJobs()")
	return append([]model.Job(nil), f.Jobs...), nil
}

func (f *FakeBackend) CreateJob(_ context.Context, name string) (model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateJob(%s)", name)

	if f.FailCreateJob != nil {
		return model.Job{}, f.FailCreateJob
	}

	job := model.Job{ID: f.newID("job"), Name: name, Status: model.JobActive}
	f.Jobs = append(f.Jobs, job)
	return job, nil
}

func (f *FakeBackend) DeleteJob(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteJob(%s)", id)

	for i, j := range f.Jobs {
		if j.ID == id {
			f.Jobs = append(f.Jobs[:i], f.Jobs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("job %s not found", id)
}

func (f *FakeBackend) ListCards(_ context.Context) ([]model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListCards()")
	return append([]model.Card(nil), f.Cards...), nil
}

func (f *FakeBackend) CreateCard(_ context.Context, nickname, last4, brand string) (model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCard(%s)", nickname)

	card := model.Card{ID: f.newID("card"), Nickname: nickname, Last4: last4, Brand: brand, IsActive: true}
	f.Cards = append(f.Cards, card)
	return card, nil
}

func (f *FakeBackend) CurrentUser(_ context.Context) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CurrentUser()")

	if f.User == nil {
		return nil, fmt.Errorf("no user configured")
	}
	u := *f.User
	return &u, nil
}
