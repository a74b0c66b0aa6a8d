// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"

	"github.com/ezbooks/ezb/internal/model"
)

// UploadFields carries optional metadata sent alongside a receipt
// upload. Empty values are omitted from the request.
type UploadFields struct {
	VendorID  string
	JobID     string
	Category  string
	Amount    string
	TaxAmount string
	CardID    string
	Date      string
}

// Backend is the remote API surface the receipt list controller and
// the commands drive. The production implementation is api.Client.
type Backend interface {
	// Receipt operations
	ListReceipts(ctx context.Context, startDate, endDate string) ([]model.Receipt, error)
	UploadReceipt(ctx context.Context, filename string, content io.Reader, fields UploadFields) (model.Receipt, error)
	UpdateReceiptField(ctx context.Context, id string, field model.ReceiptField, value string) error
	DeleteReceipt(ctx context.Context, id string) error
	DeleteReceipts(ctx context.Context, ids []string) error
	DeleteAllReceipts(ctx context.Context) error
	ReceiptImageURL(ctx context.Context, id string) (string, error)

	// Reference entities
	ListVendors(ctx context.Context) ([]model.Vendor, error)
	CreateVendor(ctx context.Context, name string) (model.Vendor, error)
	DeleteVendor(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name, description string) (model.Category, error)
	ListJobs(ctx context.Context) ([]model.Job, error)
	CreateJob(ctx context.Context, name string) (model.Job, error)
	DeleteJob(ctx context.Context, id string) error
	ListCards(ctx context.Context) ([]model.Card, error)
	CreateCard(ctx context.Context, nickname, last4, brand string) (model.Card, error)

	// Account
	CurrentUser(ctx context.Context) (*model.User, error)
}
