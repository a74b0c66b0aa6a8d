package model

import "github.com/shopspring/decimal"

// ReceiptStatus tracks where a receipt sits in the ingestion pipeline.
type ReceiptStatus string

const (
	// StatusUploaded means the image is stored but not yet parsed.
	StatusUploaded ReceiptStatus = "UPLOADED"
	// StatusPending means OCR is in progress.
	StatusPending ReceiptStatus = "PENDING"
	// StatusProcessed means all fields have been extracted.
	StatusProcessed ReceiptStatus = "PROCESSED"
	// StatusFailed means parsing gave up on this receipt.
	StatusFailed ReceiptStatus = "FAILED"
)

// Receipt is one parsed receipt as the backend knows it. The backend
// historically emitted the identifier as either "receiptId" or "id";
// the API layer normalizes both into ID before a Receipt reaches
// anything else.
type Receipt struct {
	ID        string
	Date      string // as stored by the backend; format varies by upload source
	VendorID  string
	Category  string
	CardID    string
	JobID     string
	Status    ReceiptStatus
	ImageURL  string
	Amount    decimal.Decimal
	TaxAmount decimal.Decimal
}

// ReceiptField names a single patchable receipt attribute, using the
// backend's wire spelling.
type ReceiptField string

// Patchable receipt fields.
const (
	FieldDate      ReceiptField = "date"
	FieldVendorID  ReceiptField = "vendorId"
	FieldAmount    ReceiptField = "amount"
	FieldTaxAmount ReceiptField = "taxAmount"
	FieldCategory  ReceiptField = "category"
	FieldCardID    ReceiptField = "cardId"
	FieldJobID     ReceiptField = "jobId"
)
