package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ezbooks/ezb/internal/model"
	"github.com/ezbooks/ezb/internal/service"
)

// receiptPayload is the wire shape of a receipt. Older backend rows
// carry "receiptId", newer ones "id"; normalize resolves both into the
// single canonical identifier.
type receiptPayload struct {
	ReceiptID *string              `json:"receiptId"`
	ID        *string              `json:"id"`
	Date      *string              `json:"date"`
	VendorID  *string              `json:"vendorId"`
	Amount    *decimal.Decimal     `json:"amount"`
	TaxAmount *decimal.Decimal     `json:"taxAmount"`
	Category  *string              `json:"category"`
	CardID    *string              `json:"cardId"`
	JobID     *string              `json:"jobId"`
	Status    *model.ReceiptStatus `json:"status"`
	ImageURL  *string              `json:"imageUrl"`
}

func (p receiptPayload) normalize() model.Receipt {
	r := model.Receipt{
		ID:        deref(p.ReceiptID),
		Date:      deref(p.Date),
		VendorID:  deref(p.VendorID),
		Category:  deref(p.Category),
		CardID:    deref(p.CardID),
		JobID:     deref(p.JobID),
		ImageURL:  deref(p.ImageURL),
		Amount:    derefDecimal(p.Amount),
		TaxAmount: derefDecimal(p.TaxAmount),
	}
	if r.ID == "" {
		r.ID = deref(p.ID)
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	return r
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefDecimal(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// ListReceipts fetches receipts, optionally filtered to an inclusive
// ISO date range. Empty bounds are omitted from the query.
func (c *Client) ListReceipts(ctx context.Context, startDate, endDate string) ([]model.Receipt, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/receipts", query, nil)
	if err != nil {
		return nil, err
	}

	body, contentType, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !isJSON(contentType) {
		return nil, fmt.Errorf("unexpected receipts response type %q", contentType)
	}

	var payloads []receiptPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		return nil, fmt.Errorf("failed to decode receipts: %w", err)
	}

	receipts := make([]model.Receipt, 0, len(payloads))
	for _, p := range payloads {
		receipts = append(receipts, p.normalize())
	}
	return receipts, nil
}

// UploadReceipt sends one file as multipart form data. The backend
// accepts exactly one file per call; batching is the caller's concern.
func (c *Client) UploadReceipt(ctx context.Context, filename string, content io.Reader, fields service.UploadFields) (model.Receipt, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return model.Receipt{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return model.Receipt{}, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	for key, value := range map[string]string{
		"vendorId":  fields.VendorID,
		"jobId":     fields.JobID,
		"category":  fields.Category,
		"amount":    fields.Amount,
		"taxAmount": fields.TaxAmount,
		"cardId":    fields.CardID,
		"date":      fields.Date,
	} {
		if value == "" {
			continue
		}
		if err := form.WriteField(key, value); err != nil {
			return model.Receipt{}, fmt.Errorf("failed to build upload form: %w", err)
		}
	}

	if err := form.Close(); err != nil {
		return model.Receipt{}, fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/receipts", nil, &buf)
	if err != nil {
		return model.Receipt{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	body, contentType, err := c.do(req)
	if err != nil {
		return model.Receipt{}, err
	}
	if !isJSON(contentType) {
		return model.Receipt{}, fmt.Errorf("unexpected upload response type %q", contentType)
	}

	var payload receiptPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.Receipt{}, fmt.Errorf("failed to decode uploaded receipt: %w", err)
	}
	return payload.normalize(), nil
}

// UpdateReceiptField patches exactly one field of one receipt.
func (c *Client) UpdateReceiptField(ctx context.Context, id string, field model.ReceiptField, value string) error {
	payload, err := json.Marshal(map[string]string{string(field): value})
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPatch, "/receipts/"+url.PathEscape(id), nil, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	_, _, err = c.do(req)
	return err
}

// DeleteReceipt removes a single receipt.
func (c *Client) DeleteReceipt(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/receipts/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}

	_, _, err = c.do(req)
	return err
}

// DeleteReceipts removes the given receipts in one call.
func (c *Client) DeleteReceipts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))

	req, err := c.newRequest(ctx, http.MethodDelete, "/receipts", query, nil)
	if err != nil {
		return err
	}

	_, _, err = c.do(req)
	return err
}

// DeleteAllReceipts removes every receipt for the current user.
func (c *Client) DeleteAllReceipts(ctx context.Context) error {
	query := url.Values{}
	query.Set("deleteAll", "true")

	req, err := c.newRequest(ctx, http.MethodDelete, "/receipts", query, nil)
	if err != nil {
		return err
	}

	_, _, err = c.do(req)
	return err
}

// ReceiptImageURL fetches the short-lived display URL for a receipt's
// stored image.
func (c *Client) ReceiptImageURL(ctx context.Context, id string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/receipts/"+url.PathEscape(id)+"/image", nil, nil)
	if err != nil {
		return "", err
	}

	body, contentType, err := c.do(req)
	if err != nil {
		return "", err
	}
	if !isJSON(contentType) {
		return "", fmt.Errorf("unexpected image response type %q", contentType)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode image URL: %w", err)
	}
	return payload.URL, nil
}
