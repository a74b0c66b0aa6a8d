package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ezbooks/ezb/internal/model"
)

// Reference list payloads. Each entity type carries its identifier
// under its own key on the wire; they all normalize to a plain ID.

type vendorPayload struct {
	VendorID string `json:"vendorId"`
	Name     string `json:"name"`
}

type categoryPayload struct {
	CategoryID  string `json:"categoryId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type jobPayload struct {
	JobID      string          `json:"jobId"`
	Name       string          `json:"name"`
	ClientName string          `json:"clientName"`
	Address    string          `json:"address"`
	Status     model.JobStatus `json:"status"`
}

type cardPayload struct {
	CardID          string `json:"cardId"`
	Nickname        string `json:"nickname"`
	Last4           string `json:"last4"`
	Brand           string `json:"brand"`
	DefaultCategory string `json:"defaultCategory"`
	IsActive        bool   `json:"isActive"`
}

func (c *Client) getList(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}

	body, contentType, err := c.do(req)
	if err != nil {
		return err
	}
	if !isJSON(contentType) {
		return fmt.Errorf("unexpected %s response type %q", path, contentType)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	body, contentType, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if !isJSON(contentType) {
		return fmt.Errorf("unexpected %s response type %q", path, contentType)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) delete(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}

	_, _, err = c.do(req)
	return err
}

// ListVendors returns all vendors for the current user.
func (c *Client) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	var payloads []vendorPayload
	if err := c.getList(ctx, "/vendors", &payloads); err != nil {
		return nil, err
	}

	vendors := make([]model.Vendor, 0, len(payloads))
	for _, p := range payloads {
		vendors = append(vendors, model.Vendor{ID: p.VendorID, Name: p.Name})
	}
	return vendors, nil
}

// CreateVendor creates a vendor and returns it with its assigned ID.
func (c *Client) CreateVendor(ctx context.Context, name string) (model.Vendor, error) {
	var payload vendorPayload
	if err := c.postJSON(ctx, "/vendors", map[string]string{"name": name}, &payload); err != nil {
		return model.Vendor{}, err
	}
	return model.Vendor{ID: payload.VendorID, Name: payload.Name}, nil
}

// DeleteVendor removes a vendor.
func (c *Client) DeleteVendor(ctx context.Context, id string) error {
	return c.delete(ctx, "/vendors/"+url.PathEscape(id))
}

// ListCategories returns all categories for the current user.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var payloads []categoryPayload
	if err := c.getList(ctx, "/categories", &payloads); err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(payloads))
	for _, p := range payloads {
		categories = append(categories, model.Category{
			ID:          p.CategoryID,
			Name:        p.Name,
			Description: p.Description,
		})
	}
	return categories, nil
}

// CreateCategory creates a category and returns it with its assigned ID.
func (c *Client) CreateCategory(ctx context.Context, name, description string) (model.Category, error) {
	in := map[string]string{"name": name}
	if description != "" {
		in["description"] = description
	}

	var payload categoryPayload
	if err := c.postJSON(ctx, "/categories", in, &payload); err != nil {
		return model.Category{}, err
	}
	return model.Category{
		ID:          payload.CategoryID,
		Name:        payload.Name,
		Description: payload.Description,
	}, nil
}

// ListJobs returns all jobs for the current user.
func (c *Client) ListJobs(ctx context.Context) ([]model.Job, error) {
	var payloads []jobPayload
	if err := c.getList(ctx, "/jobs", &payloads); err != nil {
		return nil, err
	}

	jobs := make([]model.Job, 0, len(payloads))
	for _, p := range payloads {
		jobs = append(jobs, model.Job{
			ID:         p.JobID,
			Name:       p.Name,
			ClientName: p.ClientName,
			Address:    p.Address,
			Status:     p.Status,
		})
	}
	return jobs, nil
}

// CreateJob creates a job and returns it with its assigned ID.
func (c *Client) CreateJob(ctx context.Context, name string) (model.Job, error) {
	var payload jobPayload
	if err := c.postJSON(ctx, "/jobs", map[string]string{"name": name}, &payload); err != nil {
		return model.Job{}, err
	}
	return model.Job{
		ID:         payload.JobID,
		Name:       payload.Name,
		ClientName: payload.ClientName,
		Address:    payload.Address,
		Status:     payload.Status,
	}, nil
}

// DeleteJob removes a job.
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.delete(ctx, "/jobs/"+url.PathEscape(id))
}

// ListCards returns all payment cards on file.
func (c *Client) ListCards(ctx context.Context) ([]model.Card, error) {
	var payloads []cardPayload
	if err := c.getList(ctx, "/cards", &payloads); err != nil {
		return nil, err
	}

	cards := make([]model.Card, 0, len(payloads))
	for _, p := range payloads {
		cards = append(cards, model.Card{
			ID:              p.CardID,
			Nickname:        p.Nickname,
			Last4:           p.Last4,
			Brand:           p.Brand,
			DefaultCategory: p.DefaultCategory,
			IsActive:        p.IsActive,
		})
	}
	return cards, nil
}

// CreateCard registers a payment card and returns it with its
// assigned ID.
func (c *Client) CreateCard(ctx context.Context, nickname, last4, brand string) (model.Card, error) {
	in := map[string]string{
		"nickname": nickname,
		"last4":    last4,
		"brand":    brand,
	}

	var payload cardPayload
	if err := c.postJSON(ctx, "/cards", in, &payload); err != nil {
		return model.Card{}, err
	}
	return model.Card{
		ID:       payload.CardID,
		Nickname: payload.Nickname,
		Last4:    payload.Last4,
		Brand:    payload.Brand,
		IsActive: payload.IsActive,
	}, nil
}
