package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ExportFormat selects the export document type.
type ExportFormat string

// Supported export formats.
const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// Export streams a receipt export for the given inclusive ISO date
// range into w and returns the number of bytes written.
func (c *Client) Export(ctx context.Context, startDate, endDate string, format ExportFormat, w io.Writer) (int64, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}
	query.Set("format", string(format))

	req, err := c.newRequest(ctx, http.MethodGet, "/export", query, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("export request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return 0, &RequestError{Status: resp.StatusCode, Body: string(text)}
	}

	return io.Copy(w, resp.Body)
}

// BuildExportURL returns the export URL for the given range and
// format, for handing off to a browser.
func (c *Client) BuildExportURL(startDate, endDate string, format ExportFormat) string {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}
	query.Set("format", string(format))

	return c.baseURL + "/export?" + query.Encode()
}
