package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezbooks/ezb/internal/model"
	"github.com/ezbooks/ezb/internal/service"
	"github.com/ezbooks/ezb/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, session.NewStatic("test-token"))
}

func TestClient_AttachesAuthAndCorrelationHeaders(t *testing.T) {
	var gotAuth, gotRequestID string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))

	_, err := c.ListReceipts(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_EmptySessionSendsNoBearerHeader(t *testing.T) {
	var sawAuthHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["Authorization"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, session.NewStatic(""))
	_, err := c.ListReceipts(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, sawAuthHeader)
}

func TestClient_RequestErrorCarriesStatusAndBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "receipt not found", http.StatusNotFound)
	}))

	err := c.DeleteReceipt(context.Background(), "missing")
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
	assert.Contains(t, reqErr.Body, "receipt not found")
}

func TestClient_RequestErrorWithEmptyBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := c.DeleteReceipt(context.Background(), "r1")
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "request failed with status 500", reqErr.Error())
}

func TestClient_ListReceiptsNormalizesIdentifier(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2024-01-31", r.URL.Query().Get("endDate"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"receiptId":"r1","date":"2024-01-05","amount":42.19,"taxAmount":3.10,"category":"Fuel","status":"PROCESSED"},
			{"id":"r2","date":"2024-01-06","vendorId":null,"category":null}
		]`))
	}))

	receipts, err := c.ListReceipts(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, receipts, 2)

	assert.Equal(t, "r1", receipts[0].ID)
	assert.Equal(t, "42.19", receipts[0].Amount.String())
	assert.Equal(t, model.StatusProcessed, receipts[0].Status)

	assert.Equal(t, "r2", receipts[1].ID)
	assert.Empty(t, receipts[1].Category)
	assert.True(t, receipts[1].Amount.IsZero())
}

func TestClient_ListReceiptsOmitsEmptyRange(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))

	_, err := c.ListReceipts(context.Background(), "", "")
	require.NoError(t, err)
}

func TestClient_UploadReceiptSendsMultipart(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		var content bytes.Buffer
		_, _ = content.ReadFrom(file)

		assert.Equal(t, "lunch.jpg", header.Filename)
		assert.Equal(t, "fake image bytes", content.String())
		assert.Equal(t, "job-7", r.FormValue("jobId"))
		assert.Empty(t, r.FormValue("vendorId"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"receiptId":"new-1","status":"UPLOADED"}`))
	}))

	receipt, err := c.UploadReceipt(context.Background(), "lunch.jpg",
		strings.NewReader("fake image bytes"), service.UploadFields{JobID: "job-7"})
	require.NoError(t, err)
	assert.Equal(t, "new-1", receipt.ID)
	assert.Equal(t, model.StatusUploaded, receipt.Status)
}

func TestClient_UpdateReceiptFieldPatchesSingleField(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/receipts/r1", r.URL.Path)

		var body bytes.Buffer
		_, _ = body.ReadFrom(r.Body)
		assert.JSONEq(t, `{"category":"Materials"}`, body.String())

		w.WriteHeader(http.StatusNoContent)
	}))

	err := c.UpdateReceiptField(context.Background(), "r1", model.FieldCategory, "Materials")
	require.NoError(t, err)
}

func TestClient_DeleteReceiptsJoinsIDs(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "a,b,c", r.URL.Query().Get("ids"))
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.DeleteReceipts(context.Background(), []string{"a", "b", "c"}))
}

func TestClient_DeleteReceiptsEmptySetIsNoOp(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected for an empty id set")
	}))

	require.NoError(t, c.DeleteReceipts(context.Background(), nil))
}

func TestClient_DeleteAllReceiptsSetsFlag(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("deleteAll"))
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.DeleteAllReceipts(context.Background()))
}

func TestClient_ReceiptImageURL(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/receipts/r1/image", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/r1.jpg"}`))
	}))

	url, err := c.ReceiptImageURL(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/r1.jpg", url)
}

func TestClient_ExportStreamsBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/export", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("startDate"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("date,vendorId,amount\n2024-01-05,v1,42.19\n"))
	}))

	var out bytes.Buffer
	n, err := c.Export(context.Background(), "2024-01-01", "2024-01-31", ExportCSV, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(out.Len()), n)
	assert.Contains(t, out.String(), "2024-01-05,v1,42.19")
}

func TestClient_CreateCategoryNormalizesID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		_, _ = body.ReadFrom(r.Body)
		assert.JSONEq(t, `{"name":"Materials"}`, body.String())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"categoryId":"c9","name":"Materials","description":""}`))
	}))

	cat, err := c.CreateCategory(context.Background(), "Materials", "")
	require.NoError(t, err)
	assert.Equal(t, model.Category{ID: "c9", Name: "Materials"}, cat)
}

func TestClient_CreateCardPostsAndNormalizesID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cards", r.URL.Path)

		var body bytes.Buffer
		_, _ = body.ReadFrom(r.Body)
		assert.JSONEq(t, `{"nickname":"Work Visa","last4":"4242","brand":"visa"}`, body.String())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cardId":"card7","nickname":"Work Visa","last4":"4242","brand":"visa","isActive":true}`))
	}))

	card, err := c.CreateCard(context.Background(), "Work Visa", "4242", "visa")
	require.NoError(t, err)
	assert.Equal(t, model.Card{ID: "card7", Nickname: "Work Visa", Last4: "4242", Brand: "visa", IsActive: true}, card)
}

func TestClient_CurrentUser(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"userId":"u1","email":"sam@example.com","tier":"FREE","usage":12,"limit":20,"created":1700000000}`))
	}))

	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", user.Email)
	require.NotNil(t, user.Limit)
	assert.Equal(t, 20, *user.Limit)
}
