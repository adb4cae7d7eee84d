package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreateSession(t *testing.T) {
	var gotForm map[string][]string
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":             "cs_test_123",
			"url":            "https://pay.example.com/cs_test_123",
			"payment_status": "unpaid",
			"amount_total":   1500,
			"metadata":       map[string]string{"kind": "priority"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_abc", 5*time.Second)
	s, err := c.CreateSession(context.Background(), SessionParams{
		AmountCents:   1500,
		Currency:      "eur",
		ProductName:   "Priority Song Request",
		CustomerEmail: "viewer@example.com",
		SuccessURL:    "https://app.example.com/success",
		CancelURL:     "https://app.example.com/cancel",
		Metadata:      map[string]string{"kind": "priority"},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_123", s.ID)
	assert.Equal(t, "https://pay.example.com/cs_test_123", s.URL)
	assert.Equal(t, StatusUnpaid, s.PaymentStatus)
	assert.Equal(t, int64(1500), s.AmountTotalCents)

	assert.Equal(t, "Bearer sk_test_abc", gotAuth)
	assert.Equal(t, "1500", gotForm["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "eur", gotForm["line_items[0][price_data][currency]"][0])
	assert.Equal(t, "viewer@example.com", gotForm["customer_email"][0])
	assert.Equal(t, "priority", gotForm["metadata[kind]"][0])
}

func TestClientGetSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/checkout/sessions/cs_test_123", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":             "cs_test_123",
			"payment_status": "paid",
			"amount_total":   800,
			"metadata":       map[string]string{"kind": "bid", "submission_id": "abc"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_abc", 5*time.Second)
	s, err := c.GetSession(context.Background(), "cs_test_123")
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, s.PaymentStatus)
	assert.Equal(t, "bid", s.Metadata["kind"])
	assert.Equal(t, "abc", s.Metadata["submission_id"])
}

func TestClientErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"no such session"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_abc", 5*time.Second)
	_, err := c.GetSession(context.Background(), "cs_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such session")
}

func TestClientMissingMetadataDefaultsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"cs_1","payment_status":"paid","amount_total":100}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk", 0)
	s, err := c.GetSession(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.NotNil(t, s.Metadata)
	assert.Empty(t, s.Metadata)
}
