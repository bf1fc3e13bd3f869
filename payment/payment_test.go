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

func TestConfirmSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(5000), req.AmountCents)
		assert.Equal(t, "appointment-7", req.Reference)

		json.NewEncoder(w).Encode(Receipt{ID: "rcpt_123", AmountCents: req.AmountCents, Status: "succeeded"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", time.Second)
	receipt, err := client.Confirm(context.Background(), 5000, "appointment-7")

	require.NoError(t, err)
	assert.Equal(t, "rcpt_123", receipt.ID)
	assert.Equal(t, int64(5000), receipt.AmountCents)
	assert.Equal(t, "succeeded", receipt.Status)
}

func TestConfirmGatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", time.Second)
	_, err := client.Confirm(context.Background(), 5000, "appointment-7")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestConfirmTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", 50*time.Millisecond)
	_, err := client.Confirm(context.Background(), 5000, "appointment-7")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestConfirmUnreachableGateway(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-key", 200*time.Millisecond)
	_, err := client.Confirm(context.Background(), 5000, "appointment-7")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCents(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{19.99, 1999},
		{8.20, 820},
		{29.985, 2999},
		{0, 0},
		{150, 15000},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Cents(c.amount), "amount %v", c.amount)
	}
}
