package gateway

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

func TestClient_CreateOrder(t *testing.T) {
	var received OrderRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc","entity":"order","amount":5000,"currency":"INR","receipt":"fee_rcpt_1","status":"created"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/v1/", "key_id", "key_secret", 5*time.Second)

	order, err := client.CreateOrder(context.Background(), OrderRequest{
		Amount:   5000,
		Currency: "INR",
		Receipt:  "fee_rcpt_1",
		Notes:    map[string]string{"student_id": "s1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(5000), order.Amount)
	assert.Equal(t, int64(5000), received.Amount)
	assert.Equal(t, "fee_rcpt_1", received.Receipt)
	assert.Equal(t, "s1", received.Notes["student_id"])
}

func TestClient_CreateOrder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "id", "secret", 5*time.Second)

	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "BAD_REQUEST_ERROR", apiErr.Code)
	assert.Equal(t, "amount too small", apiErr.Description)
}

func TestClient_CreateOrder_MissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"amount":5000}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "id", "secret", 5*time.Second)

	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 5000, Currency: "INR"})
	assert.Error(t, err)
}
