package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ape-swap/pkg/types"
)

func testRequest() *types.TransferRequest {
	return &types.TransferRequest{
		User:                 types.UserProfile{Email: "ape@example.com", Wallet: "0xabc"},
		Transaction:          &types.Transaction{Hash: "0x01", Nonce: 3},
		TransferedBusdAmount: 10,
		Network:              "MAINNET",
	}
}

func TestApprovePayment(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tokenTransfer/approveBusdPayment", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"OK"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", 5*time.Second)
	resp, err := c.ApprovePayment(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Message)

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "ape@example.com", user["email"])
	assert.Equal(t, "0xabc", user["Wallet"])
	assert.Equal(t, float64(10), body["transferedBusdAmount"])
	assert.Equal(t, "MAINNET", body["network"])

	tx := body["transaction"].(map[string]interface{})
	assert.Equal(t, "0x01", tx["hash"])
}

func TestApprovePaymentRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"transaction already used"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).ApprovePayment(context.Background(), testRequest())

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Equal(t, "transaction already used", reqErr.Message)
}

func TestApprovePaymentErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).ApprovePayment(context.Background(), testRequest())

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusText(http.StatusBadGateway), reqErr.Message)
}

func TestApprovePaymentNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).ApprovePayment(context.Background(), testRequest())

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Error(t, netErr.Unwrap())
}
