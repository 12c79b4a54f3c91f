package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"ape-swap/pkg/types"
)

const approvePaymentPath = "/tokenTransfer/approveBusdPayment"

// RequestError is returned when the backend answers with a non-2xx status
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// NetworkError is returned when the backend could not be reached
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Message string `json:"message"`
}

// Client posts transfer approvals to the project backend
type Client struct {
	client *resty.Client
}

// NewClient creates a backend client for baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Client{client: client}
}

// ApprovePayment reports a broadcast transfer and returns the backend's message
func (c *Client) ApprovePayment(ctx context.Context, req *types.TransferRequest) (*types.TransferResponse, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&types.TransferResponse{}).
		SetError(&errorBody{}).
		Post(approvePaymentPath)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	log.Debug().
		Int("status", resp.StatusCode()).
		Str("path", approvePaymentPath).
		Msg("Backend responded")

	if resp.IsError() {
		message := ""
		if body, ok := resp.Error().(*errorBody); ok && body != nil {
			message = body.Message
		}
		if message == "" {
			message = strings.TrimSpace(resp.String())
		}
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}
		return nil, &RequestError{StatusCode: resp.StatusCode(), Message: message}
	}

	result, ok := resp.Result().(*types.TransferResponse)
	if !ok || result == nil {
		return nil, fmt.Errorf("unexpected response body: %s", resp.String())
	}

	return result, nil
}
