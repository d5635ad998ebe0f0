// Package client is a typed client for the notification HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ntf/internal/http/dto"
	"ntf/internal/model"
)

var (
	// ErrRequest reports that the request could not be sent or no response
	// was received.
	ErrRequest = errors.New("an error occurred during the API request")
	// ErrResponse reports a response the client could not interpret.
	ErrResponse = errors.New("an error occurred while handling the response from the server")
)

// PayloadError is returned when the server rejected the request body.
type PayloadError struct {
	Detail string
}

func (e *PayloadError) Error() string {
	return "payload error: " + e.Detail
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New returns a client for the API served at baseURL, e.g.
// "http://localhost:3000".
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var notifications []model.Notification
	status, body, err := c.do(ctx, http.MethodGet, "/notifications", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, unexpectedStatus(status, body)
	}
	if err := json.Unmarshal(body, &notifications); err != nil {
		return nil, fmt.Errorf("%w: decode notification list: %w", ErrResponse, err)
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	return notifications, nil
}

func (c *Client) CreateNotification(ctx context.Context, message string) (model.Notification, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/notifications", dto.CreateNotificationRequest{Message: &message})
	if err != nil {
		return model.Notification{}, err
	}
	if status >= http.StatusInternalServerError {
		return model.Notification{}, unexpectedStatus(status, body)
	}

	var result dto.CreateNotificationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return model.Notification{}, fmt.Errorf("%w: decode create result: %w", ErrResponse, err)
	}
	switch {
	case result.Notification != nil:
		return *result.Notification, nil
	case result.Error != nil && result.Error.PayloadError != nil:
		return model.Notification{}, &PayloadError{Detail: *result.Error.PayloadError}
	default:
		return model.Notification{}, unexpectedStatus(status, body)
	}
}

// GetNotification returns *domain.NotFoundError when id is unknown, as do
// AckNotification and DeleteNotification.
func (c *Client) GetNotification(ctx context.Context, id uint64) (model.Notification, error) {
	return c.requestNotification(ctx, http.MethodGet, id)
}

func (c *Client) AckNotification(ctx context.Context, id uint64) (model.Notification, error) {
	return c.requestNotification(ctx, http.MethodPut, id)
}

func (c *Client) DeleteNotification(ctx context.Context, id uint64) (model.Notification, error) {
	return c.requestNotification(ctx, http.MethodDelete, id)
}

func (c *Client) requestNotification(ctx context.Context, method string, id uint64) (model.Notification, error) {
	status, body, err := c.do(ctx, method, fmt.Sprintf("/notifications/%d", id), nil)
	if err != nil {
		return model.Notification{}, err
	}
	if status >= http.StatusInternalServerError {
		return model.Notification{}, unexpectedStatus(status, body)
	}

	var result dto.NotificationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return model.Notification{}, fmt.Errorf("%w: decode notification result: %w", ErrResponse, err)
	}
	if result.Notification == nil && (result.Error == nil || result.Error.NotFound == nil) {
		return model.Notification{}, unexpectedStatus(status, body)
	}
	if err := result.Err(); err != nil {
		return model.Notification{}, err
	}
	return *result.Notification, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: encode body: %w", ErrRequest, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %w", ErrResponse, err)
	}
	return resp.StatusCode, respBody, nil
}

func unexpectedStatus(status int, body []byte) error {
	var apiErr dto.ErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%w: status=%d code=%d: %s", ErrResponse, status, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("%w: status=%d body=%s", ErrResponse, status, strings.TrimSpace(string(body)))
}
