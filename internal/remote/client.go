// Package remote talks to the citizen voice REST API. Every call is
// best-effort: callers fall back to local data on NetworkFailure and nothing
// is retried.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/models"

	"go.uber.org/zap"
)

// Endpoints, relative to the base URL.
const (
	PathComplaints           = "/api/complaints"
	PathNotifications        = "/api/notifications"
	PathNotificationsReadAll = "/api/notifications/read-all"
	notificationReadPathFmt  = "/api/notifications/%s/read"
	complaintPathFmt         = "/api/complaints/%d"
	maxErrorBodyBytes        = 512
	defaultRemoteTimeout     = 10 * time.Second
)

// Client is a thin JSON client over net/http.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient returns a client for baseURL. A zero timeout uses 10s.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	}
}

// envelope matches servers that wrap payloads as {"success": .., "data": ..}.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperr.Network(op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return apperr.Network(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return apperr.Network(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return apperr.Network(op, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(snippet)))
	}
	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Network(op, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var env envelope
		if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
			raw = env.Data
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Network(op, fmt.Errorf("decode %s: %w", path, err))
	}
	return nil
}

// ListComplaints fetches the complaints visible to the token's user.
func (c *Client) ListComplaints(ctx context.Context, token string) ([]models.Complaint, error) {
	var list []models.Complaint
	if err := c.do(ctx, "ListComplaints", http.MethodGet, PathComplaints, token, nil, &list); err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Normalize()
	}
	return list, nil
}

// GetComplaint fetches one complaint.
func (c *Client) GetComplaint(ctx context.Context, token string, id int) (models.Complaint, error) {
	var cm models.Complaint
	if err := c.do(ctx, "GetComplaint", http.MethodGet, fmt.Sprintf(complaintPathFmt, id), token, nil, &cm); err != nil {
		return models.Complaint{}, err
	}
	cm.Normalize()
	return cm, nil
}

// DeleteComplaint asks the server to drop a complaint.
func (c *Client) DeleteComplaint(ctx context.Context, token string, id int) error {
	return c.do(ctx, "DeleteComplaint", http.MethodDelete, fmt.Sprintf(complaintPathFmt, id), token, nil, nil)
}

// ListNotifications fetches the user's notification feed.
func (c *Client) ListNotifications(ctx context.Context, token string) ([]models.Notification, error) {
	var list []models.Notification
	if err := c.do(ctx, "ListNotifications", http.MethodGet, PathNotifications, token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkNotificationRead marks one notification as read on the server.
func (c *Client) MarkNotificationRead(ctx context.Context, token, id string) error {
	return c.do(ctx, "MarkNotificationRead", http.MethodPut, fmt.Sprintf(notificationReadPathFmt, url.PathEscape(id)), token, nil, nil)
}

// MarkAllRead marks the whole feed as read on the server.
func (c *Client) MarkAllRead(ctx context.Context, token string) error {
	return c.do(ctx, "MarkAllRead", http.MethodPut, PathNotificationsReadAll, token, nil, nil)
}
