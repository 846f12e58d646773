// Package userclient is an HTTP client for the user service's bulk lookup
// endpoint. Services that do not own the users table use it as their
// repository.UserDirectory.
package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/infrastructure/auth"
)

const defaultTimeout = 5 * time.Second

// Client calls POST {baseURL}/v1/users/bulk and forwards the caller's bearer
// token when one is present in the context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a user directory client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type bulkRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type bulkResponse struct {
	Users []*model.UserSummary `json:"users"`
}

// BulkFetch resolves summaries for the given IDs. The response is aligned
// with the input, with nil entries for users that do not exist.
func (c *Client) BulkFetch(ctx context.Context, ids []uuid.UUID) ([]*model.UserSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(bulkRequest{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to encode bulk request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/users/bulk", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build bulk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token, ok := auth.TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user service returned status %d", resp.StatusCode)
	}

	var out bulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if len(out.Users) != len(ids) {
		return nil, fmt.Errorf("user service returned %d entries for %d ids", len(out.Users), len(ids))
	}

	return out.Users, nil
}
