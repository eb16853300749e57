package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stocktrail/internal/model"
)

// SyncClient talks to the remote inventory authority. The contract is a
// batch upsert: the full dirty set goes up in one request, last writer wins.
// There is no conflict resolution and nothing comes back down.
type SyncClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewSyncClient(baseURL string) *SyncClient {
	return &SyncClient{
		baseURL: baseURL,
		// Per-request deadlines come from the caller's context; this is a
		// hard upper bound in case a caller forgets one.
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type batchUpsertRequest struct {
	Items []model.InventoryItem `json:"items"`
}

// UploadItems POSTs the dirty items to the batch upsert endpoint.
// Any non-2xx response is a sync failure; the caller keeps the dirty set.
func (c *SyncClient) UploadItems(ctx context.Context, items []model.InventoryItem) error {
	body, err := json.Marshal(batchUpsertRequest{Items: items})
	if err != nil {
		return fmt.Errorf("sync: marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/inventory/batch", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sync: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sync: remote unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sync: remote returned %d", resp.StatusCode)
	}
	return nil
}

// Ping checks whether the remote authority is reachable. Used by the
// connectivity monitor as the online/offline signal.
func (c *SyncClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote health returned %d", resp.StatusCode)
	}
	return nil
}
