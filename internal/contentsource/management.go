package contentsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"aniverse/pkg/models"
	"aniverse/pkg/utils"
)

// ManagementClient writes entries through the content source's management
// API. Only the order mirror uses it; catalog reads never go through here.
type ManagementClient struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	Token   string
}

// NewManagementClient returns nil when no management token is configured,
// which disables the order mirror.
func NewManagementClient(cfg utils.ContentstackConfig) *ManagementClient {
	if cfg.ManagementToken == "" {
		return nil
	}
	return &ManagementClient{
		HTTP:    &http.Client{Timeout: 12 * time.Second},
		BaseURL: cfg.ManagementURL(),
		APIKey:  cfg.APIKey,
		Token:   cfg.ManagementToken,
	}
}

type orderEntry struct {
	Title         string  `json:"title"`
	OrderID       string  `json:"order_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	Items         string  `json:"items"`
	Total         float64 `json:"total"`
	Status        string  `json:"status"`
}

// CreateOrderEntry mirrors a placed order into the content source and
// returns the created entry uid. Items are stored as a JSON string, matching
// the order content type's text field.
func (m *ManagementClient) CreateOrderEntry(ctx context.Context, o models.Order) (string, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}

	payload, err := json.Marshal(map[string]any{
		"entry": orderEntry{
			Title:         "Order " + o.ID,
			OrderID:       o.ID,
			CustomerName:  o.CustomerName,
			CustomerEmail: o.CustomerEmail,
			Items:         string(items),
			Total:         o.Total,
			Status:        o.Status,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode entry: %w", err)
	}

	u := fmt.Sprintf("%s/v3/content_types/%s/entries", m.BaseURL, KindOrder)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("api_key", m.APIKey)
	req.Header.Set("authorization", m.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var created struct {
		Entry struct {
			UID string `json:"uid"`
		} `json:"entry"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return created.Entry.UID, nil
}
