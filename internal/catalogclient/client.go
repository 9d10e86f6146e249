// Package catalogclient is the loan service's HTTP client for the
// catalog service. It implements loans.Catalog.
package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/phuocthuan2203/libhub-microservices/internal/ledger"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type availabilityResponse struct {
	IsAvailable bool `json:"is_available"`
}

type stockRequest struct {
	ChangeAmount int `json:"change_amount"`
}

func (c *Client) IsAvailable(ctx context.Context, bookID string) (bool, error) {
	url := fmt.Sprintf("%s/books/%s/availability", c.BaseURL, bookID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return false, ledger.ErrBookNotFound
	default:
		return false, fmt.Errorf("catalog availability check returned status %d", resp.StatusCode)
	}

	var availability availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&availability); err != nil {
		return false, err
	}
	return availability.IsAvailable, nil
}

func (c *Client) AdjustStock(ctx context.Context, bookID string, change int) error {
	body, err := json.Marshal(stockRequest{ChangeAmount: change})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/books/%s/stock", c.BaseURL, bookID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ledger.ErrBookNotFound
	case http.StatusConflict:
		// the catalog rejected the counter change on its invariant
		if change < 0 {
			return ledger.ErrOutOfStock
		}
		return ledger.ErrOverCapacity
	default:
		return fmt.Errorf("catalog stock update returned status %d", resp.StatusCode)
	}
}
