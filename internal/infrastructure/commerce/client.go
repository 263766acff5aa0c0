package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartClient implements cart.Service against the storefront's cart
// API. It is a read-only collaborator; the wizard never mutates the
// cart.
type CartClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewCartClient(baseURL string, logger zerolog.Logger) *CartClient {
	return &CartClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger.With().Str("service", "cart_client").Logger(),
	}
}

type cartStatus struct {
	Empty           bool `json:"empty"`
	HasBookableItem bool `json:"has_bookable_item"`
}

func (c *CartClient) IsEmpty(ctx context.Context, shopperID uuid.UUID) (bool, error) {
	status, err := c.fetch(ctx, shopperID)
	if err != nil {
		return true, err
	}
	return status.Empty, nil
}

func (c *CartClient) HasBookableItem(ctx context.Context, shopperID uuid.UUID) (bool, error) {
	status, err := c.fetch(ctx, shopperID)
	if err != nil {
		return false, err
	}
	return status.HasBookableItem, nil
}

func (c *CartClient) fetch(ctx context.Context, shopperID uuid.UUID) (*cartStatus, error) {
	url := fmt.Sprintf("%s/api/v1/carts/%s", c.baseURL, shopperID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("shopper_id", shopperID.String()).Msg("cart status request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &cartStatus{Empty: true}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cart status: unexpected status %d", resp.StatusCode)
	}

	var status cartStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("cart status: decode: %w", err)
	}
	return &status, nil
}
