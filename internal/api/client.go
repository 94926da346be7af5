// Package api is the REST client for the storefront backend. It covers the
// four cached resource kinds (products, cart, wishlist, orders), their
// mutations, and the chat assistant endpoint. Callers own invalidation:
// a successful mutation here changes server state only, and the caller must
// publish the matching signal topics.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Config holds client construction parameters.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// DefaultConfig returns the local development backend settings.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 10 * time.Second,
	}
}

// Client talks to the storefront backend over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client from config. Zero-valued fields fall back to
// DefaultConfig; a nil logger disables request logging.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Products fetches the full variant-level catalog.
func (c *Client) Products(ctx context.Context) ([]ProductVariant, error) {
	var out []ProductVariant
	if err := c.do(ctx, http.MethodGet, "/api/tshirts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CartItems fetches the user's current cart lines.
func (c *Client) CartItems(ctx context.Context) ([]CartLine, error) {
	var out []CartLine
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToCart adds quantity units of a variant to the cart.
func (c *Client) AddToCart(ctx context.Context, variantID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "/api/cart/add", cartAddRequest{VariantID: variantID, Quantity: quantity}, nil)
}

// PlaceOrder converts the active cart into an order.
func (c *Client) PlaceOrder(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/order/place", nil, nil)
}

// WishlistItems fetches the user's wishlist.
func (c *Client) WishlistItems(ctx context.Context) ([]WishlistItem, error) {
	var out []WishlistItem
	if err := c.do(ctx, http.MethodGet, "/api/wishlist", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToWishlist saves a variant to the wishlist.
func (c *Client) AddToWishlist(ctx context.Context, variantID string) error {
	return c.do(ctx, http.MethodPost, "/api/wishlist/add", wishlistRequest{VariantID: variantID}, nil)
}

// RemoveFromWishlist removes a variant from the wishlist.
func (c *Client) RemoveFromWishlist(ctx context.Context, variantID string) error {
	return c.do(ctx, http.MethodDelete, "/api/wishlist/remove", wishlistRequest{VariantID: variantID}, nil)
}

// UserOrders fetches the user's order history with nested items.
func (c *Client) UserOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := c.do(ctx, http.MethodGet, "/api/order/user", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOrder deletes one order by id.
func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodDelete, "/api/order/"+orderID, nil, nil)
}

// Chat sends one message to the assistant and returns its reply.
func (c *Client) Chat(ctx context.Context, message, sessionID string) (*ChatReply, error) {
	var out ChatReply
	if err := c.do(ctx, http.MethodPost, "/api/chat", chatRequest{Message: message, SessionID: sessionID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do runs one request/response cycle. Non-2xx statuses become TransportError,
// body parse failures become DecodeError. A context without a deadline gets
// the client timeout applied.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encoding %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &TransportError{URL: url, Status: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{URL: url, Err: err}
	}
	return nil
}
