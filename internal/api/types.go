package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Price decodes a JSON price that may arrive as a number or a quoted decimal
// string. The backend stores prices as decimals and some endpoints serialize
// them as strings.
type Price float64

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*p = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("price %q: %w", s, err)
	}
	*p = Price(f)
	return nil
}

// Float64 returns the price as a plain float.
func (p Price) Float64() float64 { return float64(p) }

// ProductVariant is one catalog row: a product at a specific size and color
// with its stock level. GET /api/tshirts returns a flat list of these.
type ProductVariant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	Price    Price  `json:"price"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"image_url,omitempty"`
}

// CartLine is one entry of the user's cart as returned by GET /api/cart.
type CartLine struct {
	ID       json.Number `json:"id,omitempty"`
	Name     string      `json:"name"`
	Size     string      `json:"size"`
	Color    string      `json:"color"`
	Price    Price       `json:"price"`
	Quantity int         `json:"quantity"`
}

// WishlistItem is one saved variant with its metadata, from GET /api/wishlist.
type WishlistItem struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	VariantID string `json:"variant_id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Price     Price  `json:"price"`
	Stock     int    `json:"stock"`
	ImageURL  string `json:"image_url,omitempty"`
}

// OrderLine is one item nested inside an order.
type OrderLine struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	Price    Price  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Order is one placed order with its nested items, from GET /api/order/user.
type Order struct {
	OrderID     string      `json:"order_id"`
	OrderDate   string      `json:"order_date,omitempty"`
	Status      string      `json:"status,omitempty"`
	TotalAmount Price       `json:"total_amount,omitempty"`
	Items       []OrderLine `json:"items"`
}

// ActionButton is a suggested quick reply attached to an assistant response.
type ActionButton struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ChatReply is the assistant's answer to one message.
type ChatReply struct {
	Response      string         `json:"response"`
	SessionID     string         `json:"session_id,omitempty"`
	ActionButtons []ActionButton `json:"action_buttons,omitempty"`
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type cartAddRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type wishlistRequest struct {
	VariantID string `json:"variant_id"`
}
