package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// Key modes reported by KeyMode.
const (
	ModeLive    = "LIVE"
	ModeTest    = "TEST"
	ModeUnknown = "UNKNOWN"
)

// KeyMode classifies a secret key by its prefix.
func KeyMode(key string) string {
	switch {
	case strings.HasPrefix(key, "sk_live_"):
		return ModeLive
	case strings.HasPrefix(key, "sk_test_"):
		return ModeTest
	}
	return ModeUnknown
}

// MaskEmail keeps the first two characters of the local part, e.g. "al***@example.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	if len(local) > 2 {
		local = local[:2]
	}
	return local + "***@" + domain
}

// Amount is a balance entry in the smallest currency unit.
type Amount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Balance is the account balance returned by GET /v1/balance.
type Balance struct {
	Object    string   `json:"object"`
	LiveMode  bool     `json:"livemode"`
	Available []Amount `json:"available"`
	Pending   []Amount `json:"pending"`
}

// Customer is the subset of customer fields the probe displays.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Subscription is the subset of subscription fields the probe displays.
type Subscription struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Customer string `json:"customer"`
}

// List is a page of a Stripe list endpoint.
type List[T any] struct {
	Data    []T  `json:"data"`
	HasMore bool `json:"has_more"`
}

// Balance retrieves the account balance. It is the cheapest authenticated call.
func (c *Client) Balance(ctx context.Context) (*Balance, error) {
	var result Balance
	if err := c.Get(ctx, "/v1/balance", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListCustomers returns at most limit customers.
func (c *Client) ListCustomers(ctx context.Context, limit int) (*List[Customer], error) {
	var result List[Customer]
	if err := c.Get(ctx, "/v1/customers", limitQuery(limit), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListSubscriptions returns at most limit subscriptions.
func (c *Client) ListSubscriptions(ctx context.Context, limit int) (*List[Subscription], error) {
	var result List[Subscription]
	if err := c.Get(ctx, "/v1/subscriptions", limitQuery(limit), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}
