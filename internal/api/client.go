package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/findmylink/companion/internal/logger"
)

// ErrUnavailable is the single failure callers see. Unauthorized, forbidden,
// rate-limited and transport failures all collapse into it; the distinction
// is logged for diagnostics but deliberately not exposed, matching the
// backend contract the extension ships with.
var ErrUnavailable = errors.New("backend unavailable")

// Backend is the slice of the remote API the rest of the companion needs.
type Backend interface {
	Profile(ctx context.Context, token string) (*Profile, error)
	Subscription(ctx context.Context, token string, userID int64) (*SubscriptionInfo, error)
	ApplyPromo(ctx context.Context, token, promoCode string) (*PromoResult, error)
	TelegramAuth(ctx context.Context, params map[string]string) (*AuthResult, error)
}

// Client issues plain request/response calls against the FindMyLink backend.
// No retry, no backoff: a failure is terminal for that call. No client-side
// timeout either; cancellation comes only from the caller's context.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

var _ Backend = (*Client)(nil)

func New(baseURL string, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		log:     log,
	}
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context, token string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/api/v1/profile", token, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Subscription fetches the subscription record for a user id.
func (c *Client) Subscription(ctx context.Context, token string, userID int64) (*SubscriptionInfo, error) {
	var sub SubscriptionInfo
	path := fmt.Sprintf("/api/v1/subscription/%d", userID)
	if err := c.get(ctx, path, token, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ApplyPromo redeems a promo code for the authenticated user.
func (c *Client) ApplyPromo(ctx context.Context, token, promoCode string) (*PromoResult, error) {
	body := map[string]string{"promo_code": promoCode}
	var result PromoResult
	if err := c.post(ctx, "/api/v1/apply_promo", token, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TelegramAuth exchanges the signed Telegram login parameters for a token.
func (c *Client) TelegramAuth(ctx context.Context, params map[string]string) (*AuthResult, error) {
	var result AuthResult
	if err := c.post(ctx, "/api/v1/auth/telegram", "", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, token, out)
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, token, out)
}

func (c *Client) do(req *http.Request, token string, out any) error {
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend request failed",
			logger.String("path", req.URL.Path),
			logger.Error(err))
		return ErrUnavailable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logFailure(req.URL.Path, resp)
		return ErrUnavailable
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Warn("backend response not decodable",
			logger.String("path", req.URL.Path),
			logger.Error(err))
		return ErrUnavailable
	}
	return nil
}

// logFailure records which failure kind it actually was. Callers never see
// the difference, but operators do.
func (c *Client) logFailure(path string, resp *http.Response) {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.log.Warn("backend rejected token", logger.String("path", path))
	case http.StatusForbidden:
		c.log.Warn("backend denied client", logger.String("path", path))
	case http.StatusTooManyRequests:
		c.log.Warn("backend rate limit hit", logger.String("path", path))
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("backend error",
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
			logger.String("body", string(snippet)))
	}
}
