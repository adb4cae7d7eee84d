package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to a Stripe-style hosted checkout REST API.  Requests are
// form-encoded and authenticated with a bearer secret key.  All calls
// carry a bounded timeout so a slow provider surfaces as a retryable
// error instead of hanging a verification request.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient constructs a Client for the given API base URL and secret
// key.  A non-positive timeout defaults to 10 seconds.
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

// sessionPayload mirrors the provider's JSON representation of a session.
type sessionPayload struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

// apiError mirrors the provider's error envelope.
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateSession creates a hosted checkout session with a single line
// item for the given amount and returns its id and redirect URL.
func (c *Client) CreateSession(ctx context.Context, p SessionParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", p.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(p.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", p.ProductName)
	if p.ProductDescription != "" {
		form.Set("line_items[0][price_data][product_data][description]", p.ProductDescription)
	}
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)
	if p.CustomerEmail != "" {
		form.Set("customer_email", p.CustomerEmail)
	}
	for k, v := range p.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	payload, err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	return payload.toSession(), nil
}

// GetSession retrieves a session by id, including its payment status and
// the metadata attached at creation time.
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	payload, err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return payload.toSession(), nil
}

func (p *sessionPayload) toSession() *Session {
	md := p.Metadata
	if md == nil {
		md = map[string]string{}
	}
	return &Session{
		ID:               p.ID,
		URL:              p.URL,
		PaymentStatus:    p.PaymentStatus,
		AmountTotalCents: p.AmountTotal,
		Metadata:         md,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*sessionPayload, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment provider request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("payment provider response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("payment provider: %s (status %d)", apiErr.Error.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("payment provider: unexpected status %d", resp.StatusCode)
	}

	var payload sessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("payment provider: decode session: %w", err)
	}
	return &payload, nil
}
