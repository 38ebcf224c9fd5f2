// Package stripe is the Stripe Checkout adapter behind ports.PaymentGateway.
package stripe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/righttechcentre/lms-api/internal/api/metrics"
	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.stripe.com"
	defaultTimeout = 15 * time.Second
	provider       = "stripe"
)

// Config holds the Stripe credentials.
type Config struct {
	APIKey        string
	WebhookSecret string
	BaseURL       string
	Timeout       time.Duration
}

// Client talks to the Stripe REST API.
type Client struct {
	http          *resty.Client
	webhookSecret string
	tolerance     time.Duration
	now           func() time.Time
	log           zerolog.Logger
}

var _ ports.PaymentGateway = (*Client)(nil)

func NewClient(cfg Config, log zerolog.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	http := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	return &Client{
		http:          http,
		webhookSecret: cfg.WebhookSecret,
		tolerance:     defaultTolerance,
		now:           time.Now,
		log:           log,
	}
}

type sessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession opens a hosted one-item payment session.
func (c *Client) CreateCheckoutSession(ctx context.Context, req ports.CheckoutRequest) (*domain.CheckoutSession, error) {
	form := map[string]string{
		"mode":                                          "payment",
		"success_url":                                   req.SuccessURL,
		"cancel_url":                                    req.CancelURL,
		"line_items[0][quantity]":                       "1",
		"line_items[0][price_data][currency]":           strings.ToLower(req.Currency),
		"line_items[0][price_data][unit_amount]":        fmt.Sprint(ToMinorUnits(req.Amount)),
		"line_items[0][price_data][product_data][name]": productName(req.Metadata),
	}
	for k, v := range req.Metadata {
		form["metadata["+k+"]"] = v
	}

	var out sessionResponse
	var apiErr errorResponse
	resp, err := c.do(ctx, "create_session", func(r *resty.Request) (*resty.Response, error) {
		if req.IdempotencyKey != "" {
			r.SetHeader("Idempotency-Key", req.IdempotencyKey)
		}
		return r.SetFormData(form).SetResult(&out).SetError(&apiErr).Post("/v1/checkout/sessions")
	})
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, providerError(resp.StatusCode(), apiErr)
	}
	return &domain.CheckoutSession{SessionID: out.ID, URL: out.URL}, nil
}

// GetSessionState fetches the current session status.
func (c *Client) GetSessionState(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	var out sessionResponse
	var apiErr errorResponse
	resp, err := c.do(ctx, "get_session", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", sessionID).SetResult(&out).SetError(&apiErr).Get("/v1/checkout/sessions/{id}")
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 404 {
		return nil, domain.ErrTransactionNotFound
	}
	if resp.IsError() {
		return nil, providerError(resp.StatusCode(), apiErr)
	}
	return &domain.SessionState{
		SessionID:     out.ID,
		Status:        out.Status,
		PaymentStatus: domain.PaymentStatus(out.PaymentStatus),
		AmountTotal:   out.AmountTotal,
		Currency:      out.Currency,
	}, nil
}

func (c *Client) do(ctx context.Context, op string, call func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	start := time.Now()
	resp, err := call(c.http.R().SetContext(ctx))
	outcome := "ok"
	if err != nil || resp.IsError() {
		outcome = "error"
	}
	metrics.ExternalCallDuration.WithLabelValues(provider, outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Error().Err(err).Str("op", op).Msg("stripe request failed")
		return nil, fmt.Errorf("stripe %s: %w", op, domain.NewExternalError("payment provider unreachable"))
	}
	return resp, nil
}

// ToMinorUnits converts a major-unit amount to integer cents, rounding half
// away from zero.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func productName(meta map[string]string) string {
	if name := meta["course_title"]; name != "" {
		return name
	}
	return "Course enrollment"
}

func providerError(status int, e errorResponse) error {
	msg := e.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("payment provider returned status %d", status)
	}
	return domain.NewExternalError(msg)
}
