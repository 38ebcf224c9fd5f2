package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

const defaultTolerance = 5 * time.Minute

type event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object sessionResponse `json:"object"`
	} `json:"data"`
}

// handledEvents are the checkout session events that can move a payment.
var handledEvents = map[string]bool{
	"checkout.session.completed":               true,
	"checkout.session.async_payment_succeeded": true,
	"checkout.session.async_payment_failed":    true,
	"checkout.session.expired":                 true,
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event.
// It returns (nil, nil) for well-formed events of types we do not act on.
func (c *Client) ParseWebhook(payload []byte, signature string) (*domain.PaymentNotification, error) {
	if c.webhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook: %w", domain.ErrPaymentNotConfigured)
	}
	if err := verifySignature(payload, signature, c.webhookSecret, c.tolerance, c.now()); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidWebhookPayload, err.Error())
	}

	var ev event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidWebhookPayload, err.Error())
	}
	if !handledEvents[ev.Type] {
		c.log.Debug().Str("event_id", ev.ID).Str("type", ev.Type).Msg("ignoring stripe event")
		return nil, nil
	}

	obj := ev.Data.Object
	status := obj.Status
	paymentStatus := domain.PaymentStatus(obj.PaymentStatus)
	if ev.Type == "checkout.session.async_payment_failed" {
		status = "expired"
		paymentStatus = domain.PaymentUnpaid
	}
	return &domain.PaymentNotification{
		EventID:       ev.ID,
		SessionID:     obj.ID,
		Status:        status,
		PaymentStatus: paymentStatus,
	}, nil
}

// verifySignature checks a header of the form "t=<unix>,v1=<hex>[,v1=...]"
// against HMAC-SHA256(secret, "<t>.<payload>").
func verifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	var ts int64
	var sigs [][]byte
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("bad timestamp")
			}
			ts = n
		case "v1":
			b, err := hex.DecodeString(v)
			if err == nil {
				sigs = append(sigs, b)
			}
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	signedAt := time.Unix(ts, 0)
	if tolerance > 0 && (now.Sub(signedAt) > tolerance || signedAt.Sub(now) > tolerance) {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	expected := computeSignature(payload, secret, ts)
	for _, s := range sigs {
		if hmac.Equal(s, expected) {
			return nil
		}
	}
	return fmt.Errorf("signature mismatch")
}

func computeSignature(payload []byte, secret string, ts int64) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignatureHeader builds a Stripe-Signature value; used by tests and local tooling.
func SignatureHeader(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(computeSignature(payload, secret, ts)))
}
