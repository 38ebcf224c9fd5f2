// Package openai implements ports.ChatModel over an OpenAI-compatible
// chat completions endpoint.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/righttechcentre/lms-api/internal/api/metrics"
	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second
	provider       = "llm"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Client struct {
	http  *resty.Client
	model string
	log   zerolog.Logger
}

var _ ports.ChatModel = (*Client)(nil)

func NewClient(cfg Config, log zerolog.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: resty.New().
			SetBaseURL(base).
			SetTimeout(timeout).
			SetAuthToken(cfg.APIKey).
			SetHeader("Content-Type", "application/json"),
		model: model,
		log:   log,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []ports.ChatMessage) (string, error) {
	body := completionRequest{Model: c.model, Messages: make([]message, 0, len(messages))}
	for _, m := range messages {
		body.Messages = append(body.Messages, message{Role: m.Role, Content: m.Content})
	}

	var out completionResponse
	var apiErr errorResponse
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")

	outcome := "ok"
	if err != nil || resp.IsError() {
		outcome = "error"
	}
	metrics.ExternalCallDuration.WithLabelValues(provider, outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Error().Err(err).Str("model", c.model).Msg("chat completion request failed")
		return "", domain.NewExternalError("AI service unreachable")
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("AI service returned status %d", resp.StatusCode())
		}
		return "", domain.NewExternalError(msg)
	}
	if len(out.Choices) == 0 {
		return "", domain.NewExternalError("AI service returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
