// Package upstream fetches the message collection from the upstream HTTP API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/november7/message-search/internal/metrics"
	"github.com/november7/message-search/internal/model"
)

// Client drains the upstream messages endpoint. Transport failures are retried
// with exponential backoff; a payload that cannot be decoded is not retried.
type Client struct {
	http       *resty.Client
	url        string
	maxRetries int
	log        zerolog.Logger
}

// New creates a Client for the given messages URL.
func New(url string, timeout time.Duration, maxRetries int, log zerolog.Logger) *Client {
	c := resty.New().
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{http: c, url: url, maxRetries: maxRetries, log: log}
}

// envelope is the documented upstream response shape.
type envelope struct {
	Total int             `json:"total"`
	Items []model.Message `json:"items"`
}

// FetchAll returns every message from the upstream API in arrival order.
// Errors wrap model.ErrSourceUnavailable (transport, non-2xx status) or
// model.ErrMalformedData (undecodable payload).
func (c *Client) FetchAll(ctx context.Context) ([]model.Message, error) {
	var msgs []model.Message

	op := func() error {
		out, err := c.fetchOnce(ctx)
		if err != nil {
			// Only transport-level failures are worth another attempt.
			if !errors.Is(err, model.ErrSourceUnavailable) {
				return backoff.Permanent(err)
			}
			return err
		}
		msgs = out
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)
	notify := func(err error, next time.Duration) {
		metrics.UpstreamFetchRetriesTotal.Inc()
		c.log.Warn().Err(err).Dur("retry_in", next).Msg("upstream fetch failed, retrying")
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return msgs, nil
}

// fetchOnce performs a single GET and decodes the payload.
func (c *Client) fetchOnce(ctx context.Context) ([]model.Message, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", model.ErrSourceUnavailable, resp.StatusCode())
	}
	return decodePayload(resp.Body())
}

// decodePayload accepts the documented {"total": N, "items": [...]} envelope,
// or a bare array as a fallback.
func decodePayload(body []byte) ([]model.Message, error) {
	trimmed := strings.TrimLeftFunc(string(body), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	switch {
	case strings.HasPrefix(trimmed, "{"):
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, wrapMalformed(err)
		}
		if env.Items == nil {
			return nil, fmt.Errorf("%w: response object has no items field", model.ErrMalformedData)
		}
		return env.Items, nil
	case strings.HasPrefix(trimmed, "["):
		var items []model.Message
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, wrapMalformed(err)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: response is neither object nor array", model.ErrMalformedData)
	}
}

// wrapMalformed keeps the sentinel when the message decoder already attached
// it, and attaches it otherwise (syntax errors and the like).
func wrapMalformed(err error) error {
	if errors.Is(err, model.ErrMalformedData) {
		return err
	}
	return fmt.Errorf("%w: %v", model.ErrMalformedData, err)
}
