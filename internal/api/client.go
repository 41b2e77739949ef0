// Package api wraps the procurement backend's REST endpoints. Every
// method issues exactly one request, normalizes the payload into a
// fully-defaulted shape and reports failures as a single wrapped
// error. No retries, no caching, no request deduplication.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"procure-desk/internal/bus"
	"procure-desk/internal/config"
	"procure-desk/internal/metrics"
	"procure-desk/internal/session"
)

type Client struct {
	baseURL string
	http    *http.Client
	sess    *session.Session
	log     *zap.Logger
	bus     *bus.Bus
}

// New builds a client against cfg's base URL. sess may be nil until
// Login; b may be nil when nobody listens for write notifications.
func New(cfg *config.Config, sess *session.Session, log *zap.Logger, b *bus.Bus) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.API.RequestTimeout,
			Transport: &metrics.RoundTripper{},
		},
		sess: sess,
		log:  log,
		bus:  b,
	}
}

// SetSession swaps the authenticated identity, e.g. after Login.
func (c *Client) SetSession(sess *session.Session) {
	c.sess = sess
}

// errorBody is the backend's 4xx/5xx response shape.
type errorBody struct {
	Error string `json:"error"`
}

// do issues one request and decodes the response into out (when out is
// non-nil). Server-reported errors come back as plain errors carrying
// the backend's message; callers add the "failed to <action>" context.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sess != nil && c.sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.sess.Token)
	}

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Error != "" {
			return errors.New(eb.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
