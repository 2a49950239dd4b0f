// Package penteclient talks to a running pente server.
package penteclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/park285/pente-server/pkg/pentedto"
	"github.com/valyala/fasthttp"
)

// APIError is a non-2xx reply. Message is the server's "error" text when
// the body carried one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("pente api error: status=%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("pente api error: status=%d", e.Status)
}

// IsMessage reports whether err is an APIError carrying msg.
func IsMessage(err error, msg string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Message == msg
}

type Client struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

// WithDial replaces the TCP dialer, e.g. with an in-memory listener.
func WithDial(dial func(addr string) (net.Conn, error)) Option {
	return func(c *Client) { c.http.Dial = dial }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 64},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewGame starts a game with the computer playing aiSide.
func (c *Client) NewGame(ctx context.Context, aiSide string) (*pentedto.NewGameResponse, error) {
	var out pentedto.NewGameResponse
	if err := c.getJSON(ctx, "/newgame/"+aiSide, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// NextMove plays the human stone and returns the computer's reply.
// Moves are never retried.
func (c *Client) NextMove(ctx context.Context, id, row, col int) (*pentedto.MoveResponse, error) {
	path := "/nextmove/" + strconv.Itoa(id) + "/" + strconv.Itoa(row) + "/" + strconv.Itoa(col)
	var out pentedto.MoveResponse
	if err := c.getJSON(ctx, path, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) State(ctx context.Context, id int) (*pentedto.StateResponse, error) {
	var out pentedto.StateResponse
	if err := c.getJSON(ctx, "/state/"+strconv.Itoa(id), &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (*pentedto.HealthResponse, error) {
	var out pentedto.HealthResponse
	if err := c.getJSON(ctx, "/healthz", &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any, retry bool) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()
	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(c.baseURL + path)

	attempts := 1
	if retry && c.retryMax > 1 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx))
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
		} else if status := resp.StatusCode(); status < 200 || status >= 300 {
			apiErr := &APIError{Status: status}
			var body pentedto.ErrorResponse
			if json.Unmarshal(resp.Body(), &body) == nil {
				apiErr.Message = body.Error
			}
			if !shouldRetryStatus(status) {
				return apiErr
			}
			lastErr = apiErr
		} else {
			if out != nil {
				if err := json.Unmarshal(resp.Body(), out); err != nil {
					return fmt.Errorf("decode response: %w", err)
				}
			}
			return nil
		}
		if attempt == attempts {
			break
		}
		if err := c.sleepWithContext(ctx, backoffDuration(attempt)); err != nil {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func (c *Client) sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	attempt = min(max(attempt, 1), 6)
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
