package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource supplies the bearer token attached to authenticated requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is the central request layer: it builds requests against the API
// base URL, injects the bearer token, and normalizes every failure into an
// *Error carrying a human-readable message.
type Client struct {
	baseURL     string
	openBaseURL string
	httpClient  *http.Client
	tokens      TokenSource
	log         zerolog.Logger
}

func NewClient(baseURL, openBaseURL string, timeout time.Duration, tokens TokenSource, log zerolog.Logger) *Client {
	if openBaseURL == "" {
		openBaseURL = baseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		openBaseURL: strings.TrimRight(openBaseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		tokens:      tokens,
		log:         log,
	}
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out, true)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// GetOpen and PostOpen hit the unauthenticated endpoints (public doctor
// directory, patient-initiated appointment creation).
func (c *Client) GetOpen(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out, false)
}

func (c *Client) PostOpen(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, authed bool) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return &Error{Kind: KindUnexpected, Message: MsgUnexpected}
		}
		reader = buf
		contentType = "application/json"
	}
	return c.roundTrip(ctx, method, path, reader, contentType, out, authed)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}, authed bool) error {
	base := c.baseURL
	if !authed {
		base = c.openBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return &Error{Kind: KindUnexpected, Message: MsgUnexpected}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		} else {
			c.log.Debug().Str("path", path).Msg("no token available for authenticated request")
		}
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		apiErr := transportError(err)
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("transport failure")
		return apiErr
	}
	defer res.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
		return serverError(res.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return &Error{Kind: KindUnexpected, Message: MsgUnexpected}
	}
	return nil
}

// Download fetches a binary attachment. It returns the raw bytes, the
// content type, and the filename suggested by the Content-Disposition
// header when present.
func (c *Client) Download(ctx context.Context, path string) ([]byte, string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", "", &Error{Kind: KindUnexpected, Message: MsgUnexpected}
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, "", "", transportError(err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
		return nil, "", "", serverError(res.StatusCode, data)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", "", &Error{Kind: KindUnexpected, Message: MsgUnexpected}
	}
	return data, res.Header.Get("Content-Type"), dispositionFilename(res.Header.Get("Content-Disposition")), nil
}

func dispositionFilename(disposition string) string {
	for _, part := range strings.Split(disposition, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "filename=") {
			name := strings.TrimPrefix(part, "filename=")
			name = strings.Trim(name, `"`)
			if unescaped, err := url.QueryUnescape(name); err == nil {
				return unescaped
			}
			return name
		}
	}
	return ""
}
