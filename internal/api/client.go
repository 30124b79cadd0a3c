// Package api is the client for the remote ChooseYourCart REST API.
// Every response is wrapped in a {success, data, message} envelope;
// validation failures carry a field-keyed errors map which is flattened
// into a single human-readable string.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Paginated mirrors the API's Laravel-style page wrapper.
type Paginated[T any] struct {
	CurrentPage int     `json:"current_page"`
	Data        []T     `json:"data"`
	From        int     `json:"from"`
	LastPage    int     `json:"last_page"`
	NextPageURL *string `json:"next_page_url"`
	PerPage     int     `json:"per_page"`
	PrevPageURL *string `json:"prev_page_url"`
	To          int     `json:"to"`
	Total       int     `json:"total"`
}

// flattenErrors turns a field-keyed error map into
// "field: msg1, msg2; field2: msg3". Fields are sorted so the message
// is stable.
func flattenErrors(errs map[string][]string) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(errs[f], ", ")))
	}
	return strings.Join(parts, "; ")
}

// doRaw performs a request and returns the raw body of a 2xx response.
// Non-2xx bodies are converted into displayable errors, flattening the
// field-keyed errors map when present.
func (c *Client) doRaw(ctx context.Context, method, path, token string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			if len(eb.Errors) > 0 {
				return nil, fmt.Errorf("validation failed: %s", flattenErrors(eb.Errors))
			}
			if eb.Message != "" {
				return nil, fmt.Errorf("%s", eb.Message)
			}
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return raw, nil
}

// do performs a request and unmarshals the envelope's data into out.
// out may be nil when the caller only cares about success.
func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out any) error {
	raw, err := c.doRaw(ctx, method, path, token, body, contentType)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("invalid response format: %w", err)
	}
	if !env.Success {
		if env.Message != "" {
			return fmt.Errorf("%s", env.Message)
		}
		return fmt.Errorf("request was not successful")
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = strings.NewReader(string(b))
	}
	return c.do(ctx, http.MethodPost, path, token, body, "application/json", out)
}

func (c *Client) putJSON(ctx context.Context, path, token string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPut, path, token, strings.NewReader(string(b)), "application/json", out)
}
