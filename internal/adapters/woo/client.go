package woo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/infra/retry"
	"inventory-sync/internal/logging"
)

const apiPrefix = "/wp-json/wc/v3"

type Client struct {
	config     config.StorefrontConfig
	timeout    time.Duration
	httpClient *http.Client
	logger     logging.LoggerService
	retry      retry.Policy
}

func NewClient(cfg config.StorefrontConfig, syncCfg config.SyncConfig, httpClient *http.Client, logger logging.LoggerService) *Client {
	timeout := syncCfg.RequestTimeout
	if timeout <= 0 {
		timeout = 40 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	delay := syncCfg.RetryDelay
	if delay <= 0 {
		delay = retry.DefaultDelay
	}
	return &Client{
		config:     cfg,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
		retry:      retry.NewLinear(syncCfg.RetryAttempts, delay, isTransient),
	}
}

// WithRetry replaces the read retry policy.
func (c *Client) WithRetry(p retry.Policy) *Client {
	c.retry = p
	return c
}

func (c *Client) Name() string {
	return c.config.Client
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(c.config.BaseUrl), "/")
	if base == "" {
		return "", errors.New("woocommerce base url is empty")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	endpoint := base + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint, nil
}

// do issues one request under the per-call timeout and returns the raw body
// and headers of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, http.Header, error) {
	endpoint, err := c.endpoint(path, query)
	if err != nil {
		return nil, nil, err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(raw)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, method, endpoint, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.config.Key, c.config.Secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, classifyTransportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, newHTTPStatusError(resp.StatusCode, resp.Status, respBody)
	}
	return respBody, resp.Header, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) (http.Header, error) {
	raw, header, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", model.ErrRemoteUnavailable, path, err)
	}
	return header, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any, out any) error {
	raw, _, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", model.ErrRemoteUnavailable, path, err)
	}
	return nil
}

func (c *Client) logError(message string, err error, args ...any) {
	if c.logger == nil || err == nil {
		return
	}
	c.logger.LogError(message, err, append(args, "client", c.config.Client)...)
}

func (c *Client) logDebug(message string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Log(message, append(args, "client", c.config.Client)...)
}
