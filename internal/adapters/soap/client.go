package soap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"
)

const (
	opAllItems       = "wsp_request_bodega_all_items"
	opClientAllItems = "wsc_request_bodega_all_items"
)

type Client struct {
	httpClient *http.Client
	logger     logging.LoggerService
}

func NewClient(httpClient *http.Client, logger logging.LoggerService) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient, logger: logger}
}

// FetchAll returns every warehouse item visible to the provider account.
func (c *Client) FetchAll(ctx context.Context, creds config.SoapConfig) ([]Record, error) {
	return c.call(ctx, creds, opAllItems, []param{
		{Name: "ws_pid", Value: creds.Pid},
		{Name: "ws_passwd", Value: creds.Password},
		{Name: "bid", Value: creds.Bid},
	})
}

// FetchTierPrices returns the warehouse items priced for the client account
// behind a price tier.
func (c *Client) FetchTierPrices(ctx context.Context, creds config.SoapConfig) ([]model.TierItem, error) {
	records, err := c.call(ctx, creds, opClientAllItems, []param{
		{Name: "ws_cid", Value: creds.Cid},
		{Name: "ws_passwd", Value: creds.Password},
		{Name: "bid", Value: creds.Bid},
	})
	if err != nil {
		return nil, err
	}
	items := make([]model.TierItem, 0, len(records))
	for _, r := range records {
		items = append(items, r.TierItem())
	}
	return items, nil
}

func (c *Client) call(ctx context.Context, creds config.SoapConfig, operation string, params []param) ([]Record, error) {
	endpoint, err := endpointFor(creds.SiretUrl)
	if err != nil {
		return nil, err
	}
	body, err := buildEnvelope(operation, params)
	if err != nil {
		return nil, err
	}

	timeout := creds.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", serviceNS+"#"+operation)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("soap %s: %w: %w", operation, model.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("soap %s: %w: %w", operation, model.ErrTransientNetwork, err)
	}
	// Faults come back as 500 with a fault body; decode those for the message.
	if resp.StatusCode >= 300 && !bytes.Contains(raw, []byte("Fault")) {
		return nil, fmt.Errorf("soap %s: %w: %s", operation, model.ErrRemoteUnavailable, resp.Status)
	}

	records, err := decodeResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("soap %s: %w: %w", operation, model.ErrRemoteUnavailable, err)
	}
	if c.logger != nil {
		c.logger.Log("soap call completed", "operation", operation, "provider", creds.Client,
			"items", len(records), "elapsed", time.Since(start).String())
	}
	return records, nil
}

func endpointFor(siretURL string) (string, error) {
	host := strings.TrimRight(strings.TrimSpace(siretURL), "/")
	if host == "" {
		return "", fmt.Errorf("soap provider url is empty")
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host + "/webservice.php", nil
	}
	return "https://" + host + ":443/webservice.php", nil
}
