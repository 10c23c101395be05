package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"quant-dashboard-engine/engine/internal/logger"
	"quant-dashboard-engine/engine/internal/models"
)

// Client talks to the remote pricing/risk service over its three HTTP
// endpoints. It holds no mutable state beyond the underlying http.Client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a pricing service client. Every request carries timeout.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// BaseURL returns the configured service address
func (c *Client) BaseURL() string { return c.baseURL }

// CheckHealth calls GET /health. Any transport failure, non-2xx status or
// unparseable body is an error; callers map errors to the OFFLINE state.
func (c *Client) CheckHealth(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := json.Unmarshal(resp.body, &health); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}
	return &health, nil
}

// UpdateMarketData calls POST /update_market_data for the given tickers.
// Both 200 and 207 Multi-Status are processable responses; any other status
// fails the whole batch.
func (c *Client) UpdateMarketData(ctx context.Context, tickers []string, forceRefresh bool) (*UpdateMarketDataResponse, error) {
	req := UpdateMarketDataRequest{
		Tickers:      tickers,
		ForceRefresh: forceRefresh,
	}

	resp, err := c.doRaw(ctx, http.MethodPost, "/update_market_data", req)
	if err != nil {
		return nil, err
	}

	if resp.statusCode != http.StatusOK && resp.statusCode != http.StatusMultiStatus {
		return nil, httpError(resp.statusCode, resp.body)
	}

	var batch UpdateMarketDataResponse
	if err := json.Unmarshal(resp.body, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse market data response: %w", err)
	}
	batch.Partial = resp.statusCode == http.StatusMultiStatus

	return &batch, nil
}

// CalculateRisk calls POST /calculate_risk with an assembled request and
// returns the engine's metrics. Errors carry display-ready messages.
func (c *Client) CalculateRisk(ctx context.Context, req *models.RiskRequest) (*models.RiskMetrics, error) {
	resp, err := c.do(ctx, http.MethodPost, "/calculate_risk", req)
	if err != nil {
		return nil, err
	}

	var metrics models.RiskMetrics
	if err := json.Unmarshal(resp.body, &metrics); err != nil {
		return nil, fmt.Errorf("failed to parse risk metrics: %w", err)
	}
	return &metrics, nil
}

type response struct {
	statusCode int
	body       []byte
}

// do issues a request and requires a 2xx response
func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}) (*response, error) {
	resp, err := c.doRaw(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if resp.statusCode < 200 || resp.statusCode > 299 {
		return nil, httpError(resp.statusCode, resp.body)
	}
	return resp, nil
}

// doRaw issues a request and returns whatever status came back. Transport
// failures (no response at all) are reported distinctly from HTTP errors.
func (c *Client) doRaw(ctx context.Context, method, endpoint string, body interface{}) (*response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debugf("%s %s transport failure: %v", method, endpoint, err)
		return nil, transportError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	c.log.Debugf("%s %s -> %d (%d bytes)", method, endpoint, httpResp.StatusCode, len(respBody))

	return &response{statusCode: httpResp.StatusCode, body: respBody}, nil
}
