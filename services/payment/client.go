package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"payment-form/models"
	"payment-form/types"
)

const (
	AuthorizePath    = "/api/payments"
	ProxyThreeDSPath = "/api/payments/proxy-3ds"
	RequestTimeout   = 30 * time.Second
	maxBodyBytes     = 1 << 20
)

// TransportError reports a failed call to the payment backend.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks JSON over HTTP to the payment backend.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

func (c *Client) Authorize(ctx context.Context, req *models.PaymentRequest) (*models.AuthorizationResponse, error) {
	startTime := time.Now()

	c.logger.Info("Sending payment request",
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency),
		zap.String("card_last4", req.LastFour()))

	body, err := c.post(ctx, AuthorizePath, req, "application/json")
	if err != nil {
		return nil, err
	}

	c.logger.Info("Payment response received", zap.Duration("elapsed", time.Since(startTime)))

	cleanBody := bytes.TrimPrefix(body, []byte("\ufeff"))

	var resp models.AuthorizationResponse
	if err := json.Unmarshal(cleanBody, &resp); err != nil {
		return nil, &TransportError{
			Endpoint: AuthorizePath,
			Err:      fmt.Errorf("error decoding response: %w", err),
		}
	}
	return &resp, nil
}

func (c *Client) ProxyChallenge(ctx context.Context, req *types.ThreeDSProxyRequest) ([]byte, error) {
	c.logger.Info("Requesting 3D Secure form from proxy", zap.String("acs_url", req.ACSURL))
	return c.post(ctx, ProxyThreeDSPath, req, "text/html")
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, accept string) ([]byte, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: fmt.Errorf("error reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Payment backend returned an error status",
			zap.String("endpoint", path),
			zap.Int("status", resp.StatusCode))
		return nil, &TransportError{Endpoint: path, StatusCode: resp.StatusCode}
	}

	return respBody, nil
}
