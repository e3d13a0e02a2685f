package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/mrjones/oauth"
	"github.com/sirupsen/logrus"
)

// ClientOption allows for customization of the client
type ClientOption func(*TwitterClient)

// WithTransport overrides the base transport used beneath OAuth signing.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *TwitterClient) {
		c.transport = rt
	}
}

// TwitterClient posts and deletes tweets on behalf of any credential set.
type TwitterClient struct {
	config    *TwitterConfig
	logger    *logrus.Logger
	transport http.RoundTripper

	mu      sync.Mutex
	clients map[string]*http.Client
}

// NewTwitterClient creates a new Twitter API client
func NewTwitterClient(config *TwitterConfig, opts ...ClientOption) (*TwitterClient, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := &TwitterClient{
		config:  config,
		logger:  config.Logger,
		clients: make(map[string]*http.Client),
	}

	if config.ProxyURL != "" {
		proxyURL, err := url.Parse(config.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		client.transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// httpClientFor returns the cached signing client for creds.
func (c *TwitterClient) httpClientFor(creds Credentials) (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := creds.ConsumerKey + ":" + creds.AccessToken
	if hc, ok := c.clients[key]; ok {
		return hc, nil
	}

	hc, err := newUserClient(creds, c.config.RequestTimeout, c.transport)
	if err != nil {
		return nil, err
	}
	c.clients[key] = hc
	return hc, nil
}

// handleResponse checks for API errors in the response
func (c *TwitterClient) handleResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case len(errResp.Errors) > 0:
			apiErr.Code = errResp.Errors[0].Code
			apiErr.Message = errResp.Errors[0].Message
		case errResp.Detail != "":
			apiErr.Message = errResp.Detail
		default:
			apiErr.Message = errResp.Title
		}
	} else {
		apiErr.Message = string(body)
	}

	c.logger.WithFields(logrus.Fields{
		"status_code": apiErr.StatusCode,
		"error_code":  apiErr.Code,
		"message":     apiErr.Message,
	}).Error("Twitter API error")

	return apiErr
}

// makeRequest sends a signed request and returns the status-checked body.
func (c *TwitterClient) makeRequest(ctx context.Context, creds Credentials, method, endpoint string, body interface{}) ([]byte, error) {
	httpClient, err := c.httpClientFor(creds)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
		c.logger.WithField("request_body", string(jsonBody)).Debug("Request payload")
	}

	fullURL := c.config.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		// The OAuth round tripper turns non-200/201 answers into errors.
		var execErr oauth.HTTPExecuteError
		if errors.As(err, &execErr) {
			return nil, c.handleResponse(&http.Response{StatusCode: execErr.StatusCode}, execErr.ResponseBodyBytes)
		}
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"response":    string(respBody),
		"endpoint":    endpoint,
		"method":      method,
		"credentials": creds.Name,
	}).Debug("received twitter API response")

	if err := c.handleResponse(resp, respBody); err != nil {
		return nil, err
	}
	return respBody, nil
}
