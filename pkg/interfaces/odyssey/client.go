package odyssey

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// UserAgents are rotated at random across requests.
var UserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:132.0) Gecko/20100101 Firefox/132.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36",
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// Client performs the faucet, quest and daily XP calls for one account cookie
// at a time. It is safe for sequential use by a single campaign.
type Client struct {
	config  *Config
	client  *http.Client
	logger  *logrus.Logger
	limiter *rate.Limiter
	rng     *rand.Rand
	proxy   string
}

// NewClient creates a campaign client. When proxies are configured one of them
// is picked at random and used for every request this client makes.
func NewClient(config *Config, opts ...ClientOption) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Client{
		config: config,
		logger: config.Logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if len(config.Proxies) > 0 {
		c.proxy = config.Proxies[c.rng.Intn(len(config.Proxies))]
		proxyURL, err := url.Parse(c.proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", c.proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		c.logger.WithField("proxy", proxyURL.Redacted()).Info("Using proxy for campaign requests")
	}
	c.client = &http.Client{
		Timeout:   config.RequestTimeout,
		Transport: transport,
	}

	if config.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ClaimFaucet asks the faucet to fund wallet with amount UMI.
func (c *Client) ClaimFaucet(ctx context.Context, cookie, wallet string, amount int) (*Response, error) {
	return c.post(ctx, c.config.FaucetURL, cookie, FundRequest{
		WalletAddress: wallet,
		Amount:        amount,
	}, false)
}

// CheckQuest asks the campaign to verify and credit questID for wallet.
func (c *Client) CheckQuest(ctx context.Context, cookie, wallet string, questID int) (*Response, error) {
	var path string
	switch questID {
	case QuestFaucet:
		path = "/quest/check-faucet"
	case QuestTweet:
		path = "/quest/check-tweet"
	default:
		return nil, fmt.Errorf("unknown quest id %d", questID)
	}

	return c.post(ctx, c.config.BaseURL+path, cookie, QuestCheckRequest{
		QuestID:       questID,
		WalletAddress: wallet,
	}, true)
}

// ClaimDailyXP performs the daily check-in for wallet. The endpoint has
// accepted different time zone keys over time, so a 400 that is not an
// already-claimed answer moves on to the next payload shape. The last error
// is returned when every shape is rejected.
func (c *Client) ClaimDailyXP(ctx context.Context, cookie, wallet string) (*Response, error) {
	payloads := []interface{}{
		DailyXPRequest{WalletAddress: wallet, TimeZone: c.config.TimeZone},
		DailyXPRequest{WalletAddress: wallet},
		legacyDailyXPRequest{WalletAddress: wallet, TimeZone: c.config.TimeZone},
	}

	var lastErr error
	for i, payload := range payloads {
		resp, err := c.post(ctx, c.config.BaseURL+"/player/daily-xp", cookie, payload, true)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !payloadRejected(err) {
			return nil, err
		}
		c.logger.WithFields(logrus.Fields{
			"variant": i + 1,
			"error":   err,
		}).Debug("Daily XP payload rejected, trying next shape")
	}
	return nil, lastErr
}

// payloadRejected reports a 400 that does not say the check-in already
// happened.
func payloadRejected(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		return false
	}
	return !strings.Contains(strings.ToLower(apiErr.Message), "already")
}

func (c *Client) post(ctx context.Context, endpoint, cookie string, payload interface{}, questHeaders bool) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	c.setHeaders(req, cookie, questHeaders)

	c.logger.WithFields(logrus.Fields{
		"endpoint":     endpoint,
		"request_body": string(jsonBody),
	}).Debug("Sending campaign request")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.WithFields(logrus.Fields{
		"endpoint":    endpoint,
		"status_code": resp.StatusCode,
		"response":    string(body),
	}).Debug("Received campaign response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return &Response{StatusCode: resp.StatusCode, Body: json.RawMessage(body)}, nil
}

func (c *Client) setHeaders(req *http.Request, cookie string, questHeaders bool) {
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", cookie)
	req.Header.Set("User-Agent", UserAgents[c.rng.Intn(len(UserAgents))])
	if !questHeaders {
		return
	}

	req.Header.Set("Accept-Language", "en-US,en;q=0.6")
	req.Header.Set("Origin", c.config.Origin)
	req.Header.Set("Referer", strings.TrimSuffix(c.config.Origin, "/")+"/quest")
	req.Header.Set("Sec-Ch-Ua", `"Chromium";v="142", "Brave";v="142", "Not_A Brand";v="99"`)
	req.Header.Set("Sec-Ch-Ua-Mobile", "?0")
	req.Header.Set("Sec-Ch-Ua-Platform", `"Windows"`)
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("Sec-Gpc", "1")
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Message = eb.Message
		if apiErr.Message == "" {
			apiErr.Message = eb.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// ParseDailyXP extracts the optional streak telemetry from a check-in answer.
func ParseDailyXP(resp *Response) (*DailyXPResponse, error) {
	var out DailyXPResponse
	if resp == nil || len(resp.Body) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("error decoding daily xp response: %w", err)
	}
	return &out, nil
}
