package okx

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tokenlens/internal/config"
)

const quotePath = "/api/v5/dex/aggregator/quote"

type Client struct {
	host       string
	apiKey     string
	secretKey  string
	passphrase string
	projectID  string

	maxAttempts  int
	retryBackoff time.Duration

	httpClient *http.Client
}

type APIError struct {
	Status int
	Code   string
	Msg    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("okx API error (http %d, code %s): %s", e.Status, e.Code, e.Msg)
}

func NewClient(httpClient *http.Client, cfg config.OKXConfig) *Client {
	host := strings.TrimRight(cfg.BaseURL, "/")
	if host == "" {
		host = "https://www.okx.com"
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Client{
		host:         host,
		apiKey:       cfg.APIKey,
		secretKey:    cfg.SecretKey,
		passphrase:   cfg.Passphrase,
		projectID:    cfg.ProjectID,
		maxAttempts:  maxAttempts,
		retryBackoff: backoff,
		httpClient:   httpClient,
	}
}

// QuoteParams identify one swap-quote lookup: 1 unit of the target token
// against the chain's reference stablecoin.
type QuoteParams struct {
	ChainID          string
	FromTokenAddress string
	ToTokenAddress   string
	Amount           string
	Slippage         string
}

type Quote struct {
	FromToken QuoteToken `json:"fromToken"`
	ToToken   QuoteToken `json:"toToken"`
}

type QuoteToken struct {
	TokenContractAddress string `json:"tokenContractAddress"`
	TokenSymbol          string `json:"tokenSymbol"`
	TokenName            string `json:"tokenName"`
	TokenUnitPrice       string `json:"tokenUnitPrice"`
	Decimal              string `json:"decimal"`
	LogoURL              string `json:"logoUrl"`
}

type quoteEnvelope struct {
	Code string  `json:"code"`
	Msg  string  `json:"msg"`
	Data []Quote `json:"data"`
}

// GetQuote fetches a swap quote. The read is idempotent, so transient
// failures (transport errors, 429, 5xx) are retried with linear backoff.
func (c *Client) GetQuote(ctx context.Context, params QuoteParams) (*Quote, error) {
	if params.ChainID == "" || params.FromTokenAddress == "" || params.ToTokenAddress == "" {
		return nil, errors.New("chain id, from and to token addresses are required")
	}
	if params.Amount == "" {
		params.Amount = "1"
	}

	query := url.Values{}
	query.Set("chainId", params.ChainID)
	query.Set("fromTokenAddress", params.FromTokenAddress)
	query.Set("toTokenAddress", params.ToTokenAddress)
	query.Set("amount", params.Amount)
	if params.Slippage != "" {
		query.Set("slippage", params.Slippage)
	}

	body, err := c.doRequest(ctx, quotePath, query)
	if err != nil {
		return nil, err
	}

	var env quoteEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	if env.Code != "0" {
		return nil, &APIError{Status: http.StatusOK, Code: env.Code, Msg: env.Msg}
	}
	if len(env.Data) == 0 {
		return nil, errors.New("quote response contained no data")
	}
	return &env.Data[0], nil
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	requestPath := path + "?" + query.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt-1) * c.retryBackoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.doOnce(ctx, requestPath)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, requestPath string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+requestPath, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	c.sign(req, requestPath)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, &APIError{Status: resp.StatusCode, Msg: strings.TrimSpace(string(body))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, &APIError{Status: resp.StatusCode, Msg: strings.TrimSpace(string(body))}
	}
	return body, false, nil
}

// sign adds the OK-ACCESS-* headers: an HMAC-SHA256 over
// timestamp + method + requestPath, base64-encoded.
func (c *Client) sign(req *http.Request, requestPath string) {
	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(timestamp + http.MethodGet + requestPath))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OK-ACCESS-KEY", c.apiKey)
	req.Header.Set("OK-ACCESS-SIGN", signature)
	req.Header.Set("OK-ACCESS-TIMESTAMP", timestamp)
	req.Header.Set("OK-ACCESS-PASSPHRASE", c.passphrase)
	if c.projectID != "" {
		req.Header.Set("OK-ACCESS-PROJECT", c.projectID)
	}
}
