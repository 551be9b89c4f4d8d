package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

// Client is an HTTP client with retry and timeout support for Solana RPC.
// Retry policy lives here, in the transport: the pool pipeline above it
// performs each logical fetch exactly once.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logrus.Logger
}

// ClientConfig holds configuration for the RPC client
type ClientConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *logrus.Logger
}

// NewClient creates a new RPC client with retry support
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:      cfg.BaseURL,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
		logger:       cfg.Logger,
	}
}

// Call makes a JSON-RPC call with retry logic
func (c *Client) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"backoff": backoff,
				"method":  method,
			}).Debug("retrying RPC call")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2 // exponential backoff
		}

		resp, err := c.doRequest(ctx, data)
		if err != nil {
			lastErr = err
			continue
		}

		if err := json.Unmarshal(resp, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limited (429)")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// decodeAccountData decodes the ["<data>", "<encoding>"] tuple returned by
// account-bearing RPC methods.
func decodeAccountData(tuple []string) ([]byte, error) {
	if len(tuple) != 2 {
		return nil, fmt.Errorf("unexpected account data shape (%d elements)", len(tuple))
	}
	switch tuple[1] {
	case "base64":
		return base64.StdEncoding.DecodeString(tuple[0])
	case "base58":
		return base58.Decode(tuple[0])
	default:
		return nil, fmt.Errorf("unsupported account data encoding %q", tuple[1])
	}
}

// GetProgramAccounts fetches all accounts owned by programID whose data is
// exactly dataSize bytes long. The size filter is applied server-side; data
// is returned raw for the caller to decode.
func (c *Client) GetProgramAccounts(ctx context.Context, programID string, dataSize uint64) ([]KeyedAccount, error) {
	params := []interface{}{
		programID,
		map[string]interface{}{
			"encoding": "base64",
			"filters": []interface{}{
				map[string]interface{}{"dataSize": dataSize},
			},
		},
	}

	var result ProgramAccountsResponse
	if err := c.Call(ctx, "getProgramAccounts", params, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}

	out := make([]KeyedAccount, 0, len(result.Result))
	for _, entry := range result.Result {
		data, err := decodeAccountData(entry.Account.Data)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", entry.Pubkey, err)
		}
		out = append(out, KeyedAccount{
			Address: entry.Pubkey,
			Owner:   entry.Account.Owner,
			Data:    data,
		})
	}
	return out, nil
}

// GetAccountInfo fetches a single account's raw data.
func (c *Client) GetAccountInfo(ctx context.Context, address string) (*KeyedAccount, error) {
	params := []interface{}{
		address,
		map[string]interface{}{"encoding": "base64"},
	}

	var result AccountInfoResponse
	if err := c.Call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}
	if result.Result.Value == nil {
		return nil, fmt.Errorf("account %s not found", address)
	}

	data, err := decodeAccountData(result.Result.Value.Data)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", address, err)
	}
	return &KeyedAccount{
		Address: address,
		Owner:   result.Result.Value.Owner,
		Data:    data,
	}, nil
}

// GetTokenAccountBalance returns the raw amount held by an SPL token account.
func (c *Client) GetTokenAccountBalance(ctx context.Context, address string) (uint64, error) {
	params := []interface{}{address}

	var result TokenAccountBalanceResponse
	if err := c.Call(ctx, "getTokenAccountBalance", params, &result); err != nil {
		return 0, err
	}
	if result.Error != nil {
		return 0, result.Error
	}

	amount, err := strconv.ParseUint(result.Result.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", result.Result.Value.Amount, err)
	}
	return amount, nil
}

// GetBalance returns the native lamport balance of an account.
func (c *Client) GetBalance(ctx context.Context, address string) (uint64, error) {
	params := []interface{}{address}

	var result BalanceResponse
	if err := c.Call(ctx, "getBalance", params, &result); err != nil {
		return 0, err
	}
	if result.Error != nil {
		return 0, result.Error
	}
	return result.Result.Value, nil
}

// GetTransaction fetches full transaction details
func (c *Client) GetTransaction(ctx context.Context, signature string) (*TransactionResponse, error) {
	params := []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "jsonParsed",
			"maxSupportedTransactionVersion": 0,
		},
	}

	var result TransactionResponse
	if err := c.Call(ctx, "getTransaction", params, &result); err != nil {
		return nil, err
	}

	if result.Error != nil {
		return nil, result.Error
	}

	return &result, nil
}
