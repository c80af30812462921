package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kudosnotify/internal/types"
)

// resendAPIBase is the default Resend API base URL.
// Overridable in tests via ResendClientConfig.BaseURL.
const resendAPIBase = "https://api.resend.com"

// ResendClientConfig holds the configuration for creating a ResendClient.
type ResendClientConfig struct {
	APIKey      types.SecretString
	BaseURL     string // Override for testing; defaults to resendAPIBase
	RetryPolicy RetryPolicy
	Logger      *slog.Logger
	SleepFn     func(time.Duration) // Override for testing; defaults to time.Sleep
}

// ResendClient implements EmailProvider by making direct HTTP calls to
// the Resend /emails endpoint through BaseClient, which supplies the
// bounded-retry and circuit-breaking behavior and makes testing with
// httptest straightforward.
type ResendClient struct {
	base    *BaseClient
	apiKey  types.SecretString
	baseURL string
	logger  *slog.Logger
}

// NewResendClient creates a new ResendClient. The httpClient timeout
// bounds each individual attempt (10s in production) so the retry loop
// cannot hang indefinitely.
func NewResendClient(httpClient *http.Client, cfg ResendClientConfig) *ResendClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = resendAPIBase
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	policy := cfg.RetryPolicy
	if policy.MaxAttempts == 0 {
		policy = DefaultRetryPolicy()
	}

	sleepFn := cfg.SleepFn
	if sleepFn == nil {
		sleepFn = time.Sleep
	}

	base := NewBaseClient(
		httpClient,
		"resend",
		policy,
		"Kudosnotify/1.0",
		WithSleepFunc(sleepFn),
		WithAttemptObserver(func(attempt int, err error) {
			if err != nil {
				logger.Warn("email send attempt failed",
					"attempt", attempt,
					"error", err,
				)
				return
			}
			logger.Info("email send attempt succeeded", "attempt", attempt)
		}),
	)

	return &ResendClient{
		base:    base,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// resendMessage is the Resend /emails JSON request body.
type resendMessage struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html"`
	Headers map[string]string `json:"headers,omitempty"`
}

// resendReceipt is the Resend /emails success response body.
type resendReceipt struct {
	ID string `json:"id"`
}

// resendErrorResponse is the JSON error body returned by Resend.
type resendErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send transmits an email via the Resend API and returns the provider
// receipt on success. Transport failures, 429s, and 5xx responses are
// retried by BaseClient up to the configured attempt bound with linearly
// increasing backoff; each attempt is logged with its attempt number.
//
// If the API key is not configured, Send fails immediately with a
// configuration error: no network attempt is made and the retry loop is
// never entered.
func (c *ResendClient) Send(ctx context.Context, envelope types.Envelope) (*types.ProviderReceipt, error) {
	if !c.apiKey.IsSet() {
		return nil, types.NewAppError(
			types.ErrCodeConfigEmailProvider,
			"email service is not configured",
			nil,
		)
	}

	if err := envelope.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(resendMessage{
		From:    envelope.From,
		To:      envelope.To,
		Subject: envelope.Subject,
		HTML:    envelope.HTML,
		Headers: envelope.Headers,
	})
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to marshal email payload",
			err,
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create email send request",
			err,
		)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey.Unmask())

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, c.wrapTransportError(err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamEmailProvider,
			fmt.Sprintf("Resend returned status %d and response body was unreadable", resp.StatusCode),
			readErr,
		)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var receipt resendReceipt
		// A malformed success body is tolerated; the raw bytes are still
		// passed through to callers.
		_ = json.Unmarshal(respBody, &receipt)
		return &types.ProviderReceipt{
			ID:  receipt.ID,
			Raw: json.RawMessage(respBody),
		}, nil
	}

	return nil, c.mapErrorResponse(resp.StatusCode, respBody)
}

// mapErrorResponse translates a non-retryable Resend error response into
// a types.AppError.
func (c *ResendClient) mapErrorResponse(statusCode int, body []byte) error {
	errMsg := ""
	var rErr resendErrorResponse
	if jsonErr := json.Unmarshal(body, &rErr); jsonErr == nil && rErr.Message != "" {
		errMsg = rErr.Message
	} else {
		errMsg = string(body)
	}

	return types.NewAppError(
		types.ErrCodeUpstreamEmailProvider,
		fmt.Sprintf("Resend error (%d): %s", statusCode, errMsg),
		nil,
	)
}

// wrapTransportError wraps a BaseClient failure with provider context.
// AppErrors from BaseClient (retries exhausted, circuit open) already
// carry the right code and pass through unchanged.
func (c *ResendClient) wrapTransportError(err error) error {
	if _, ok := err.(*types.AppError); ok {
		return err
	}
	return types.NewAppError(
		types.ErrCodeUpstreamEmailProvider,
		fmt.Sprintf("Resend request failed: %v", err),
		err,
	)
}

// Compile-time assertion that ResendClient satisfies EmailProvider.
var _ EmailProvider = (*ResendClient)(nil)
