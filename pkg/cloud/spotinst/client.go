// Package spotinst is a minimal client for the Spotinst Elastigroup REST API.
// Requests that are rate limited or fail to connect are retried with at least a
// minute between attempts, since the account rate limit resets every minute.
package spotinst

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/amplify-education/awsutils-go/pkg/retry"
)

const (
	// DefaultBaseURL is the public Spotinst API endpoint.
	DefaultBaseURL = "https://api.spotinst.io"

	// RequestTimeout bounds a single HTTP request.
	RequestTimeout = 60 * time.Second

	// MinWait is the shortest wait between rate-limited attempts.
	MinWait = 60 * time.Second
)

var (
	// ErrAuthentication is returned when the API rejects the token.
	ErrAuthentication = &retry.Error{Kind: retry.KindAuthentication, Message: "provided Spotinst API token is not valid"}

	// ErrRateExceeded matches every rate-limit failure, including connection errors and timeouts.
	ErrRateExceeded = &retry.Error{Kind: retry.KindThrottling}

	// ErrAPI matches every other non-200 response.
	ErrAPI = &retry.Error{Kind: retry.KindAPI}
)

// throttleCodes in an error body mark a non-200 response as rate limiting.
var throttleCodes = []string{"Throttling", "RequestLimitExceeded"}

// Client talks to the Spotinst API on behalf of one account.
type Client struct {
	Token     string
	AccountID string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// HTTPClient defaults to a client with RequestTimeout.
	HTTPClient *http.Client
	// Policy defaults to DefaultPolicy().
	Policy retry.Policy
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewClient returns a client for accountID authenticating with token.
func NewClient(token, accountID string) *Client {
	return &Client{
		Token:      token,
		AccountID:  accountID,
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: RequestTimeout},
		Policy:     DefaultPolicy(),
	}
}

// DefaultPolicy retries rate-limited requests for up to five minutes, waiting at
// least MinWait between attempts.
func DefaultPolicy() retry.Policy {
	return retry.Policy{
		Classifier: retry.ClassifierFunc(func(err error) bool {
			return retry.KindOf(err) == retry.KindThrottling
		}),
		Budget:  retry.DefaultBudget,
		MinWait: MinWait,
	}
}

type envelope struct {
	Request struct {
		ID string `mapstructure:"id"`
	} `mapstructure:"request"`
	Response struct {
		Status struct {
			Code    int    `mapstructure:"code"`
			Message string `mapstructure:"message"`
		} `mapstructure:"status"`
		Items  []map[string]any `mapstructure:"items"`
		Errors []ErrorDetail    `mapstructure:"errors"`
	} `mapstructure:"response"`
}

// ErrorDetail is one entry of the errors list in a failed response.
type ErrorDetail struct {
	Code    string `mapstructure:"code"`
	Message string `mapstructure:"message"`
}

// request issues one API call through the retry policy and returns the response items.
func (c *Client) request(ctx context.Context, method, path string, body any) ([]map[string]any, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
	}

	p := c.policy()
	name := method + " " + path
	env, err := retry.Do(ctx, p, name, func(ctx context.Context) (*envelope, error) {
		return c.send(ctx, method, path, payload)
	})
	if err != nil {
		return nil, err
	}
	return env.Response.Items, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*envelope, error) {
	endpoint, err := url.JoinPath(c.baseURL(), path)
	if err != nil {
		return nil, fmt.Errorf("building URL for %s: %w", path, err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = url.Values{"accountId": {c.AccountID}}.Encode()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, retry.NewError(retry.KindThrottling, fmt.Sprintf("rate exceeded while calling %s %s", method, path), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrAuthentication
	case http.StatusTooManyRequests:
		return nil, retry.NewError(retry.KindThrottling, fmt.Sprintf("rate exceeded while calling %s %s", method, path), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.NewError(retry.KindThrottling, fmt.Sprintf("reading response of %s %s", method, path), err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &retry.Error{
			Kind:    retry.KindAPI,
			Code:    resp.Status,
			Message: fmt.Sprintf("Spotinst API did not return JSON response: %s", strings.TrimSpace(string(raw))),
		}
	}

	var env envelope
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &env,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(decoded); err != nil {
		return nil, &retry.Error{Kind: retry.KindAPI, Code: resp.Status, Message: "unexpected response envelope", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		for _, detail := range env.Response.Errors {
			for _, code := range throttleCodes {
				if detail.Code == code {
					return nil, &retry.Error{
						Kind:    retry.KindThrottling,
						Code:    detail.Code,
						Message: fmt.Sprintf("rate exceeded while calling %s %s", method, path),
					}
				}
			}
		}
		return nil, &retry.Error{
			Kind: retry.KindAPI,
			Code: resp.Status,
			Message: fmt.Sprintf("Unknown Spotinst API error encountered: %d %s %v. RequestId %s",
				env.Response.Status.Code, env.Response.Status.Message, env.Response.Errors, env.Request.ID),
		}
	}

	return &env, nil
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: RequestTimeout}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Client) policy() retry.Policy {
	p := c.Policy
	if p.Classifier == nil {
		p = DefaultPolicy().WithSleep(c.Policy.Sleep)
	}
	if p.Logger == nil {
		p.Logger = c.logger()
	}
	return p
}
