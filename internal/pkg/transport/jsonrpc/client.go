// Package jsonrpc provides a generic JSON-RPC 2.0 client implementation over
// HTTP. It is suitable for interacting with any JSON-RPC-compatible service,
// such as blockchain nodes and wallet providers.
//
// Provider-side failures are surfaced as a typed ProviderError so callers can
// inspect the error code (for example, EIP-1193 code 4001 for a user-rejected
// request) without parsing error strings.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrProviderReturnedError indicates that the remote JSON-RPC server returned
// an error response. Every ProviderError matches it via errors.Is.
var ErrProviderReturnedError = errors.New("provider error")

// ProviderError carries the code and message of a JSON-RPC error object.
type ProviderError struct {
	Code    int    // error code defined by the JSON-RPC spec or the provider
	Message string // human-readable error message
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: [%d] - %s", e.Code, e.Message)
}

// Is makes ProviderError match ErrProviderReturnedError in errors.Is chains.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderReturnedError
}

// response represents a standard JSON-RPC 2.0 response.
type response struct {
	JsonRPC string `json:"jsonrpc"` // JSON-RPC protocol version (usually "2.0")
	Error   *struct {
		Code    int    `json:"code"`    // error code defined by the JSON-RPC spec or custom server logic
		Message string `json:"message"` // human-readable error message
	} `json:"error"`
	Result json.RawMessage `json:"result"` // raw result payload returned by the server
}

// Err returns a *ProviderError if the response includes a JSON-RPC error
// object, nil otherwise.
func (r response) Err() error {
	if r.Error == nil {
		return nil
	}

	return &ProviderError{
		Code:    r.Error.Code,
		Message: r.Error.Message,
	}
}

// Client defines the interface for a generic JSON-RPC client. It can be used
// to abstract the underlying implementation and facilitate mocking in tests.
type Client interface {
	// Fetch sends a JSON-RPC request with the given method name and parameters.
	// It returns the raw JSON result or an error if the request or response fails.
	Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// client is the default implementation of the Client interface.
// It sends JSON-RPC requests to the configured provider endpoint using the provided HTTP client.
type client struct {
	providerEndpoint string       // the URL of the remote JSON-RPC server
	httpClient       *http.Client // the HTTP client used to perform requests
}

// Compile-time assertion that client implements the Client interface.
var _ Client = (*client)(nil)

// Fetch sends a JSON-RPC request to the remote server with the given method
// and parameters. It returns the raw result as a json.RawMessage or an error
// if the request or server fails. The `id` field is generated as a UUID string.
func (c *client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      uuid.NewString(),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.providerEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var data response
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, err
	}

	return data.Result, data.Err()
}

// NewClient constructs and returns a Client that will send JSON-RPC requests
// to the specified provider endpoint using the given HTTP client.
func NewClient(httpClient *http.Client, providerEndpoint string) *client {
	return &client{
		providerEndpoint: providerEndpoint,
		httpClient:       httpClient,
	}
}
