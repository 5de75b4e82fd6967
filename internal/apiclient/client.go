// Package apiclient talks to the pantry REST API. Client satisfies
// services.Backend, so the shopping services can run on the client side
// against a remote server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pantryhub/pantry/internal/services"
	"github.com/pantryhub/pantry/internal/shopping"
)

// ErrConflict is returned for a 409 the client has no more specific error for.
var ErrConflict = errors.New("conflicts with existing data")

// APIError is a non-success response the client does not map to a domain
// error.
type APIError struct {
	Status  int
	Message string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", err.Status, err.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	retries    int
	newBackOff func() backoff.BackOff
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

func WithToken(token string) Option {
	return func(client *Client) {
		client.token = token
	}
}

// WithRetry retries GET requests up to n more times while the server is
// unreachable. Writes are never retried.
func WithRetry(n int) Option {
	return func(client *Client) {
		client.retries = n
	}
}

func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(client *Client) {
		client.newBackOff = newBackOff
	}
}

func New(baseURL string, options ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// SetToken replaces the bearer token sent with each request.
func (client *Client) SetToken(token string) {
	client.token = token
}

// target names the entity a request addresses, for NotFoundError.
type target struct {
	entity string
	id     string
}

func (client *Client) get(ctx context.Context, path string, subject target, out any) error {
	return client.do(ctx, http.MethodGet, path, subject, nil, out)
}

func (client *Client) do(ctx context.Context, method, path string, subject target, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	if method != http.MethodGet || client.retries <= 0 {
		return client.send(ctx, method, path, subject, payload, out)
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := client.send(ctx, method, path, subject, payload, out)
		if err != nil && !shopping.IsBackendUnavailable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(client.newBackOff()), backoff.WithMaxTries(uint(client.retries+1)))
	return err
}

func (client *Client) send(ctx context.Context, method, path string, subject target, payload []byte, out any) error {
	op := method + " " + path

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if client.token != "" {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &shopping.BackendUnavailableError{Op: op, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return responseError(op, subject, response)
	}
	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}

func responseError(op string, subject target, response *http.Response) error {
	var body struct {
		Error  string `json:"error"`
		Entity string `json:"entity"`
		ID     string `json:"id"`
	}
	json.NewDecoder(io.LimitReader(response.Body, 64<<10)).Decode(&body)
	message := body.Error
	if message == "" {
		message = http.StatusText(response.StatusCode)
	}

	switch response.StatusCode {
	case http.StatusBadRequest:
		return &shopping.ValidationError{Field: "request", Reason: message}
	case http.StatusUnauthorized:
		if message == services.ErrInvalidCredentials.Error() {
			return services.ErrInvalidCredentials
		}
		return fmt.Errorf("%w: %s", services.ErrUnauthorized, message)
	case http.StatusForbidden:
		return services.ErrForbidden
	case http.StatusNotFound:
		if body.Entity != "" {
			return &shopping.NotFoundError{Entity: body.Entity, ID: body.ID}
		}
		return &shopping.NotFoundError{Entity: subject.entity, ID: subject.id}
	case http.StatusConflict:
		switch message {
		case services.ErrUsernameTaken.Error():
			return services.ErrUsernameTaken
		case services.ErrEmailTaken.Error():
			return services.ErrEmailTaken
		}
		return fmt.Errorf("%w: %s", ErrConflict, message)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &shopping.BackendUnavailableError{Op: op, Err: &APIError{Status: response.StatusCode, Message: message}}
	}
	return &APIError{Status: response.StatusCode, Message: message}
}

func escape(id string) string {
	return url.PathEscape(id)
}
