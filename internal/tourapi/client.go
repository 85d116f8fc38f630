package tourapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tourigo/tourigo-client/pkg/config"
	pkgerrors "github.com/tourigo/tourigo-client/pkg/errors"
)

const (
	toursPath                   = "/v1/tours"
	responseBodyReadLimit int64 = 64 * 1024
)

var errBaseURLRequired = errors.New("tour api base url is required")

// Creator is the surface the wizard submit pipeline consumes.
type Creator interface {
	Create(ctx context.Context, input *CreateTourInput) (*CreatedTour, error)
}

// Client talks to the tour backend's REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the tour API client from configuration.
func NewClient(cfg config.TourAPIConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type envelope struct {
	Payload CreatedTour `json:"payload"`
}

type errorResponse struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// Create issues the tour-creation request.
func (c *Client) Create(ctx context.Context, input *CreateTourInput) (*CreatedTour, error) {
	return c.send(ctx, http.MethodPost, c.baseURL+toursPath, input)
}

// Update replaces an existing tour, used by the edit flow.
func (c *Client) Update(ctx context.Context, tourID string, input *CreateTourInput) (*CreatedTour, error) {
	if strings.TrimSpace(tourID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tour id is required")
	}
	return c.send(ctx, http.MethodPut, fmt.Sprintf("%s%s/%s", c.baseURL, toursPath, tourID), input)
}

func (c *Client) send(ctx context.Context, method, url string, input *CreateTourInput) (*CreatedTour, error) {
	if input == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tour payload is required")
	}

	encoded, err := json.Marshal(input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding tour payload")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building tour request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling tour api")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.mapError(resp)
	}

	var decoded envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding tour response")
	}
	return &decoded.Payload, nil
}

func (c *Client) mapError(resp *http.Response) error {
	var decoded errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&decoded)
	message := decoded.Message
	if message == "" {
		message = fmt.Sprintf("tour api returned status %d", resp.StatusCode)
	}

	var coded *pkgerrors.Error
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		coded = pkgerrors.New(pkgerrors.CodeValidation, message)
	case http.StatusNotFound:
		coded = pkgerrors.New(pkgerrors.CodeNotFound, message)
	case http.StatusConflict:
		coded = pkgerrors.New(pkgerrors.CodeConflict, message)
	default:
		coded = pkgerrors.New(pkgerrors.CodeDependency, message)
	}
	if len(decoded.Details) > 0 {
		coded = coded.WithDetails(decoded.Details)
	}
	return coded
}
