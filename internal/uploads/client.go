package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tourigo/tourigo-client/pkg/config"
	"github.com/tourigo/tourigo-client/pkg/enums"
	pkgerrors "github.com/tourigo/tourigo-client/pkg/errors"
)

const (
	batchPath                   = "/v1/uploads/batch"
	responseBodyReadLimit int64 = 64 * 1024
)

var errBaseURLRequired = errors.New("uploads base url is required")

// File is a staged local image held in memory until submission. Keeping the
// bytes rather than a reader lets a failed submission retry the same batch.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Uploader is the surface the wizard submit pipeline consumes.
type Uploader interface {
	UploadBatch(ctx context.Context, files []File, imageType enums.ImageType, resourceType enums.ResourceType) ([]string, error)
}

// Client sends image batches to the upload service. The returned URL slice
// preserves the order of the submitted files.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxBytes   int64
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

// WithBaseURL overrides the configured upload base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the upload client from configuration.
func NewClient(cfg config.UploadsConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxBytes:   int64(cfg.MaxUploadMB) * 1024 * 1024,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type batchResponse struct {
	URLs []string `json:"urls"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// UploadBatch sends the files as one multipart request and returns the stored
// URLs in file order.
func (c *Client) UploadBatch(ctx context.Context, files []File, imageType enums.ImageType, resourceType enums.ResourceType) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if !imageType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid image type %q", imageType))
	}
	if !resourceType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid resource type %q", resourceType))
	}

	body, contentType, err := c.encodeBatch(files, imageType, resourceType)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+batchPath, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building upload request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "sending upload batch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.mapError(resp)
	}

	var decoded batchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "decoding upload response")
	}
	if len(decoded.URLs) != len(files) {
		return nil, pkgerrors.New(pkgerrors.CodeUpload, fmt.Sprintf("upload service returned %d urls for %d files", len(decoded.URLs), len(files)))
	}
	return decoded.URLs, nil
}

func (c *Client) encodeBatch(files []File, imageType enums.ImageType, resourceType enums.ResourceType) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("image_type", imageType.String()); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing image type field")
	}
	if err := writer.WriteField("resource_type", resourceType.String()); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing resource type field")
	}

	for i, file := range files {
		if len(file.Data) == 0 {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file %q is empty", file.Name))
		}
		if c.maxBytes > 0 && int64(len(file.Data)) > c.maxBytes {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file %q exceeds the upload size limit", file.Name))
		}
		part, err := writer.CreateFormFile(fmt.Sprintf("files[%d]", i), file.Name)
		if err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating form file")
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing file payload")
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalizing multipart body")
	}
	return body, writer.FormDataContentType(), nil
}

func (c *Client) mapError(resp *http.Response) error {
	var decoded errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&decoded)
	message := decoded.Message
	if message == "" {
		message = fmt.Sprintf("upload service returned status %d", resp.StatusCode)
	}
	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	default:
		return pkgerrors.New(pkgerrors.CodeUpload, message)
	}
}
