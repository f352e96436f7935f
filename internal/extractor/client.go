package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"propfolio/internal/config"
	"propfolio/internal/domain"
	"propfolio/internal/port"
)

// Client implements port.DocumentExtractor against the HTTP AI pipeline.
// It submits one file per request as multipart form data and decodes the
// pipeline's extraction response.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClient creates a pipeline client from an endpoint config.
func NewClient(cfg *config.ExtractorEndpointConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		endpoint: cfg.URL,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// extractResponse models the pipeline's success response.
type extractResponse struct {
	DocumentID               string                         `json:"document_id"`
	DocumentType             string                         `json:"document_type"`
	ClassificationConfidence float64                        `json:"classification_confidence"`
	ExtractedData            map[string]domain.FieldPayload `json:"extracted_data"`
}

// apiError models the pipeline's error envelope; either key may be set.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e *apiError) text() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Error != "" {
		return e.Error
	}
	return "unknown pipeline error"
}

func (c *Client) Extract(ctx context.Context, input port.ExtractInput) (*domain.DocumentResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", input.Filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(input.FileBytes); err != nil {
		return nil, fmt.Errorf("writing form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extraction pipeline: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope apiError
		_ = json.Unmarshal(respBody, &envelope)
		baseErr := fmt.Errorf("pipeline error (status %d): %s", resp.StatusCode, envelope.text())
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, NewRateLimitError(c.endpoint, baseErr, retryAfter)
		}
		return nil, baseErr
	}

	var result extractResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decoding pipeline response: %w", err)
	}

	return &domain.DocumentResult{
		DocumentID:               result.DocumentID,
		Filename:                 input.Filename,
		DocumentType:             result.DocumentType,
		ClassificationConfidence: result.ClassificationConfidence,
		Fields:                   result.ExtractedData,
	}, nil
}
