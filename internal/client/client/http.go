package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/fsbackup/internal/client/models"
	"github.com/dmitrijs2005/fsbackup/internal/common"
	"github.com/dmitrijs2005/fsbackup/internal/logging"
	"github.com/google/uuid"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 1 << 20

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

func NewHTTPClient(baseURL string, httpClient *http.Client, logger logging.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With("component", "backup_client"),
	}
}

type listCollectionsResponse struct {
	Collections *[]string `json:"collections"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) ListCollections(ctx context.Context, cred models.Credential) ([]string, error) {
	resp, err := c.post(ctx, common.ListCollectionsPath, cred, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readRemoteError(resp)
	}

	var body listCollectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if body.Collections == nil {
		return nil, fmt.Errorf("%w: missing collections", ErrMalformedResponse)
	}
	return *body.Collections, nil
}

func (c *HTTPClient) GenerateBackup(ctx context.Context, cred models.Credential, collections []string) (*models.Artifact, error) {
	fields := map[string]string{
		common.FieldCollections: strings.Join(collections, common.CollectionSeparator),
	}

	resp, err := c.post(ctx, common.GenerateBackupPath, cred, fields)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, readRemoteError(resp)
	}

	return &models.Artifact{
		Body:        resp.Body,
		Disposition: resp.Header.Get("Content-Disposition"),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Close releases idle connections of the underlying transport.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// post submits cred (and any extra text fields) as multipart/form-data.
// Only transport failures are returned as errors; the caller inspects the status.
func (c *HTTPClient) post(ctx context.Context, path string, cred models.Credential, fields map[string]string) (*http.Response, error) {
	body, contentType, err := encodeForm(cred, fields)
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(common.RequestIDHeaderName, requestID)

	log := c.logger.With("request_id", requestID, "path", path)
	started := time.Now()
	log.Debug(ctx, "sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err, "duration", time.Since(started))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	log.Info(ctx, "response received", "status", resp.StatusCode, "duration", time.Since(started))
	return resp, nil
}

func encodeForm(cred models.Credential, fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(common.FieldServiceAccountKey, cred.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(cred.Data); err != nil {
		return nil, "", err
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// readRemoteError builds a RemoteError from a non-success response. A body
// that is not the expected JSON yields an empty message.
func readRemoteError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return &RemoteError{Status: resp.StatusCode}
	}
	return &RemoteError{Status: resp.StatusCode, Message: body.Error}
}
