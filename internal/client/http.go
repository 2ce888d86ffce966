package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// HTTPClient implements SearchClient using the kjql HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Search ---

func (c *HTTPClient) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Validate(ctx context.Context, req *SearchRequest) (*ValidateResponse, error) {
	var resp ValidateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/search/validate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Fit(ctx context.Context, req *SearchRequest) (*model.FitResult, error) {
	var resp model.FitResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/search/fit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Issues ---

func (c *HTTPClient) PutIssue(ctx context.Context, issue *model.Issue) (*model.Issue, error) {
	var stored model.Issue
	if err := c.doJSON(ctx, http.MethodPut, "/v1/issues", issue, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (c *HTTPClient) GetIssue(ctx context.Context, key string) (*model.Issue, error) {
	var issue model.Issue
	if err := c.doJSON(ctx, http.MethodGet, "/v1/issues/"+url.PathEscape(key), nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *HTTPClient) ListIssues(ctx context.Context) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/issues", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DeleteIssue(ctx context.Context, key string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/issues/"+url.PathEscape(key), nil, nil)
}

// --- Catalog administration ---

func (c *HTTPClient) GetCatalog(ctx context.Context) (*CatalogResponse, error) {
	var resp CatalogResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/catalog", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ReplaceCatalog(ctx context.Context, cat *registry.Catalog) (int64, error) {
	var resp struct {
		Revision int64 `json:"revision"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/v1/catalog", cat, &resp); err != nil {
		return 0, err
	}
	return resp.Revision, nil
}

func (c *HTTPClient) AddContext(ctx context.Context, fieldContext *registry.Context) (*registry.Context, error) {
	var created registry.Context
	if err := c.doJSON(ctx, http.MethodPost, "/v1/catalog/contexts", fieldContext, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) RemoveContext(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/catalog/contexts/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) UpdateField(ctx context.Context, id string, req *FieldUpdateRequest) (*registry.Field, error) {
	var field registry.Field
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/catalog/fields/"+url.PathEscape(id), req, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

func (c *HTTPClient) SetTimeTracking(ctx context.Context, tt registry.TimeTracking) error {
	return c.doJSON(ctx, http.MethodPut, "/v1/catalog/timetracking", tt, nil)
}

func (c *HTTPClient) SaveFilter(ctx context.Context, filter *registry.SavedFilter) error {
	return c.doJSON(ctx, http.MethodPut, "/v1/catalog/filters", filter, nil)
}

func (c *HTTPClient) DeleteFilter(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/v1/catalog/filters/%d", id), nil, nil)
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
