package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cryptoguides-backend/internal/guide"
)

// SaveMode selects which of the two fixed content-API endpoints a save
// targets.
type SaveMode string

const (
	SaveModeCreate SaveMode = "create"
	SaveModeUpdate SaveMode = "update"
)

// ContentClient is the thin request/response wrapper around the remote
// content API, which is the source of truth for published guides. It never
// retries: failed operations are surfaced to the caller to re-trigger.
type ContentClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewContentClient(baseURL, token string) *ContentClient {
	return &ContentClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchGuide retrieves the canonical document for a published guide.
func (c *ContentClient) FetchGuide(ctx context.Context, slug string) (*guide.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/guides/fetch/"+slug, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Message: "guide " + slug + " not found"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{Status: resp.StatusCode}
	}

	var doc guide.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, &MalformedResponseError{Reason: err.Error()}
	}
	return &doc, nil
}

// SaveGuide transmits an assembled document to the create or update
// endpoint, bearer-authenticated. The missing-credential check runs before
// any request is built, so no network traffic happens without a token.
func (c *ContentClient) SaveGuide(ctx context.Context, doc *guide.Document, mode SaveMode) error {
	if c.token == "" {
		return ErrMissingCredential
	}

	endpoint := c.baseURL + "/admin/create/guide"
	if mode == SaveModeUpdate {
		endpoint = c.baseURL + "/admin/update/guide"
	}

	body, err := json.Marshal(map[string]*guide.Document{"guide": doc})
	if err != nil {
		return fmt.Errorf("marshal guide document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{Status: resp.StatusCode}
	}
	return nil
}
