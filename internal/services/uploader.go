package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

const (
	uploadProgressTick = 150 * time.Millisecond
	uploadProgressStep = 5
	// Progress holds at 90 until the remote response actually arrives, then
	// snaps to 100 and is reset after a short grace period so the UI does
	// not flash 100% straight back to idle.
	uploadProgressCeiling = 90
	uploadProgressGrace   = 600 * time.Millisecond
)

// ImageUploader resolves an image reference to a single canonical URL. An
// operator-supplied URL is passed through untouched; binary payloads are
// base64-encoded and submitted to the remote upload endpoint.
type ImageUploader struct {
	endpoint   string
	token      string
	httpClient *http.Client

	mu         sync.Mutex
	progress   int
	resetTimer *time.Timer
}

func NewImageUploader(endpoint, token string) *ImageUploader {
	return &ImageUploader{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Progress reports the current upload progress estimate (0-100). It is
// polled by the UI while an upload is in flight.
func (u *ImageUploader) Progress() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.progress
}

// Resolve yields the canonical URL for either input form. The caller writes
// the URL into whichever metadata/section/element field it belongs to.
func (u *ImageUploader) Resolve(ctx context.Context, directURL string, data []byte, fileType string, onProgress func(int)) (string, error) {
	if directURL != "" {
		return directURL, nil
	}
	return u.Upload(ctx, data, fileType, onProgress)
}

// Upload submits image bytes to the remote endpoint and returns the
// remote-assigned URL. onProgress (optional) observes the same estimates
// the Progress poll sees.
func (u *ImageUploader) Upload(ctx context.Context, data []byte, fileType string, onProgress func(int)) (string, error) {
	if u.token == "" {
		return "", ErrMissingCredential
	}

	u.setProgress(0, onProgress)
	done := make(chan struct{})
	go u.simulateProgress(done, onProgress)

	body, err := json.Marshal(map[string]string{
		"image":    base64.StdEncoding.EncodeToString(data),
		"fileType": fileType,
	})
	if err != nil {
		close(done)
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		close(done)
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.token)

	resp, err := u.httpClient.Do(req)
	close(done)
	if err != nil {
		u.setProgress(0, onProgress)
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		u.setProgress(0, onProgress)
		return "", &RemoteError{Status: resp.StatusCode}
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		u.setProgress(0, onProgress)
		return "", &MalformedResponseError{Reason: err.Error()}
	}
	if result.URL == "" {
		u.setProgress(0, onProgress)
		return "", &MalformedResponseError{Reason: "upload response carried no url"}
	}

	u.finishProgress(onProgress)
	return result.URL, nil
}

// simulateProgress drives the fixed-interval estimate while the request is
// in flight. The real response is the only thing that moves it past the
// ceiling.
func (u *ImageUploader) simulateProgress(done <-chan struct{}, onProgress func(int)) {
	ticker := time.NewTicker(uploadProgressTick)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			u.mu.Lock()
			if u.progress < uploadProgressCeiling {
				u.progress += uploadProgressStep
				if u.progress > uploadProgressCeiling {
					u.progress = uploadProgressCeiling
				}
			}
			p := u.progress
			u.mu.Unlock()
			if onProgress != nil {
				onProgress(p)
			}
		}
	}
}

func (u *ImageUploader) setProgress(p int, onProgress func(int)) {
	u.mu.Lock()
	// A pending grace-period reset belongs to the previous upload; it must
	// not clobber the value being set now.
	if u.resetTimer != nil {
		u.resetTimer.Stop()
		u.resetTimer = nil
	}
	u.progress = p
	u.mu.Unlock()
	if onProgress != nil {
		onProgress(p)
	}
}

func (u *ImageUploader) finishProgress(onProgress func(int)) {
	u.setProgress(100, onProgress)
	u.mu.Lock()
	u.resetTimer = time.AfterFunc(uploadProgressGrace, func() {
		u.mu.Lock()
		u.progress = 0
		u.resetTimer = nil
		u.mu.Unlock()
	})
	u.mu.Unlock()
}
