package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cwhuang-tw/linebot-gemini/internal/models"
)

// Firebase is a minimal Firebase Realtime Database REST client. Values
// live at "{base}/{path}.json"; a literal JSON null body means the path
// holds no value.
type Firebase struct {
	baseURL    string
	httpClient *http.Client
}

// NewFirebase creates a client for the given database base URL
// (e.g. "https://example.firebaseio.com").
func NewFirebase(baseURL string, requestTimeout time.Duration) *Firebase {
	return &Firebase{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func (f *Firebase) url(path string) string {
	return f.baseURL + "/" + strings.Trim(path, "/") + ".json"
}

// Get fetches the history stored at path. Absent values are not errors.
func (f *Firebase) Get(ctx context.Context, path string) ([]models.Turn, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url(path), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create firebase get request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("firebase get failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read firebase get response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("firebase get returned status %d", resp.StatusCode)
	}
	if isJSONNull(body) {
		return nil, false, nil
	}

	var turns []models.Turn
	if err := json.Unmarshal(body, &turns); err != nil {
		return nil, false, fmt.Errorf("failed to parse firebase history: %w", err)
	}
	return turns, true, nil
}

// Put overwrites the history at path.
func (f *Firebase) Put(ctx context.Context, path string, turns []models.Turn) error {
	payload, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, f.url(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create firebase put request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("firebase put failed: %w", err)
	}
	defer resp.Body.Close()
	io.ReadAll(resp.Body) // drain
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("firebase put returned status %d", resp.StatusCode)
	}
	return nil
}

// Delete removes the value at path. Deleting an absent path succeeds.
func (f *Firebase) Delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, f.url(path), nil)
	if err != nil {
		return fmt.Errorf("failed to create firebase delete request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("firebase delete failed: %w", err)
	}
	defer resp.Body.Close()
	io.ReadAll(resp.Body) // drain
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("firebase delete returned status %d", resp.StatusCode)
	}
	return nil
}

func isJSONNull(body []byte) bool {
	return string(bytes.TrimSpace(body)) == "null"
}
