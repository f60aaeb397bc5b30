// Package quake retrieves the latest significant-earthquake report from
// the CWA open-data file API.
package quake

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://opendata.cwa.gov.tw/fileapi/v1/opendataapi/E-A0015-003"

// Client fetches the report descriptor and the report image it points to.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey string, requestTimeout time.Duration) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type descriptor struct {
	CWAOpenData struct {
		Dataset struct {
			Resource struct {
				ProductURL string `json:"ProductURL"`
			} `json:"Resource"`
		} `json:"Dataset"`
	} `json:"cwaopendata"`
}

// LatestReportURL resolves the product URL of the most recent earthquake
// report. A missing URL is a provider error, not an empty result.
func (c *Client) LatestReportURL(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("Authorization", c.apiKey)
	params.Set("downloadType", "WEB")
	params.Set("format", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create quake descriptor request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("quake descriptor request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read quake descriptor response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("quake descriptor request returned status %d", resp.StatusCode)
	}

	var desc descriptor
	if err := json.Unmarshal(body, &desc); err != nil {
		return "", fmt.Errorf("failed to parse quake descriptor: %w", err)
	}
	productURL := desc.CWAOpenData.Dataset.Resource.ProductURL
	if productURL == "" {
		return "", fmt.Errorf("quake descriptor has no product URL")
	}
	return productURL, nil
}

// FetchReportImage downloads the report image so it can be handed to the
// model as inline data. Returns the bytes and the content type.
func (c *Client) FetchReportImage(ctx context.Context, reportURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reportURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create report image request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("report image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("report image request returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read report image: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}
	return data, mimeType, nil
}
