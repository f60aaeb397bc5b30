package quake

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLatestReportURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("Authorization"); got != "test-key" {
			t.Errorf("Authorization = %q", got)
		}
		fmt.Fprint(w, `{"cwaopendata":{"Dataset":{"Resource":{"ProductURL":"https://example.test/report.png"}}}}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", time.Second)
	client.baseURL = server.URL

	url, err := client.LatestReportURL(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if url != "https://example.test/report.png" {
		t.Fatalf("url = %q", url)
	}
}

func TestLatestReportURLMissingProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"cwaopendata":{"Dataset":{}}}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", time.Second)
	client.baseURL = server.URL

	if _, err := client.LatestReportURL(context.Background()); err == nil {
		t.Fatal("expected error for missing product URL")
	}
}

func TestLatestReportURLMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>oops</html>")
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", time.Second)
	client.baseURL = server.URL

	if _, err := client.LatestReportURL(context.Background()); err == nil {
		t.Fatal("expected error for malformed descriptor")
	}
}

func TestFetchReportImage(t *testing.T) {
	image := []byte{0x89, 0x50, 0x4e, 0x47}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(image)
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", time.Second)
	data, mimeType, err := client.FetchReportImage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !bytes.Equal(data, image) {
		t.Fatalf("unexpected image bytes: %v", data)
	}
	if mimeType != "image/png" {
		t.Fatalf("mime type = %q", mimeType)
	}
}

func TestFetchReportImageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", time.Second)
	if _, _, err := client.FetchReportImage(context.Background(), server.URL); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}
