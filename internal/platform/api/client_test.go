package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(url string, tokens TokenSource) *Client {
	return NewClient(url, "", 5*time.Second, tokens, zerolog.Nop())
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens("abc123"))
	var out map[string]bool
	if err := client.Get(context.Background(), "/things", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("expected an X-Request-ID header")
	}
	if !out["ok"] {
		t.Fatal("response not decoded")
	}
}

func TestClientOmitsTokenWhenEmpty(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens(""))
	if err := client.Get(context.Background(), "/things", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClientNormalizesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"title":"ERROR: Doctor not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens(""))
	err := client.Post(context.Background(), "/appointments", map[string]string{}, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if apiErr.Kind != KindServer || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("unexpected classification: %+v", apiErr)
	}
	if apiErr.Message != "Doctor not found" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestClientConnectivityFailure(t *testing.T) {
	// Nothing listens on this address.
	client := newTestClient("http://127.0.0.1:1", staticTokens(""))
	err := client.Get(context.Background(), "/things", nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if apiErr.Kind != KindConnectivity {
		t.Fatalf("expected connectivity kind, got %v", apiErr.Kind)
	}
	if apiErr.Message != MsgConnectivity {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestClientContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := newTestClient(server.URL, staticTokens(""))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := client.Get(ctx, "/slow", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected a wrapped context error, got %v", err)
	}
}

func TestDownloadParsesDisposition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens("tok"))
	data, contentType, name, err := client.Download(context.Background(), "/lab-reports/1/download")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected body: %q", data)
	}
	if contentType != "application/pdf" {
		t.Fatalf("unexpected content type: %q", contentType)
	}
	if name != "report.pdf" {
		t.Fatalf("unexpected filename: %q", name)
	}
}
