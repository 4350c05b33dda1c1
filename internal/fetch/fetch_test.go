package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/layout.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>{{ body }}</html>"))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMultipleChoices)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// ---------------------------------------------------------------------------
// TestFetchText - Status and emptiness checks
// ---------------------------------------------------------------------------

func TestFetchText(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	client := NewClientWith(srv.Client())

	tests := []struct {
		name        string
		path        string
		failIfEmpty bool
		want        string
		wantErr     error
		wantMsg     string
	}{
		{
			name: "content returned",
			path: "/layout.html",
			want: "<html>{{ body }}</html>",
		},
		{
			name: "empty allowed",
			path: "/empty",
			want: "",
		},
		{
			name:        "empty rejected",
			path:        "/empty",
			failIfEmpty: true,
			wantErr:     ErrEmptyContent,
			wantMsg:     "content is empty",
		},
		{
			name:    "not found",
			path:    "/missing",
			wantErr: ErrFetch,
			wantMsg: "an error occurred fetching content (404 Not Found)",
		},
		{
			name:    "status 300 is an error",
			path:    "/redirect",
			wantErr: ErrFetch,
			wantMsg: "(300 Multiple Choices)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := client.FetchText(context.Background(), srv.URL+tt.path, tt.failIfEmpty)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FetchText() error = %v, want %v", err, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantMsg) {
					t.Errorf("FetchText() error = %q, want containing %q", err.Error(), tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchText() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FetchText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetch_TransportError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	url := srv.URL + "/layout.html"
	srv.Close()

	_, err := NewClient(time.Second).Fetch(context.Background(), url)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("Fetch() error = %v, want ErrFetch", err)
	}
	if !strings.HasPrefix(err.Error(), "an error occurred fetching content (") {
		t.Errorf("Fetch() error = %q, want wrapped cause", err.Error())
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClientWith(srv.Client()).Fetch(ctx, srv.URL+"/layout.html")
	if !errors.Is(err, ErrFetch) || !errors.Is(err, context.Canceled) {
		t.Fatalf("Fetch() error = %v, want ErrFetch wrapping context.Canceled", err)
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"//cdn.example.com/x.js", "https://cdn.example.com/x.js"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
	}
	for _, tt := range tests {
		if got := normalizeURL(tt.in); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	t.Parallel()

	c := NewClient(0)
	if c.http.Timeout != DefaultTimeout {
		t.Errorf("NewClient(0) timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
}
