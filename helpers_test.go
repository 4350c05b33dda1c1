package mdtodoc

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-mdtodoc/internal/assets"
)

// testID replaces random code-copy ids so outputs are deterministic.
const testID = "_test00000"

// Script bodies served for the CDN URLs.
const (
	clipboardStub = "var clipboardStub=1;"
	mermaidStub   = "var mermaidStub=1;"
)

// stubTransport serves fixed bodies by URL; unknown URLs answer 404.
type stubTransport map[string]string

func (s stubTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	body, ok := s[r.URL.String()]
	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}, nil
}

func stubClient() *http.Client {
	return &http.Client{Transport: stubTransport{
		ClipboardScriptURL: clipboardStub,
		MermaidScriptURL:   mermaidStub,
	}}
}

// newTestProcessor creates a Processor that never touches the network or
// the user cache directory.
func newTestProcessor(t *testing.T, opts ...Option) *Processor {
	t.Helper()

	base := []Option{
		WithCacheDir(t.TempDir()),
		WithHTTPClient(stubClient()),
		withIDGenerator(func() string { return testID }),
	}
	p, err := NewProcessor(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}
	return p
}

func newTestLocator(t *testing.T) *assets.Locator {
	t.Helper()

	l, err := assets.NewLocator(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLocator() error = %v", err)
	}
	return l
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

// waitFor polls cond until it holds or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
