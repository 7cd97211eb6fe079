// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/server"
)

// StubBackend is a running in-memory API with a request counter.
type StubBackend struct {
	Server  *httptest.Server
	BaseURL string
	hits    atomic.Int64
}

// NewStubBackend starts a [server.Stub] for the duration of the test.
func NewStubBackend(t *testing.T) *StubBackend {
	t.Helper()
	sb := &StubBackend{}
	count := server.Middleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sb.hits.Add(1)
			next.ServeHTTP(w, r)
		})
	})
	sb.Server = httptest.NewServer(server.New(server.Options{Secret: "test-secret", Middleware: []server.Middleware{count}}))
	sb.BaseURL = sb.Server.URL + "/api"
	t.Cleanup(sb.Server.Close)
	return sb
}

// Requests reports how many requests the stub has received.
func (sb *StubBackend) Requests() int64 {
	return sb.hits.Load()
}

// Login registers an account (ignoring conflicts) and returns a fresh token.
func (sb *StubBackend) Login(t *testing.T, name, email string) string {
	t.Helper()
	sb.post(t, "/register", models.RegisterRequest{Name: name, Email: email, Password: "password1"}, nil)

	var resp models.LoginResponse
	if status := sb.post(t, "/login", models.LoginRequest{Email: email, Password: "password1"}, &resp); status != http.StatusOK {
		t.Fatalf("stub login failed with status %d", status)
	}
	return resp.Token
}

func (sb *StubBackend) post(t *testing.T, path string, body, out any) int {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	resp, err := sb.Server.Client().Post(sb.BaseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("stub request failed: %v", err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode stub response: %v", err)
		}
	}
	return resp.StatusCode
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
