package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sergeknystautas/commitdetective/internal/api/contracts"
)

func TestNewClientEndpoint(t *testing.T) {
	if got := NewClient("").GetEndpoint(); got != DefaultEndpoint {
		t.Errorf("NewClient(\"\") endpoint = %q, want %q", got, DefaultEndpoint)
	}
	if got := NewClient("http://svc:9000/").GetEndpoint(); got != "http://svc:9000" {
		t.Errorf("trailing slash not trimmed: %q", got)
	}
}

func TestAnalyze(t *testing.T) {
	var gotBody map[string]any
	var gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/analyze" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		gotRequestID = r.Header.Get(RequestIDHeader)
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"commit_hash":"c1","commit_message":"fix","explanation":"why","relevance_score":0.9}]`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	candidates, err := c.Analyze(context.Background(), contracts.AnalyzeRequest{
		Description:   "crash on save",
		SourceFiles:   []string{"a.c", "b.c"},
		CurrentCommit: "abc123",
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	want := []contracts.CommitCandidate{{CommitHash: "c1", CommitMessage: "fix", Explanation: "why", RelevanceScore: 0.9}}
	if !reflect.DeepEqual(candidates, want) {
		t.Errorf("Analyze() = %+v, want %+v", candidates, want)
	}
	if gotRequestID == "" {
		t.Errorf("missing %s header", RequestIDHeader)
	}
	if _, ok := gotBody["repository_url"]; ok {
		t.Errorf("repository_url should be omitted when absent: %v", gotBody)
	}
	if gotBody["save_only"] != false || gotBody["current_commit"] != "abc123" {
		t.Errorf("unexpected body: %v", gotBody)
	}
	files, _ := gotBody["source_files"].([]any)
	if len(files) != 2 || files[0] != "a.c" || files[1] != "b.c" {
		t.Errorf("source_files = %v", gotBody["source_files"])
	}
}

func TestAnalyzeSendsRepositoryURL(t *testing.T) {
	var got contracts.AnalyzeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	url := "https://example.com/repo.git"
	_, err := NewClient(server.URL).Analyze(context.Background(), contracts.AnalyzeRequest{
		SourceFiles:   []string{"a.c"},
		CurrentCommit: "abc",
		RepositoryURL: &url,
		SaveOnly:      true,
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.RepositoryURL == nil || *got.RepositoryURL != url || !got.SaveOnly {
		t.Errorf("server saw %+v", got)
	}
}

func TestAnalyzeServiceError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"string detail", http.StatusUnprocessableEntity, `{"detail":"missing commit"}`, "missing commit"},
		{"validation list detail", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body"],"msg":"field required"}]}`, ""},
		{"no body", http.StatusInternalServerError, ``, ""},
		{"plain text body", http.StatusBadGateway, `upstream down`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Analyze(context.Background(), contracts.AnalyzeRequest{})
			var svcErr *ServiceError
			if !errors.As(err, &svcErr) {
				t.Fatalf("Analyze() error = %v, want *ServiceError", err)
			}
			if svcErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", svcErr.StatusCode, tt.status)
			}
			if svcErr.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", svcErr.Detail, tt.wantDetail)
			}
		})
	}
}

func TestAnalyzeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	_, err := NewClient(endpoint).Analyze(context.Background(), contracts.AnalyzeRequest{})
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Analyze() error = %v, want *TransportError", err)
	}
	if !errors.Is(err, ErrNoResponse) {
		t.Errorf("errors.Is(err, ErrNoResponse) = false")
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Analyze(context.Background(), contracts.AnalyzeRequest{})
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("Analyze() error = %v, want transport error", err)
	}
}

func TestAnalyzeMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Analyze(context.Background(), contracts.AnalyzeRequest{})
	var transportErr *TransportError
	if !errors.As(err, &transportErr) || transportErr.Op != "decode" {
		t.Fatalf("Analyze() error = %v, want decode TransportError", err)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"status":"healthy","version":"1.0.0"}`))
	}))
	defer server.Close()

	health, err := NewClient(server.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if health.Status != "healthy" || health.Version != "1.0.0" {
		t.Errorf("Health() = %+v", health)
	}
}

func TestCheckCompatible(t *testing.T) {
	tests := []struct {
		version string
		wantErr string
	}{
		{"", ""},
		{"1.0.0", ""},
		{"v1.4.2", ""},
		{"2.0.0", "not supported"},
		{"0.9.0", "not supported"},
		{"banana", "failed to parse"},
	}
	for _, tt := range tests {
		err := CheckCompatible(tt.version)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("CheckCompatible(%q) error = %v", tt.version, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("CheckCompatible(%q) error = %v, want containing %q", tt.version, err, tt.wantErr)
		}
	}
}
