package submission

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sergeknystautas/commitdetective/internal/api/contracts"
	"github.com/sergeknystautas/commitdetective/internal/client"
	"github.com/sergeknystautas/commitdetective/internal/form"
	"github.com/sergeknystautas/commitdetective/internal/view"
)

func submitInput(t *testing.T, endpoint string, in form.Input) State {
	t.Helper()
	if !form.CanSubmit(in) {
		t.Fatalf("input %+v is not submittable", in)
	}
	req, err := form.Build(in)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	c := NewController(client.NewClient(endpoint), nil)
	if !c.Submit(context.Background(), req) {
		t.Fatalf("Submit() = false")
	}
	return waitSettled(t, c)
}

func TestScenarioScoredAnalysis(t *testing.T) {
	var got contracts.AnalyzeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode([]contracts.CommitCandidate{
			{CommitHash: "f00d", CommitMessage: "fix save crash", Explanation: "null check", RelevanceScore: 0.9},
		})
	}))
	defer server.Close()

	st := submitInput(t, server.URL, form.Input{
		Description:    "crash on save",
		SourceFilesRaw: "a.c, b.c",
		CurrentCommit:  "abc123",
	})

	if st.Status != StatusSuccess || len(st.Rows) != 1 {
		t.Fatalf("state = %+v, want success with one row", st)
	}
	want := view.Badge{Label: "90% match", Tier: view.TierHigh}
	if st.Rows[0].Badge == nil || *st.Rows[0].Badge != want {
		t.Errorf("badge = %+v, want %+v", st.Rows[0].Badge, want)
	}
	if len(got.SourceFiles) != 2 || got.SourceFiles[0] != "a.c" || got.SourceFiles[1] != "b.c" {
		t.Errorf("service saw source_files %q", got.SourceFiles)
	}
}

func TestScenarioSaveOnly(t *testing.T) {
	var got contracts.AnalyzeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode([]contracts.CommitCandidate{
			{CommitHash: "c1", CommitMessage: "one", Explanation: "Saved 2 commits to commits_20240101_000000.json", RelevanceScore: 1.0},
			{CommitHash: "c2", CommitMessage: "two", Explanation: "Saved 2 commits to commits_20240101_000000.json", RelevanceScore: 1.0},
		})
	}))
	defer server.Close()

	st := submitInput(t, server.URL, form.Input{
		SourceFilesRaw: "a.c",
		CurrentCommit:  "abc123",
		SaveOnly:       true,
	})

	if st.Status != StatusSuccess || len(st.Rows) != 2 {
		t.Fatalf("state = %+v, want success with two rows", st)
	}
	for _, row := range st.Rows {
		if row.Badge != nil {
			t.Errorf("row %s has badge in save-only mode", row.Key)
		}
	}
	if !got.SaveOnly || got.Description != "" {
		t.Errorf("service saw %+v", got)
	}
}

func TestScenarioServiceDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"missing commit"}`))
	}))
	defer server.Close()

	st := submitInput(t, server.URL, form.Input{Description: "d", SourceFilesRaw: "a.c", CurrentCommit: "abc"})
	if st.Status != StatusFailure || st.Message != "missing commit" {
		t.Errorf("state = %+v, want failure with service detail", st)
	}
	if st.Rows != nil {
		t.Errorf("failure state has rows: %+v", st.Rows)
	}
}

func TestScenarioTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	st := submitInput(t, endpoint, form.Input{Description: "d", SourceFilesRaw: "a.c", CurrentCommit: "abc"})
	if st.Status != StatusFailure || st.Message != GenericFailureMessage {
		t.Errorf("state = %+v, want generic failure", st)
	}
}
