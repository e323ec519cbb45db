package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chenxi-dot/smartHR/internal/corpus"
	"github.com/Chenxi-dot/smartHR/internal/ingestion"
	"github.com/Chenxi-dot/smartHR/internal/ranking"
)

const serverCSV = `id,Name,Position,Primary Keyword,English Level,Experience Years,Looking For,Highlights,Moreinfo,CV
c1,Alice,Golang Developer,Go,fluent,8,golang backend,"Go, Kubernetes",,
c2,Bob,Golang Developer,Go,intermediate,4,golang,"Go, Docker",,
c3,Carol,Frontend Developer,React,upper,6,react,"React, TypeScript",,
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candidates.csv")
	require.NoError(t, os.WriteFile(path, []byte(serverCSV), 0o644))

	loader := corpus.NewLoader(path, 0, nil, nil)
	matcher := ranking.NewMatcher(loader, nil, ranking.DefaultOptions(), nil)
	return New(Config{Port: 0}, matcher, ingestion.NewFetcher(nil), nil)
}

func postMatch(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/match", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func waitForRun(t *testing.T, s *Server, runID string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/progress/"+runID, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		var snap struct {
			Done bool `json:"done"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		if snap.Done {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("run did not finish in time")
}

func TestMatchEndpoint_FullLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := postMatch(t, s, `{"job_description": "senior golang backend developer"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var accepted struct {
		RunID    string `json:"run_id"`
		Accepted bool   `json:"accepted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.True(t, accepted.Accepted)
	require.NotEmpty(t, accepted.RunID)

	waitForRun(t, s, accepted.RunID)

	req := httptest.NewRequest(http.MethodGet, "/results/"+accepted.RunID, nil)
	resRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(resRec, req)
	require.Equal(t, http.StatusOK, resRec.Code)

	var out struct {
		Done    bool `json:"done"`
		Results []struct {
			ID         string  `json:"id"`
			TotalScore float64 `json:"total_score"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(resRec.Body.Bytes(), &out))
	assert.True(t, out.Done)
	assert.Len(t, out.Results, 3)
}

func TestMatchEndpoint_MissingBody(t *testing.T) {
	s := newTestServer(t)

	rec := postMatch(t, s, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postMatch(t, s, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchEndpoint_JobURL(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="job-description">golang developer wanted</div></body></html>`))
	}))
	defer upstream.Close()

	s := newTestServer(t)
	rec := postMatch(t, s, `{"job_url": "`+upstream.URL+`"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestMatchEndpoint_JobURLFetchFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	s := newTestServer(t)
	rec := postMatch(t, s, `{"job_url": "`+upstream.URL+`"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestProgressEndpoint_UnknownRun(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/progress/nope", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/results/nope", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/match", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
