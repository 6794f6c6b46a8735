package apiserver

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkmsoft/porterstemmer/pkg/engine"
	"github.com/xkmsoft/porterstemmer/pkg/porter"
)

type fakeBackend struct {
	err       error
	lastQuery string
	lastPage  uint32
}

func (b *fakeBackend) Query(s string, page uint32) (*engine.SearchResults, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.lastQuery, b.lastPage = s, page
	return &engine.SearchResults{
		NumberOfResults: 1,
		CurrentPage:     int(page),
		NumberOfPages:   1,
		Results:         []engine.SearchResult{{Title: "Porter stemmer", Rank: 1}},
	}, nil
}

func (b *fakeBackend) Stem(s string) (*engine.StemResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	tokens := strings.Fields(strings.ToLower(s))
	stems := make([]string, 0, len(tokens))
	for _, token := range tokens {
		stems = append(stems, porter.Stem(token))
	}
	return &engine.StemResult{Algorithm: engine.AlgorithmPorter, Tokens: tokens, Stems: stems}, nil
}

func TestHandleStem(t *testing.T) {
	router := NewServer(&fakeBackend{}).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/stem", strings.NewReader(`{"text":"running ponies"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result engine.StemResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, []string{"run", "poni"}, result.Stems)
}

func TestHandleStemWord(t *testing.T) {
	router := NewServer(&fakeBackend{}).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/stem/capabilities", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result engine.StemResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, []string{"capabl"}, result.Stems)
}

func TestHandleQuery(t *testing.T) {
	backend := &fakeBackend{}
	router := NewServer(backend).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query":"stemmers","page":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stemmers", backend.lastQuery)
	assert.Equal(t, uint32(2), backend.lastPage)

	var results engine.SearchResults
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&results))
	assert.Equal(t, 2, results.CurrentPage)
	assert.Equal(t, "Porter stemmer", results.Results[0].Title)
}

func TestHandleQueryGzip(t *testing.T) {
	router := NewServer(&fakeBackend{}).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query":"stemmers","page":1}`))
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	gz, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	var results engine.SearchResults
	require.NoError(t, json.NewDecoder(gz).Decode(&results))
	assert.Equal(t, 1, results.NumberOfResults)
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		method  string
		path    string
		body    string
		code    int
	}{
		{"malformed query", &fakeBackend{}, http.MethodPost, "/api/query", "{", http.StatusBadRequest},
		{"malformed stem", &fakeBackend{}, http.MethodPost, "/api/stem", "not json", http.StatusBadRequest},
		{"backend down", &fakeBackend{err: errors.New("connection refused")}, http.MethodPost, "/api/stem", `{"text":"cats"}`, http.StatusBadRequest},
		{"wrong method", &fakeBackend{}, http.MethodGet, "/api/query", "", http.StatusMethodNotAllowed},
		{"unknown route", &fakeBackend{}, http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewServer(tt.backend).Router()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
