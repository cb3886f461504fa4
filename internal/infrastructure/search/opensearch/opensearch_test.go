package opensearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/intelligence/feature_aggregator"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   []byte
}

// fakeCluster answers each request through handle and records it.
type fakeCluster struct {
	mu       sync.Mutex
	requests []recordedRequest
	handle   func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	f.handle(w, r)
}

func (f *fakeCluster) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeCluster) {
	t.Helper()
	fc := &fakeCluster{handle: handle}
	srv := httptest.NewServer(fc)
	t.Cleanup(srv.Close)
	c, err := NewClient(ClientConfig{Addresses: []string{srv.URL}, MaxRetries: 1, RetryBackoff: time.Millisecond}, nil)
	require.NoError(t, err)
	return c, fc
}

func TestNewClient_RequiresAddresses(t *testing.T) {
	t.Parallel()
	_, err := NewClient(ClientConfig{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPing(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		require.NoError(t, c.Ping(context.Background()))
		assert.True(t, c.IsHealthy())
	})

	t.Run("unauthorized", func(t *testing.T) {
		t.Parallel()
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		err := c.Ping(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeExternalService))
		assert.False(t, c.IsHealthy())
	})
}

func TestEnsureIndex_CreatesMissingIndex(t *testing.T) {
	t.Parallel()
	c, fc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	})
	idx := NewIndexer(c, "", nil)
	require.NoError(t, idx.EnsureIndex(context.Background()))

	req := fc.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/"+DefaultIndex, req.Path)

	var mapping map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &mapping))
	props := mapping["mappings"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, "geo_point", props["locations"].(map[string]any)["type"])
	assert.Equal(t, "keyword", props["document_id"].(map[string]any)["type"])
}

func TestEnsureIndex_ExistingIndexIsLeftAlone(t *testing.T) {
	t.Parallel()
	c, fc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, NewIndexer(c, "custom", nil).EnsureIndex(context.Background()))
	assert.Len(t, fc.requests, 1)
	assert.Equal(t, http.MethodHead, fc.last().Method)
}

func TestEnsureIndex_ConcurrentCreateIsAccepted(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"resource_already_exists_exception"}}`))
	})
	assert.NoError(t, NewIndexer(c, "", nil).EnsureIndex(context.Background()))
}

func TestIndexMetadata(t *testing.T) {
	t.Parallel()
	c, fc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	md := &feature_aggregator.SearchMetadata{
		DocumentID: "doc-1",
		Summary:    "Rural road upgrade",
		Keywords:   []string{"road", "pmgsy"},
		States:     []string{"Odisha"},
		StartDate:  &start,
		TotalCost:  1.2e7,
		Currency:   "INR",
	}
	require.NoError(t, NewIndexer(c, "", nil).IndexMetadata(context.Background(), md))

	req := fc.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/dpr-documents/_doc/doc-1", req.Path)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &doc))
	assert.Equal(t, "2024-04-01", doc["start_date"])
	assert.Equal(t, "INR", doc["currency"])
}

func TestIndexMetadata_Errors(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"mapper_parsing_exception"}`))
	})
	idx := NewIndexer(c, "", nil)

	err := idx.IndexMetadata(context.Background(), &feature_aggregator.SearchMetadata{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	err = idx.IndexMetadata(context.Background(), &feature_aggregator.SearchMetadata{DocumentID: "doc-2"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIndexFailed))
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}

func TestDeleteDocument(t *testing.T) {
	t.Parallel()
	c, fc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dpr-documents/_doc/missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"deleted"}`))
	})
	idx := NewIndexer(c, "", nil)

	require.NoError(t, idx.DeleteDocument(context.Background(), "doc-1"))
	assert.Equal(t, http.MethodDelete, fc.last().Method)
	assert.ErrorIs(t, idx.DeleteDocument(context.Background(), "missing"), ErrDocumentNotFound)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	c, fc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_id": "doc-1", "_score": 3.5, "_source": {"summary": "road"}},
					{"_id": "doc-2", "_score": 1.25, "_source": {"summary": "bridge"}}
				]
			}
		}`))
	})
	s := NewSearcher(c, "", nil)
	res, err := s.Search(context.Background(), SearchRequest{Text: "road", States: []string{"Odisha"}, MinScore: 60})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	require.Len(t, res.Hits, 2)
	assert.Equal(t, "doc-1", res.Hits[0].DocumentID)
	assert.Equal(t, "road", res.Hits[0].Source["summary"])

	req := fc.last()
	assert.Equal(t, "/dpr-documents/_search", req.Path)
	var q map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &q))
	boolQ := q["query"].(map[string]any)["bool"].(map[string]any)
	assert.Len(t, boolQ["filter"], 2)
}

func TestSearch_ErrorStatus(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad query"}`))
	})
	_, err := NewSearcher(c, "", nil).Search(context.Background(), SearchRequest{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalService))
}

func TestBuildQuery(t *testing.T) {
	t.Parallel()

	q := buildQuery(SearchRequest{})
	assert.Equal(t, defaultSearchSize, q["size"])
	boolQ := q["query"].(map[string]any)["bool"].(map[string]any)
	assert.NotContains(t, boolQ, "filter")
	must := boolQ["must"].([]any)[0].(map[string]any)
	assert.Contains(t, must, "match_all")

	q = buildQuery(SearchRequest{Size: 1000, Tags: []string{"a", "b"}})
	assert.Equal(t, maxSearchSize, q["size"])
	boolQ = q["query"].(map[string]any)["bool"].(map[string]any)
	assert.Len(t, boolQ["filter"], 2)
}

//Personal.AI order the ending
