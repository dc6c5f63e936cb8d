package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCluster answers the handful of endpoints the index uses.
type fakeCluster struct {
	mu          sync.Mutex
	creates     int
	indexExists bool
	docs        map[string]int64
	lastQuery   map[string]any
	searchBody  string
	failSearch  bool
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{docs: make(map[string]int64)}
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/" && (r.Method == http.MethodHead || r.Method == http.MethodGet):
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"version":{"number":"2.11.0","distribution":"opensearch"}}`)

	case r.URL.Path == "/products" && r.Method == http.MethodPut:
		f.creates++
		if f.indexExists {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"root_cause":[],"type":"resource_already_exists_exception","reason":"exists"},"status":400}`)

			return
		}
		f.indexExists = true
		_, _ = io.WriteString(w, `{"acknowledged":true,"shards_acknowledged":true,"index":"products"}`)

	case strings.HasPrefix(r.URL.Path, "/products/_doc/"):
		id := strings.TrimPrefix(r.URL.Path, "/products/_doc/")
		var version int64
		_ = json.Unmarshal([]byte(r.URL.Query().Get("version")), &version)
		if r.URL.Query().Get("version_type") != "external_gte" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"root_cause":[],"type":"illegal_argument_exception","reason":"version_type"},"status":400}`)

			return
		}
		if current, ok := f.docs[id]; ok && version < current {
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"error":{"root_cause":[],"type":"version_conflict_engine_exception","reason":"stale"},"status":409}`)

			return
		}
		f.docs[id] = version
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_index":"products","_id":"`+id+`","_version":1,"result":"created","_shards":{"total":1,"successful":1,"failed":0},"_seq_no":0,"_primary_term":1}`)

	case r.URL.Path == "/products/_search":
		if f.failSearch {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":{"root_cause":[],"type":"cluster_block_exception","reason":"down"},"status":503}`)

			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &f.lastQuery)
		_, _ = io.WriteString(w, f.searchBody)

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"root_cause":[],"type":"not_found","reason":"`+r.URL.Path+`"},"status":404}`)
	}
}

func newTestIndex(t *testing.T, cluster *fakeCluster) *OpenSearchIndex {
	t.Helper()

	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	idx, err := NewOpenSearchIndex(srv.URL, "products", time.Second)
	require.NoError(t, err)

	return idx
}

func TestSearch_MapsHits(t *testing.T) {
	cluster := newFakeCluster()
	cluster.searchBody = `{"took":1,"timed_out":false,"_shards":{"total":1,"successful":1,"skipped":0,"failed":0},
		"hits":{"total":{"value":2,"relation":"eq"},"max_score":1.0,"hits":[
			{"_index":"products","_id":"p-1","_score":1.0,"_source":{"product_id":"p-1","name":"Red mug","price":4.5,"description":"ceramic"}},
			{"_index":"products","_id":"p-2","_score":0.5,"_source":{"name":"Blue mug"}}
		]}}`
	idx := newTestIndex(t, cluster)

	results, err := idx.Search(context.Background(), "mug")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "p-1", results[0].ID)
	assert.Equal(t, "Red mug", results[0].Name)
	assert.Equal(t, 4.5, results[0].Price)
	require.NotNil(t, results[0].Description)
	assert.Equal(t, "ceramic", *results[0].Description)

	assert.Equal(t, "p-2", results[1].ID)
	assert.Equal(t, 0.0, results[1].Price)
	assert.Nil(t, results[1].Description)

	assert.EqualValues(t, 10, cluster.lastQuery["size"])
	mm := cluster.lastQuery["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "mug", mm["query"])
	assert.Equal(t, []any{"name^2", "description"}, mm["fields"])
}

func TestSearch_EmptyQuerySkipsBackend(t *testing.T) {
	idx, err := NewOpenSearchIndex("http://127.0.0.1:1", "products", 100*time.Millisecond)
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestSearch_BackendFaultIsInfraFault(t *testing.T) {
	cluster := newFakeCluster()
	cluster.failSearch = true
	idx := newTestIndex(t, cluster)

	_, err := idx.Search(context.Background(), "mug")

	var fault *domainerrors.InfraFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "search", fault.Component)
	assert.Equal(t, "query", fault.Op)
}

func TestEnsureIndex_CreatesOnce(t *testing.T) {
	cluster := newFakeCluster()
	idx := newTestIndex(t, cluster)
	ctx := context.Background()

	require.NoError(t, idx.EnsureIndex(ctx))
	require.NoError(t, idx.EnsureIndex(ctx))
	assert.Equal(t, 1, cluster.creates)
	assert.True(t, cluster.indexExists)
}

func TestEnsureIndex_ExistingIndexIsSuccess(t *testing.T) {
	cluster := newFakeCluster()
	cluster.indexExists = true
	idx := newTestIndex(t, cluster)

	assert.NoError(t, idx.EnsureIndex(context.Background()))
}

func TestUpsert_ExternalVersioning(t *testing.T) {
	cluster := newFakeCluster()
	idx := newTestIndex(t, cluster)
	ctx := context.Background()

	doc := &service.ProductDocument{ProductID: "p-1", Name: "A", Price: 1, UpdatedAt: 2000}
	require.NoError(t, idx.Upsert(ctx, doc))

	same := *doc
	require.NoError(t, idx.Upsert(ctx, &same))

	older := *doc
	older.UpdatedAt = 1000
	assert.ErrorIs(t, idx.Upsert(ctx, &older), service.ErrStaleDocument)
	assert.Equal(t, int64(2000), cluster.docs["p-1"])
}

func TestPing(t *testing.T) {
	idx := newTestIndex(t, newFakeCluster())
	assert.True(t, idx.Ping(context.Background()))

	down, err := NewOpenSearchIndex("http://127.0.0.1:1", "products", 100*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, down.Ping(context.Background()))
}

func TestDisabled(t *testing.T) {
	var idx Disabled
	ctx := context.Background()

	_, err := idx.Search(ctx, "x")
	assert.ErrorIs(t, err, service.ErrSearchDisabled)
	assert.ErrorIs(t, idx.EnsureIndex(ctx), service.ErrSearchDisabled)
	assert.ErrorIs(t, idx.Upsert(ctx, &service.ProductDocument{}), service.ErrSearchDisabled)
	assert.False(t, idx.Ping(ctx))
}
