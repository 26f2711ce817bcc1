package retrieval

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careercompass/backend/internal/config"
)

type fakeCluster struct {
	mu       sync.Mutex
	searches []map[string]any
	indexed  map[string]string
	refresh  int
	status   int
}

func newFakeCluster(t *testing.T) (*fakeCluster, *elasticsearch.Client) {
	t.Helper()

	fc := &fakeCluster{indexed: map[string]string{}, status: http.StatusOK}
	srv := httptest.NewServer(http.HandlerFunc(fc.serve))
	t.Cleanup(srv.Close)

	client, err := NewElasticsearchClient(config.RetrievalConfig{ElasticsearchAddresses: []string{srv.URL}})
	require.NoError(t, err)
	return fc, client
}

func (fc *fakeCluster) serve(w http.ResponseWriter, r *http.Request) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	body, _ := io.ReadAll(r.Body)
	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		if fc.status != http.StatusOK {
			w.WriteHeader(fc.status)
			_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"},"status":404}`))
			return
		}
		var decoded map[string]any
		_ = json.Unmarshal(body, &decoded)
		fc.searches = append(fc.searches, decoded)
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_id":"a","_score":2.5,"_source":{"title": "Data Analyst", "location": "Remote"}},
			{"_id":"b","_score":1.0,"_source":{"title":"Frontend Engineer"}}
		]}}`))
	case strings.HasSuffix(r.URL.Path, "/_refresh"):
		fc.refresh++
		_, _ = w.Write([]byte(`{"_shards":{"total":1,"successful":1,"failed":0}}`))
	case strings.Contains(r.URL.Path, "/_doc/"):
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		fc.indexed[id] = string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"` + id + `","result":"created"}`))
	default:
		_, _ = w.Write([]byte(`{"version":{"number":"8.11.0"}}`))
	}
}

func TestElasticsearchRetriever(t *testing.T) {
	fc, client := newFakeCluster(t)
	r := NewElasticsearchRetriever(client, "jobs", 4)

	docs, err := r.Retrieve(testContext(t), "data analyst", retriever.WithTopK(2))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, `{"title":"Data Analyst","location":"Remote"}`, docs[0].Content)
	assert.InDelta(t, 2.5, docs[0].Score(), 1e-9)
	assert.Equal(t, "jobs", docs[0].MetaData[MetaSource])

	require.Len(t, fc.searches, 1)
	assert.EqualValues(t, 2, fc.searches[0]["size"])
	query := fc.searches[0]["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "data analyst", query["query"])
}

func TestElasticsearchRetrieverMissingIndex(t *testing.T) {
	fc, client := newFakeCluster(t)
	fc.status = http.StatusNotFound

	docs, err := NewElasticsearchRetriever(client, "community", 4).Retrieve(testContext(t), "meetup")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestElasticsearchRetrieverServerError(t *testing.T) {
	fc, client := newFakeCluster(t)
	fc.status = http.StatusInternalServerError

	_, err := NewElasticsearchRetriever(client, "jobs", 4).Retrieve(testContext(t), "data")
	assert.ErrorIs(t, err, ErrSearchFailed)
}

func TestElasticsearchIndexerStore(t *testing.T) {
	fc, client := newFakeCluster(t)
	idx := NewElasticsearchIndexer(client, "jobs")

	ids, err := idx.Store(testContext(t), []*schema.Document{
		{ID: "one", Content: `{"title":"Data Analyst"}`},
		{ID: "two", Content: "plain text listing"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two"}, ids)
	assert.JSONEq(t, `{"title":"Data Analyst"}`, fc.indexed["one"])
	assert.JSONEq(t, `{"text":"plain text listing"}`, fc.indexed["two"])
	assert.Equal(t, 1, fc.refresh)
}
