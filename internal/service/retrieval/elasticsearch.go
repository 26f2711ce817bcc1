package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/careercompass/backend/internal/config"
)

// ErrSearchFailed is returned when Elasticsearch answers a request with an
// error status.
var ErrSearchFailed = errors.New("elasticsearch request failed")

// NewElasticsearchClient builds a client for the configured cluster.
func NewElasticsearchClient(cfg config.RetrievalConfig) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.ElasticsearchAddresses,
	}
	if cfg.ElasticsearchUsername != "" {
		esCfg.Username = cfg.ElasticsearchUsername
		esCfg.Password = cfg.ElasticsearchPassword
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return client, nil
}

// ElasticsearchRetriever runs a multi_match query over every field of an
// index and returns each hit's _source as a JSON document.
type ElasticsearchRetriever struct {
	client *elasticsearch.Client
	index  string
	topK   int
}

var _ retriever.Retriever = (*ElasticsearchRetriever)(nil)

func NewElasticsearchRetriever(client *elasticsearch.Client, index string, topK int) *ElasticsearchRetriever {
	if topK < 1 {
		topK = defaultTopK
	}
	return &ElasticsearchRetriever{client: client, index: index, topK: topK}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Score  float64         `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (r *ElasticsearchRetriever) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	topK := r.topK
	options := retriever.GetCommonOptions(&retriever.Options{TopK: &topK}, opts...)
	if options.TopK != nil && *options.TopK > 0 {
		topK = *options.TopK
	}

	body, err := json.Marshal(map[string]any{
		"size": topK,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":   query,
				"type":    "best_fields",
				"lenient": true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: search %s: %s", ErrSearchFailed, r.index, res.Status())
	}

	var decoded searchResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]*schema.Document, 0, len(decoded.Hits.Hits))
	for _, hit := range decoded.Hits.Hits {
		var content bytes.Buffer
		if err := json.Compact(&content, hit.Source); err != nil {
			continue
		}
		doc := &schema.Document{
			ID:       hit.ID,
			Content:  content.String(),
			MetaData: map[string]any{MetaSource: r.index},
		}
		docs = append(docs, doc.WithScore(hit.Score))
	}
	return docs, nil
}

// ElasticsearchIndexer stores documents into an index, keyed by document ID.
type ElasticsearchIndexer struct {
	client *elasticsearch.Client
	index  string
}

var _ indexer.Indexer = (*ElasticsearchIndexer)(nil)

func NewElasticsearchIndexer(client *elasticsearch.Client, index string) *ElasticsearchIndexer {
	return &ElasticsearchIndexer{client: client, index: index}
}

// Store indexes docs and refreshes the index once at the end. Document content
// that is not a JSON object is stored under a "text" field.
func (i *ElasticsearchIndexer) Store(ctx context.Context, docs []*schema.Document, _ ...indexer.Option) ([]string, error) {
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}

		body, err := sourceBody(doc.Content)
		if err != nil {
			return ids, err
		}

		req := esapi.IndexRequest{
			Index:      i.index,
			DocumentID: doc.ID,
			Body:       bytes.NewReader(body),
		}
		res, err := req.Do(ctx, i.client)
		if err != nil {
			return ids, fmt.Errorf("index document %s: %w", doc.ID, err)
		}

		var indexed struct {
			ID string `json:"_id"`
		}
		decodeErr := json.NewDecoder(res.Body).Decode(&indexed)
		res.Body.Close()

		if res.IsError() {
			return ids, fmt.Errorf("%w: index document %s: %s", ErrSearchFailed, doc.ID, res.Status())
		}
		if decodeErr != nil {
			return ids, fmt.Errorf("decode index response: %w", decodeErr)
		}
		ids = append(ids, indexed.ID)
	}

	res, err := i.client.Indices.Refresh(
		i.client.Indices.Refresh.WithContext(ctx),
		i.client.Indices.Refresh.WithIndex(i.index),
	)
	if err != nil {
		return ids, fmt.Errorf("refresh %s: %w", i.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return ids, fmt.Errorf("%w: refresh %s: %s", ErrSearchFailed, i.index, res.Status())
	}

	return ids, nil
}

func sourceBody(content string) ([]byte, error) {
	if strings.HasPrefix(strings.TrimSpace(content), "{") && json.Valid([]byte(content)) {
		return []byte(content), nil
	}
	body, err := json.Marshal(map[string]string{"text": content})
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return body, nil
}
