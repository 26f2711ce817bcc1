package retrieval

import (
	"context"

	"github.com/cloudwego/eino/components/retriever"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/logger"
	"github.com/careercompass/backend/internal/metrics"
)

// Corpus names a document collection the assistant can search.
type Corpus string

const (
	Jobs      Corpus = "jobs"
	Community Corpus = "community"
)

// Library routes retrieval requests to the retriever registered for each
// corpus and degrades every failure to an empty result.
type Library struct {
	retrievers map[Corpus]retriever.Retriever
	topK       int
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewLibrary builds a Library over the given retrievers. topK < 1 leaves the
// page size to each retriever.
func NewLibrary(retrievers map[Corpus]retriever.Retriever, topK int, log *zap.Logger, m *metrics.Metrics) *Library {
	registered := make(map[Corpus]retriever.Retriever, len(retrievers))
	for corpus, r := range retrievers {
		if r != nil {
			registered[corpus] = r
		}
	}

	return &Library{
		retrievers: registered,
		topK:       topK,
		logger:     logger.OrNop(log).Named("retrieval"),
		metrics:    m,
	}
}

// Retrieve returns the text of the documents most relevant to query. It never
// fails: a missing corpus, a backend error or an empty index all yield nil.
func (l *Library) Retrieve(ctx context.Context, corpus Corpus, query string) []string {
	r, ok := l.retrievers[corpus]
	if !ok {
		l.logger.Warn("no retriever registered for corpus", zap.String("corpus", string(corpus)))
		return nil
	}

	var opts []retriever.Option
	if l.topK > 0 {
		opts = append(opts, retriever.WithTopK(l.topK))
	}

	docs, err := r.Retrieve(ctx, query, opts...)
	if err != nil {
		l.logger.Warn("retrieval failed, continuing without context",
			zap.String("corpus", string(corpus)),
			zap.Error(err),
		)
		l.metrics.RetrievalFailed(string(corpus))
		return nil
	}

	snippets := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil || doc.Content == "" {
			continue
		}
		snippets = append(snippets, doc.Content)
	}

	l.logger.Debug("retrieved documents",
		zap.String("corpus", string(corpus)),
		zap.Int("count", len(snippets)),
	)
	return snippets
}
