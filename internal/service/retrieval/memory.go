package retrieval

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
)

const defaultTopK = 4

// MemoryRetriever ranks an in-memory document set by how many distinct query
// terms each document contains. Documents sharing no term with the query are
// never returned.
type MemoryRetriever struct {
	docs  []*schema.Document
	terms []map[string]struct{}
	topK  int
}

var _ retriever.Retriever = (*MemoryRetriever)(nil)

// NewMemoryRetriever indexes docs. topK < 1 falls back to 4.
func NewMemoryRetriever(docs []*schema.Document, topK int) *MemoryRetriever {
	if topK < 1 {
		topK = defaultTopK
	}

	r := &MemoryRetriever{topK: topK}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		set := make(map[string]struct{})
		for _, term := range tokenize(doc.Content) {
			set[term] = struct{}{}
		}
		r.docs = append(r.docs, doc)
		r.terms = append(r.terms, set)
	}
	return r
}

// Len reports how many documents are indexed.
func (r *MemoryRetriever) Len() int {
	return len(r.docs)
}

func (r *MemoryRetriever) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topK := r.topK
	options := retriever.GetCommonOptions(&retriever.Options{TopK: &topK}, opts...)
	if options.TopK != nil && *options.TopK > 0 {
		topK = *options.TopK
	}

	queryTerms := uniqueTerms(query)
	if len(queryTerms) == 0 {
		return nil, nil
	}

	type hit struct {
		index int
		score int
	}
	var hits []hit
	for i, set := range r.terms {
		score := 0
		for _, term := range queryTerms {
			if _, ok := set[term]; ok {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{index: i, score: score})
		}
	}

	// Equal scores keep load order.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	out := make([]*schema.Document, 0, len(hits))
	for _, h := range hits {
		src := r.docs[h.index]
		doc := &schema.Document{
			ID:       src.ID,
			Content:  src.Content,
			MetaData: make(map[string]any, len(src.MetaData)+1),
		}
		for k, v := range src.MetaData {
			doc.MetaData[k] = v
		}
		out = append(out, doc.WithScore(float64(h.score)/float64(len(queryTerms))))
	}
	return out, nil
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > 1 {
			terms = append(terms, f)
		}
	}
	return terms
}

func uniqueTerms(text string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, term := range tokenize(text) {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}
