package retrieval

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/logger"
)

// MetaSource is the document metadata key holding the file a document was
// loaded from.
const MetaSource = "source"

// LoadDocuments reads listing files. A file holding a JSON array yields one
// document per element; a file holding an object yields one document. Files
// that are missing or not valid JSON are skipped with a warning.
func LoadDocuments(log *zap.Logger, paths ...string) []*schema.Document {
	log = logger.OrNop(log).Named("loader")

	var docs []*schema.Document
	for _, path := range paths {
		loaded, err := loadFile(path)
		if err != nil {
			log.Warn("skipping document file", zap.String("path", path), zap.Error(err))
			continue
		}
		log.Info("loaded documents", zap.String("path", path), zap.Int("count", len(loaded)))
		docs = append(docs, loaded...)
	}
	return docs
}

func loadFile(path string) ([]*schema.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	default:
		return nil, fmt.Errorf("decode %s: expected a JSON array or object", path)
	}

	docs := make([]*schema.Document, 0, len(items))
	for i, item := range items {
		content, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encode %s item %d: %w", path, i, err)
		}
		docs = append(docs, &schema.Document{
			ID:       documentID(path, i),
			Content:  string(content),
			MetaData: map[string]any{MetaSource: path},
		})
	}
	return docs, nil
}

// documentID is stable across loads so re-ingesting a file overwrites its
// previous documents.
func documentID(path string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(path+"#"+strconv.Itoa(index))).String()
}
