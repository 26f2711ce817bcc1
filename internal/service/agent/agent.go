package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/analysis/extract"
	"github.com/careercompass/backend/internal/metrics"
	"github.com/careercompass/backend/internal/service/ai"
)

// ErrUpstream marks a failed call to the language model.
var ErrUpstream = errors.New("upstream model unavailable")

// searchAgent runs one extraction prompt and parses the completion into
// records of type T.
type searchAgent[T any] struct {
	prompt  *ai.Prompt
	parser  *extract.Parser[T]
	logger  *zap.Logger
	metrics *metrics.Metrics
	record  string
}

func (a *searchAgent[T]) run(ctx context.Context, query, retrieved string) ([]T, error) {
	completion, err := a.prompt.Complete(ctx, map[string]any{
		"context": retrieved,
		"query":   query,
	})
	if err != nil {
		a.metrics.UpstreamFailed(a.prompt.Name())
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, a.prompt.Name(), err)
	}

	records, err := a.parser.Extract(completion)
	if err != nil {
		a.logger.Warn("no records extracted from completion",
			zap.String("record", a.record),
			zap.Int("completion_len", len(completion)),
			zap.Error(err),
		)
		a.metrics.ExtractionFailed(a.record)
		return nil, nil
	}

	a.logger.Debug("records extracted", zap.String("record", a.record), zap.Int("count", len(records)))
	return records, nil
}
