package intent

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/logger"
	"github.com/careercompass/backend/internal/service/ai"
)

// ErrClassification marks a failed classification: the model was unreachable
// or answered with nothing.
var ErrClassification = errors.New("intent classification failed")

// Classifier asks the chat model which category a query belongs to.
type Classifier struct {
	prompt *ai.Prompt
	logger *zap.Logger
}

// NewClassifier compiles the taxonomy prompt against chatModel.
func NewClassifier(ctx context.Context, chatModel model.BaseChatModel, log *zap.Logger) (*Classifier, error) {
	p, err := ai.NewPrompt(ctx, "intent", chatModel, classifierPrompt)
	if err != nil {
		return nil, err
	}
	return &Classifier{prompt: p, logger: logger.OrNop(log).Named("intent")}, nil
}

// Classify returns the model's raw, trimmed category label for query. The
// label is not mapped to an Intent here; see Route.
func (c *Classifier) Classify(ctx context.Context, query string) (string, error) {
	label, err := c.prompt.Complete(ctx, map[string]any{"query": query})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrClassification, err)
	}
	if label == "" {
		return "", fmt.Errorf("%w: %w", ErrClassification, ai.ErrEmptyCompletion)
	}

	c.logger.Debug("intent detected", zap.String("label", label))
	return label, nil
}

// Requests for resources, guidance or preparation material go to mentorship
// even when they mention jobs or events.
const classifierPrompt = "You are an expert at understanding the intent behind user queries related to resources for women. " +
	"Your task is to analyze the given query and classify it into one of the following categories: " +
	"1. Job Opportunities, 2. Mentorship Programs, 3. Community Events. " +
	"If the user asks for any resources, guidance, or preparation materials, classify it as 'Mentorship Programs'. " +
	"Based on the user's query, output only the category that best matches their intent: {query}"
