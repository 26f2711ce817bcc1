package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/logger"
	"github.com/careercompass/backend/internal/metrics"
	"github.com/careercompass/backend/internal/model/chat"
	"github.com/careercompass/backend/internal/service/ai"
)

// Mentorship answers guidance questions directly from the model, with the
// recent conversation as context.
type Mentorship struct {
	prompt  *ai.Prompt
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewMentorship(ctx context.Context, chatModel model.BaseChatModel, log *zap.Logger, m *metrics.Metrics) (*Mentorship, error) {
	p, err := ai.NewPrompt(ctx, "mentorship", chatModel, mentorshipPrompt)
	if err != nil {
		return nil, err
	}
	return &Mentorship{prompt: p, logger: logger.OrNop(log).Named("mentorship"), metrics: m}, nil
}

// Answer returns the model's trimmed reply to query.
func (m *Mentorship) Answer(ctx context.Context, query string, window []string) (string, error) {
	reply, err := m.prompt.Complete(ctx, map[string]any{
		"history": chat.Format(window),
		"query":   query,
	})
	if err != nil {
		m.metrics.UpstreamFailed(m.prompt.Name())
		return "", fmt.Errorf("%w: %s: %w", ErrUpstream, m.prompt.Name(), err)
	}
	if reply == "" {
		m.logger.Warn("mentorship completion was empty")
	}
	return reply, nil
}

const mentorshipPrompt = "Previous Chat History:\n{history}\n" +
	"You are a helpful mentor for women. " +
	"Provide a specific, concise, and actionable answer to the following query: {query}"
