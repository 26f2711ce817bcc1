package agent

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/analysis/extract"
	"github.com/careercompass/backend/internal/logger"
	"github.com/careercompass/backend/internal/metrics"
	"github.com/careercompass/backend/internal/model/record"
	"github.com/careercompass/backend/internal/service/ai"
)

// CommunityEvents extracts upcoming events from retrieved community pages.
type CommunityEvents struct {
	agent searchAgent[record.CommunityEvent]
}

func NewCommunityEvents(ctx context.Context, chatModel model.BaseChatModel, log *zap.Logger, m *metrics.Metrics) (*CommunityEvents, error) {
	p, err := ai.NewPrompt(ctx, "community_events", chatModel, communityEventsPrompt)
	if err != nil {
		return nil, err
	}

	log = logger.OrNop(log).Named("community_events")
	return &CommunityEvents{agent: searchAgent[record.CommunityEvent]{
		prompt:  p,
		parser:  extract.New[record.CommunityEvent](record.CommunityEventName, record.CommunityEventSchema(), log),
		logger:  log,
		metrics: m,
		record:  record.CommunityEventName,
	}}, nil
}

// Run behaves like JobSearch.Run for community events.
func (c *CommunityEvents) Run(ctx context.Context, query, retrieved string) ([]record.CommunityEvent, error) {
	return c.agent.run(ctx, query, retrieved)
}

const communityEventsPrompt = "Based on the following community information:\n\n{context}\n\n" +
	"The user asked: {query}\n\n" +
	"Identify and summarize the upcoming community events that match the user's request. " +
	"Respond with a JSON array of objects having fields: \"title\", \"date\", \"location\", \"description\", and \"url\". " +
	"Use null for unknown values and respond with [] when nothing matches."
