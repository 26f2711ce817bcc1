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

// JobSearch extracts job opportunities from retrieved listings.
type JobSearch struct {
	agent searchAgent[record.JobOpportunity]
}

func NewJobSearch(ctx context.Context, chatModel model.BaseChatModel, log *zap.Logger, m *metrics.Metrics) (*JobSearch, error) {
	p, err := ai.NewPrompt(ctx, "job_search", chatModel, jobSearchPrompt)
	if err != nil {
		return nil, err
	}

	log = logger.OrNop(log).Named("job_search")
	return &JobSearch{agent: searchAgent[record.JobOpportunity]{
		prompt:  p,
		parser:  extract.New[record.JobOpportunity](record.JobOpportunityName, record.JobOpportunitySchema(), log),
		logger:  log,
		metrics: m,
		record:  record.JobOpportunityName,
	}}, nil
}

// Run asks the model for the job opportunities in the retrieved text that answer query.
// Output that cannot be parsed yields no records and a nil error; only a
// failed model call returns an error, wrapping ErrUpstream.
func (j *JobSearch) Run(ctx context.Context, query, retrieved string) ([]record.JobOpportunity, error) {
	return j.agent.run(ctx, query, retrieved)
}

const jobSearchPrompt = "Based on the following job listings:\n\n{context}\n\n" +
	"The user asked: {query}\n\n" +
	"Identify and summarize the job opportunities that match the user's request. " +
	"Respond with a JSON array of objects having fields: \"title\", \"organization\", \"details\", \"url\", and \"location\". " +
	"Use null for unknown values and respond with [] when nothing matches."
