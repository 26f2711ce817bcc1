package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/logger"
	"github.com/careercompass/backend/internal/metrics"
	"github.com/careercompass/backend/internal/model/chat"
	"github.com/careercompass/backend/internal/model/record"
	"github.com/careercompass/backend/internal/service/intent"
	"github.com/careercompass/backend/internal/service/retrieval"
)

// Replies used when a branch has nothing to report.
const (
	NoJobsReply   = "I couldn't find any matching job opportunities at the moment."
	NoEventsReply = "No community events found at this time."
	FallbackReply = "Sorry, I'm not sure how to help with that."
	jobsHeader    = "Here are some job opportunities I found:\n"
	eventsHeader  = "Here are some upcoming community events:\n"
	historyHeader = "\nPrevious Chat History:\n"
	notSpecified  = "Not specified"
	noDetails     = "No details provided"
	noDescription = "No description provided"
	noURL         = "No URL provided"
)

type IntentClassifier interface {
	Classify(ctx context.Context, query string) (string, error)
}

type DocumentRetriever interface {
	Retrieve(ctx context.Context, corpus retrieval.Corpus, query string) []string
}

type JobAgent interface {
	Run(ctx context.Context, query, retrieved string) ([]record.JobOpportunity, error)
}

type EventAgent interface {
	Run(ctx context.Context, query, retrieved string) ([]record.CommunityEvent, error)
}

type MentorAgent interface {
	Answer(ctx context.Context, query string, window []string) (string, error)
}

// Dependencies are the collaborators an Orchestrator routes between.
// Logger and Metrics are optional.
type Dependencies struct {
	Classifier IntentClassifier
	Retriever  DocumentRetriever
	Jobs       JobAgent
	Events     EventAgent
	Mentor     MentorAgent
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Orchestrator runs one conversational turn: classify, route, retrieve,
// delegate to an agent and format the reply. It keeps no state between
// calls; history is passed in and returned.
type Orchestrator struct {
	classifier IntentClassifier
	retriever  DocumentRetriever
	jobs       JobAgent
	events     EventAgent
	mentor     MentorAgent
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewOrchestrator(deps Dependencies) (*Orchestrator, error) {
	switch {
	case deps.Classifier == nil:
		return nil, errors.New("orchestrator: classifier is required")
	case deps.Retriever == nil:
		return nil, errors.New("orchestrator: retriever is required")
	case deps.Jobs == nil, deps.Events == nil, deps.Mentor == nil:
		return nil, errors.New("orchestrator: job, event and mentor agents are required")
	}

	return &Orchestrator{
		classifier: deps.Classifier,
		retriever:  deps.Retriever,
		jobs:       deps.Jobs,
		events:     deps.Events,
		mentor:     deps.Mentor,
		logger:     logger.OrNop(deps.Logger).Named("orchestrator"),
		metrics:    deps.Metrics,
	}, nil
}

// ProcessMessage answers userInput given the prior history and returns the
// reply with the history extended by the user and bot turns. The input slice
// is never modified. The only error returned wraps agent.ErrUpstream, in
// which case history is returned unchanged.
func (o *Orchestrator) ProcessMessage(ctx context.Context, userInput string, history []string) (string, []string, error) {
	started := time.Now()

	updated := make([]string, len(history), len(history)+2)
	copy(updated, history)
	updated = append(updated, chat.UserTurn(userInput))

	routed := intent.Unknown
	label, err := o.classifier.Classify(ctx, userInput)
	if err != nil {
		o.logger.Warn("intent classification failed, using fallback", zap.Error(err))
	} else {
		routed = intent.Route(label)
	}
	o.metrics.IntentRouted(routed.Label())
	defer o.metrics.ObserveMessage(routed.Label(), started)

	o.logger.Debug("routing message",
		zap.String("label", label),
		zap.String("intent", string(routed)),
		zap.Int("history_len", len(history)),
	)

	window := chat.Window(updated, chat.WindowSize)

	var reply string
	switch routed {
	case intent.JobOpportunities:
		retrieved := o.retrievalContext(ctx, retrieval.Jobs, userInput, window)
		jobs, runErr := o.jobs.Run(ctx, userInput, retrieved)
		if runErr != nil {
			return "", history, runErr
		}
		reply = FormatJobs(jobs)
	case intent.CommunityEvents:
		retrieved := o.retrievalContext(ctx, retrieval.Community, userInput, window)
		events, runErr := o.events.Run(ctx, userInput, retrieved)
		if runErr != nil {
			return "", history, runErr
		}
		reply = FormatEvents(events)
	case intent.MentorshipPrograms:
		answer, runErr := o.mentor.Answer(ctx, userInput, window)
		if runErr != nil {
			return "", history, runErr
		}
		reply = answer
	default:
		reply = FallbackReply
	}

	updated = append(updated, chat.BotTurn(reply))
	return reply, updated, nil
}

func (o *Orchestrator) retrievalContext(ctx context.Context, corpus retrieval.Corpus, query string, window []string) string {
	snippets := o.retriever.Retrieve(ctx, corpus, query)
	return strings.Join(snippets, "\n") + historyHeader + chat.Format(window)
}

// FormatJobs renders job opportunities as a bulleted reply.
func FormatJobs(jobs []record.JobOpportunity) string {
	if len(jobs) == 0 {
		return NoJobsReply
	}

	lines := make([]string, 0, len(jobs))
	for _, job := range jobs {
		lines = append(lines, "- "+job.Title+" at "+orDefault(job.Organization, notSpecified)+": "+
			orDefault(job.Details, noDetails)+" ("+orDefault(job.URL, noURL)+
			", Location: "+orDefault(job.Location, notSpecified)+")")
	}
	return jobsHeader + strings.Join(lines, "\n")
}

// FormatEvents renders community events as a bulleted reply.
func FormatEvents(events []record.CommunityEvent) string {
	if len(events) == 0 {
		return NoEventsReply
	}

	lines := make([]string, 0, len(events))
	for _, event := range events {
		lines = append(lines, "- "+event.Title+" on "+orDefault(event.Date, notSpecified)+
			" at "+orDefault(event.Location, notSpecified)+": "+
			orDefault(event.Description, noDescription)+" ("+orDefault(event.URL, noURL)+")")
	}
	return eventsHeader + strings.Join(lines, "\n")
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
