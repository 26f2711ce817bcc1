package main

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/retriever"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/config"
	"github.com/careercompass/backend/internal/metrics"
	"github.com/careercompass/backend/internal/service/agent"
	"github.com/careercompass/backend/internal/service/chat"
	"github.com/careercompass/backend/internal/service/intent"
	"github.com/careercompass/backend/internal/service/retrieval"
	"github.com/careercompass/backend/internal/service/session"
)

func newSessionStore(ctx context.Context, cfg config.SessionConfig) (session.Store, func(), error) {
	if cfg.Backend != config.BackendRedis {
		return session.NewMemoryStore(cfg.TTL), func() {}, nil
	}

	client, err := session.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(client, cfg.TTL), func() { _ = client.Close() }, nil
}

func newRetrievers(cfg config.RetrievalConfig, log *zap.Logger) (map[retrieval.Corpus]retriever.Retriever, error) {
	switch cfg.Backend {
	case config.BackendElasticsearch:
		client, err := retrieval.NewElasticsearchClient(cfg)
		if err != nil {
			return nil, err
		}
		return map[retrieval.Corpus]retriever.Retriever{
			retrieval.Jobs:      retrieval.NewElasticsearchRetriever(client, cfg.JobIndex, cfg.TopK),
			retrieval.Community: retrieval.NewElasticsearchRetriever(client, cfg.CommunityIndex, cfg.TopK),
		}, nil
	default:
		retrievers := make(map[retrieval.Corpus]retriever.Retriever, 2)
		for corpus, paths := range map[retrieval.Corpus][]string{
			retrieval.Jobs:      cfg.JobFiles,
			retrieval.Community: cfg.CommunityFiles,
		} {
			docs := retrieval.LoadDocuments(log, paths...)
			if len(docs) == 0 {
				log.Warn("no documents loaded, corpus will return no context", zap.String("corpus", string(corpus)))
				continue
			}
			retrievers[corpus] = retrieval.NewMemoryRetriever(docs, cfg.TopK)
		}
		return retrievers, nil
	}
}

func newOrchestrator(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*chat.Orchestrator, error) {
	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	retrievers, err := newRetrievers(cfg.Retrieval, log)
	if err != nil {
		return nil, fmt.Errorf("create retrievers: %w", err)
	}

	return buildOrchestrator(ctx, chatModel, retrieval.NewLibrary(retrievers, cfg.Retrieval.TopK, log, m), log, m)
}

func buildOrchestrator(ctx context.Context, chatModel model.BaseChatModel, library *retrieval.Library, log *zap.Logger, m *metrics.Metrics) (*chat.Orchestrator, error) {
	classifier, err := intent.NewClassifier(ctx, chatModel, log)
	if err != nil {
		return nil, err
	}
	jobs, err := agent.NewJobSearch(ctx, chatModel, log, m)
	if err != nil {
		return nil, err
	}
	events, err := agent.NewCommunityEvents(ctx, chatModel, log, m)
	if err != nil {
		return nil, err
	}
	mentor, err := agent.NewMentorship(ctx, chatModel, log, m)
	if err != nil {
		return nil, err
	}

	return chat.NewOrchestrator(chat.Dependencies{
		Classifier: classifier,
		Retriever:  library,
		Jobs:       jobs,
		Events:     events,
		Mentor:     mentor,
		Logger:     log,
		Metrics:    m,
	})
}
