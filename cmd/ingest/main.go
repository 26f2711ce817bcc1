package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/indexer"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/config"
	"github.com/careercompass/backend/internal/logger"
	"github.com/careercompass/backend/internal/service/retrieval"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env file loaded, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	corpus := flag.String("corpus", "all", "corpus to ingest: jobs, community or all")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall ingest timeout")
	flag.Parse()

	logr, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	targets, ok := ingestTargets(cfg.Retrieval, *corpus)
	if !ok {
		flag.Usage()
		logr.Fatal("unknown corpus", zap.String("corpus", *corpus))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client, err := retrieval.NewElasticsearchClient(cfg.Retrieval)
	if err != nil {
		logr.Fatal("failed to create elasticsearch client", zap.Error(err))
	}

	for _, target := range targets {
		idx := retrieval.NewElasticsearchIndexer(client, target.index)
		count, err := ingest(ctx, idx, target.paths, logr)
		if err != nil {
			logr.Fatal("ingest failed", zap.String("index", target.index), zap.Error(err))
		}
		logr.Info("ingest complete", zap.String("index", target.index), zap.Int("documents", count))
	}
}

type target struct {
	index string
	paths []string
}

func ingestTargets(cfg config.RetrievalConfig, corpus string) ([]target, bool) {
	jobs := target{index: cfg.JobIndex, paths: cfg.JobFiles}
	community := target{index: cfg.CommunityIndex, paths: cfg.CommunityFiles}

	switch retrieval.Corpus(corpus) {
	case retrieval.Jobs:
		return []target{jobs}, true
	case retrieval.Community:
		return []target{community}, true
	}
	if corpus == "all" {
		return []target{jobs, community}, true
	}
	return nil, false
}

func ingest(ctx context.Context, idx indexer.Indexer, paths []string, logr *zap.Logger) (int, error) {
	docs := retrieval.LoadDocuments(logr, paths...)
	if len(docs) == 0 {
		return 0, nil
	}

	ids, err := idx.Store(ctx, docs)
	return len(ids), err
}
