package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/suggester/internal/api"
	"github.com/knowledge-engine/suggester/internal/config"
	"github.com/knowledge-engine/suggester/internal/engine"
	"github.com/knowledge-engine/suggester/internal/metrics"
)

func main() {
	// 1. Config
	cfg := config.Load()

	// 2. Logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	entry := logger.WithField("service", "suggest-api")

	entry.Info("Starting Texture Suggestion Service")

	// 3. Metrics
	var gatherer prometheus.Gatherer
	var m *metrics.Metrics
	if cfg.Server.EnableMetrics {
		reg := prometheus.NewRegistry()
		m = metrics.MustNewMetrics(reg)
		gatherer = reg
	}

	// 4. Catalog source
	source, err := engine.OpenSource(cfg, entry)
	if err != nil {
		entry.Fatalf("Failed to open catalog source: %v", err)
	}

	// 5. Engine
	eng := engine.NewEngine(cfg, entry, source, m)
	defer eng.Close()

	if err := eng.Load(context.Background()); err != nil {
		entry.Fatalf("Failed to load catalog: %v", err)
	}

	// 6. API Server
	server := api.NewServer(eng, entry, gatherer)

	entry.Infof("Suggestion API ready on %s", cfg.Server.Addr)
	if err := server.Start(cfg.Server.Addr); err != nil {
		entry.Fatal(err)
	}
}
