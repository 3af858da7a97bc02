package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/suggester/internal/config"
	"github.com/knowledge-engine/suggester/internal/fetcher"
	"github.com/knowledge-engine/suggester/internal/metrics"
	"github.com/knowledge-engine/suggester/internal/search"
	"github.com/knowledge-engine/suggester/internal/storage"
)

// ErrNotReady is returned by Suggest before the first successful catalog load
var ErrNotReady = errors.New("catalog not loaded")

// Engine owns the live catalog and ranker and swaps them on reload.
// Queries in flight during a reload finish against the ranker they started with.
type Engine struct {
	Config  *config.Config
	Logger  *logrus.Entry
	Source  storage.CatalogSource
	Metrics *metrics.Metrics

	ranker atomic.Pointer[search.Ranker]

	// serializes loads
	loadMu sync.Mutex

	mu    sync.RWMutex
	stats EngineStats
}

type EngineStats struct {
	Entries   int
	LoadCount int64
	LastLoad  time.Time
	LastError string
	StartTime time.Time
}

func NewEngine(cfg *config.Config, logger *logrus.Entry, source storage.CatalogSource, m *metrics.Metrics) *Engine {
	return &Engine{
		Config:  cfg,
		Logger:  logger.WithField("component", "engine"),
		Source:  source,
		Metrics: m,
		stats:   EngineStats{StartTime: time.Now()},
	}
}

// OpenSource builds the catalog source selected by cfg.Catalog.Source
func OpenSource(cfg *config.Config, logger *logrus.Entry) (storage.CatalogSource, error) {
	switch cfg.Catalog.Source {
	case config.SourceFile, "":
		return storage.NewFileSource(cfg.Catalog.Path), nil
	case config.SourceBadger:
		store, err := storage.OpenBadgerStore(cfg.Catalog.BadgerDir, false, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.SourceHTTP:
		if cfg.Catalog.URL == "" {
			return nil, errors.New("CATALOG_URL is required for the http catalog source")
		}
		return fetcher.NewHTTPSource(cfg.Catalog.URL, fetcher.Options{
			Timeout:       cfg.Catalog.FetchTimeout,
			UserAgent:     cfg.Catalog.UserAgent,
			RespectRobots: cfg.Catalog.RespectRobots,
			StripHTML:     cfg.Catalog.StripHTML,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

// Load fetches the catalog from the source and makes it live.
// On failure the previous catalog, if any, stays in place.
func (e *Engine) Load(ctx context.Context) error {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	records, err := e.Source.Load(ctx)
	if err != nil {
		e.recordLoad(0, err)
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	catalog := search.NewCatalog(records)
	e.ranker.Store(search.NewRanker(catalog,
		search.WithExactMatchWeight(e.Config.Ranker.ExactMatchWeight),
		search.WithNameMatchWeight(e.Config.Ranker.NameMatchWeight),
		search.WithDefaultLimit(e.Config.Ranker.DefaultLimit),
	))

	e.recordLoad(catalog.Len(), nil)
	e.Logger.WithField("entries", catalog.Len()).Info("Catalog loaded")
	return nil
}

func (e *Engine) recordLoad(entries int, err error) {
	e.Metrics.ObserveReload(err, entries)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.stats.LastError = err.Error()
		e.Logger.WithError(err).Error("Catalog load failed")
		return
	}
	e.stats.Entries = entries
	e.stats.LoadCount++
	e.stats.LastLoad = time.Now()
	e.stats.LastError = ""
}

// Suggest ranks the live catalog against query. Limits above the configured
// maximum are clamped to it.
func (e *Engine) Suggest(query string, limit int) ([]search.Suggestion, error) {
	r := e.ranker.Load()
	if r == nil {
		return nil, ErrNotReady
	}
	if maxLimit := e.Config.Ranker.MaxLimit; maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return r.Suggest(query, limit), nil
}

// SuggestDefault is Suggest with the configured default limit
func (e *Engine) SuggestDefault(query string) ([]search.Suggestion, error) {
	return e.Suggest(query, e.Config.Ranker.DefaultLimit)
}

func (e *Engine) IsReady() bool {
	return e.ranker.Load() != nil
}

func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// Close releases the catalog source if it holds resources
func (e *Engine) Close() error {
	if c, ok := e.Source.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
