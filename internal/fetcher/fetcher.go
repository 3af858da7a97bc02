package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html"

	"github.com/knowledge-engine/suggester/internal/search"
	"github.com/knowledge-engine/suggester/internal/storage"
)

// ErrDisallowedByRobots is returned when robots.txt forbids fetching the catalog
var ErrDisallowedByRobots = errors.New("catalog URL blocked by robots.txt")

// Catalogs larger than this are rejected
const maxCatalogBytes = 32 << 20

// Options controls how a remote catalog is fetched
type Options struct {
	Timeout       time.Duration
	UserAgent     string
	RespectRobots bool
	StripHTML     bool
}

// HTTPSource loads a JSON catalog from a URL
type HTTPSource struct {
	url    string
	opts   Options
	client *http.Client
	logger *logrus.Entry
}

func NewHTTPSource(rawURL string, opts Options, logger *logrus.Entry) *HTTPSource {
	if opts.UserAgent == "" {
		opts.UserAgent = "TextureSuggester/1.0"
	}
	return &HTTPSource{
		url:  rawURL,
		opts: opts,
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger.WithField("component", "http_source"),
	}
}

// Load downloads and validates the catalog
func (s *HTTPSource) Load(ctx context.Context) ([]search.Record, error) {
	target, err := url.Parse(s.url)
	if err != nil || target.Host == "" {
		return nil, fmt.Errorf("invalid catalog URL %q", s.url)
	}

	if s.opts.RespectRobots && !s.isAllowed(ctx, target) {
		return nil, fmt.Errorf("%w: %s", ErrDisallowedByRobots, s.url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	records, err := storage.DecodeRecords(io.LimitReader(resp.Body, maxCatalogBytes), storage.FormatJSON)
	if err != nil {
		return nil, err
	}

	if s.opts.StripHTML {
		for i := range records {
			records[i].Name = StripMarkup(records[i].Name)
			records[i].Description = StripMarkup(records[i].Description)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"url":     s.url,
		"entries": len(records),
	}).Info("Fetched remote catalog")

	return records, nil
}

// isAllowed checks robots.txt for the catalog path. A missing or unreadable
// robots.txt allows the request.
func (s *HTTPSource) isAllowed(ctx context.Context, target *url.URL) bool {
	robotsURL := (&url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/robots.txt"}).String()
	log := s.logger.WithField("robots_url", robotsURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to build robots.txt request, allowing fetch")
		return true
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("Failed to get robots.txt, allowing fetch")
		return true
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		log.WithError(err).Warn("Failed to parse robots.txt, allowing fetch")
		return true
	}

	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	return robots.TestAgent(path, s.opts.UserAgent)
}

// StripMarkup returns the visible text of an HTML fragment with whitespace
// collapsed. Script and style contents are dropped.
func StripMarkup(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}

	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var textBuilder strings.Builder
	inScript := false
	inStyle := false

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return cleanText(textBuilder.String())

		case html.StartTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = true
			case "style":
				inStyle = true
			}

		case html.EndTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			}

		case html.TextToken:
			if !inScript && !inStyle {
				textBuilder.WriteString(tokenizer.Token().Data)
				textBuilder.WriteString(" ")
			}
		}
	}
}

// cleanText removes excessive whitespace
func cleanText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
