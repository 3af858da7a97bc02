package search

import "sort"

// DefaultLimit is the number of suggestions returned when the caller gives none
const DefaultLimit = 5

// Suggestion is a ranked catalog entry
type Suggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Score       int    `json:"score"`
}

// Option configures a Ranker at construction time
type Option func(*Ranker)

// WithExactMatchWeight sets the multiplier applied to exact token matches
func WithExactMatchWeight(w int) Option {
	return func(r *Ranker) {
		r.scorer.ExactMatchWeight = w
	}
}

// WithNameMatchWeight sets the weight of name matches; description matches weigh 1
func WithNameMatchWeight(w int) Option {
	return func(r *Ranker) {
		r.nameWeight = w
	}
}

// WithDefaultLimit sets the limit used by SuggestDefault
func WithDefaultLimit(n int) Option {
	return func(r *Ranker) {
		r.defaultLimit = n
	}
}

// Ranker scores a query against every catalog entry and returns the best matches.
// It holds no per-query state and is safe for concurrent use.
type Ranker struct {
	catalog      *Catalog
	scorer       WordScorer
	nameWeight   int
	defaultLimit int
}

// NewRanker creates a ranker over catalog. A nil catalog behaves as empty.
func NewRanker(catalog *Catalog, opts ...Option) *Ranker {
	if catalog == nil {
		catalog = &Catalog{}
	}
	r := &Ranker{
		catalog:      catalog,
		scorer:       NewWordScorer(),
		nameWeight:   DefaultNameMatchWeight,
		defaultLimit: DefaultLimit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the catalog the ranker was built over
func (r *Ranker) Catalog() *Catalog {
	return r.catalog
}

// scored pairs an entry with its score for a single query
type scored struct {
	entry *Entry
	score int
}

// Suggest returns at most limit entries with a positive score, highest first.
// Entries with equal scores keep their catalog order.
func (r *Ranker) Suggest(query string, limit int) []Suggestion {
	queryWords := Tokenize(query)
	if len(queryWords) == 0 || limit <= 0 {
		return []Suggestion{}
	}

	var hits []scored
	for i := range r.catalog.entries {
		e := &r.catalog.entries[i]
		if score := r.score(queryWords, e); score > 0 {
			hits = append(hits, scored{entry: e, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]Suggestion, len(hits))
	for i, h := range hits {
		results[i] = Suggestion{
			Name:        h.entry.Name,
			Description: h.entry.Description,
			Score:       h.score,
		}
	}
	return results
}

// SuggestDefault is Suggest with the ranker's default limit
func (r *Ranker) SuggestDefault(query string) []Suggestion {
	return r.Suggest(query, r.defaultLimit)
}

// DefaultLimit returns the limit used by SuggestDefault
func (r *Ranker) DefaultLimit() int {
	return r.defaultLimit
}

func (r *Ranker) score(queryWords []string, e *Entry) int {
	return r.scorer.Score(queryWords, e.NameWords, r.nameWeight) +
		r.scorer.Score(queryWords, e.DescWords, 1)
}
