// Package websearch fans generated queries out over the configured search
// providers and turns their hits into raw results for analysis.
package websearch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch/provider"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch/types"
)

// ErrAllFailed is returned when every provider call of a search failed
var ErrAllFailed = errors.New("all search provider calls failed")

// Failure records one provider call that was skipped
type Failure struct {
	Provider string `json:"provider"`
	Query    string `json:"query"`
	Error    string `json:"error"`
}

// Outcome is the merged result of one fan-out search
type Outcome struct {
	Results  []analysis.RawResult `json:"results"`
	Calls    int                  `json:"calls"`
	Dropped  int                  `json:"dropped"`
	Failures []Failure            `json:"failures"`
	// Hits counts valid hits per query before merging
	Hits map[string]int `json:"hits"`
}

// Service runs queries against every provider through a bounded pool
type Service struct {
	providers  []provider.Provider
	pool       *workerpool.Pool
	maxResults int
	logger     *logger.Logger
}

// NewService creates a search service. maxResults <= 0 leaves the provider default.
func NewService(providers []provider.Provider, pool *workerpool.Pool, maxResults int, log *logger.Logger) *Service {
	if log == nil {
		log = logger.L()
	}
	return &Service{
		providers:  providers,
		pool:       pool,
		maxResults: maxResults,
		logger:     log.Named("websearch"),
	}
}

// Providers lists the configured provider names
func (s *Service) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.GetName())
	}
	return names
}

// Search sends every query to every provider. A failing call is logged and
// skipped; the search only fails when no call succeeded.
func (s *Service) Search(ctx context.Context, queries []string) (*Outcome, error) {
	if len(s.providers) == 0 {
		return nil, types.ErrNoProviders
	}

	type call struct {
		p     provider.Provider
		query string
	}
	calls := make([]call, 0, len(queries)*len(s.providers))
	for _, q := range queries {
		for _, p := range s.providers {
			calls = append(calls, call{p: p, query: q})
		}
	}

	batches := make([][]analysis.RawResult, len(calls))
	var (
		mu      sync.Mutex
		dropped int
	)

	tasks := make([]workerpool.Task, len(calls))
	for i, c := range calls {
		i, c := i, c
		tasks[i] = func(ctx context.Context) error {
			resp, err := c.p.Search(ctx, &types.SearchRequest{Query: c.query, MaxResults: s.maxResults})
			if err != nil {
				return err
			}
			results, n := ToRawResults(resp)
			batches[i] = results
			mu.Lock()
			dropped += n
			mu.Unlock()
			return nil
		}
	}

	errs := s.pool.Run(ctx, tasks)

	out := &Outcome{Calls: len(calls), Failures: []Failure{}, Hits: make(map[string]int, len(queries))}
	for i, c := range calls {
		out.Hits[c.query] += len(batches[i])
	}
	var firstErr error
	for i, err := range errs {
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
		s.logger.WithContext(ctx).Warn("search provider call failed, skipping",
			zap.String("provider", calls[i].p.GetName()),
			zap.String("query", calls[i].query),
			zap.Error(err),
		)
		out.Failures = append(out.Failures, Failure{
			Provider: calls[i].p.GetName(),
			Query:    calls[i].query,
			Error:    err.Error(),
		})
	}

	if len(calls) > 0 && len(out.Failures) == len(calls) {
		return nil, fmt.Errorf("%w: %v", ErrAllFailed, firstErr)
	}

	out.Results = Merge(batches...)
	out.Dropped = dropped
	if dropped > 0 {
		s.logger.Debug("dropped hits with invalid URLs", zap.Int("dropped", dropped))
	}
	return out, nil
}
