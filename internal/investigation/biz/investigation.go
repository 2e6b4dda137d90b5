package biz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lk2023060901/osint-analysis-backend/internal/analysis"
	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/aggregate"
	analysistypes "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/view"
	"github.com/lk2023060901/osint-analysis-backend/internal/collector"
	"github.com/lk2023060901/osint-analysis-backend/internal/export"
	"github.com/lk2023060901/osint-analysis-backend/internal/investigation/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
	"github.com/lk2023060901/osint-analysis-backend/internal/tips"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch"
	wstypes "github.com/lk2023060901/osint-analysis-backend/internal/websearch/types"
)

// InvestigationRepo defines the persistence operations for investigations.
// Get returns ErrInvestigationNotFound for unknown ids; the other reads return
// empty values when nothing is stored.
type InvestigationRepo interface {
	Save(ctx context.Context, inv *types.Investigation) error
	Get(ctx context.Context, id string) (*types.Investigation, error)
	List(ctx context.Context) ([]*types.Investigation, error)
	Delete(ctx context.Context, id string) error

	Results(ctx context.Context, id string) ([]analysistypes.RawResult, error)
	SaveResults(ctx context.Context, id string, results []analysistypes.RawResult) error
	Filters(ctx context.Context, id string) (analysistypes.FilterState, error)
	SaveFilters(ctx context.Context, id string, f analysistypes.FilterState) error
	History(ctx context.Context, id string) ([]types.HistoryEntry, error)
	AppendHistory(ctx context.Context, id string, entries ...types.HistoryEntry) error
}

// Searcher runs queries against the configured search providers
type Searcher interface {
	Search(ctx context.Context, queries []string) (*websearch.Outcome, error)
}

// InvestigationUseCase contains the investigation workflow
type InvestigationUseCase struct {
	repo     InvestigationRepo
	searcher Searcher
	sink     export.Sink
	advisor  tips.Advisor
	logger   *logger.Logger
	now      func() time.Time

	// serialises read-merge-write of one investigation's results
	locks sync.Map
}

// NewInvestigationUseCase creates the use case. searcher and sink may be nil,
// which disables search and export respectively.
func NewInvestigationUseCase(repo InvestigationRepo, searcher Searcher, sink export.Sink, advisor tips.Advisor, log *logger.Logger) *InvestigationUseCase {
	if advisor == nil {
		advisor = tips.CatalogAdvisor{}
	}
	if log == nil {
		log = logger.L()
	}
	return &InvestigationUseCase{
		repo:     repo,
		searcher: searcher,
		sink:     sink,
		advisor:  advisor,
		logger:   log.Named("investigation"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *InvestigationUseCase) lock(id string) func() {
	v, _ := uc.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Create 创建调查
func (uc *InvestigationUseCase) Create(ctx context.Context, req *CreateRequest) (*types.Investigation, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	now := uc.now()
	inv := &types.Investigation{
		ID:        uuid.New().String(),
		Target:    req.Target,
		Query:     req.Query,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create investigation: %w", err)
	}

	uc.logger.WithContext(ctx).Info("investigation created", zap.String("investigation_id", inv.ID))
	return inv, nil
}

// Get 获取调查. Only canonical UUIDs are looked up, so a path id can never
// address another stored key such as "<id>:filters".
func (uc *InvestigationUseCase) Get(ctx context.Context, id string) (*types.Investigation, error) {
	if !validID(id) {
		return nil, ErrInvestigationNotFound
	}
	return uc.repo.Get(ctx, id)
}

func validID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}

// List returns every investigation, newest first
func (uc *InvestigationUseCase) List(ctx context.Context) ([]*types.Investigation, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list investigations: %w", err)
	}
	slices.SortStableFunc(list, func(a, b *types.Investigation) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return list, nil
}

// Delete 删除调查及其结果、过滤条件和历史
func (uc *InvestigationUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	unlock := uc.lock(id)
	defer unlock()

	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete investigation: %w", err)
	}
	uc.locks.Delete(id)
	uc.logger.WithContext(ctx).Info("investigation deleted", zap.String("investigation_id", id))
	return nil
}

// Queries returns the generated search queries for the target
func (uc *InvestigationUseCase) Queries(ctx context.Context, id string) ([]string, error) {
	inv, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return collector.GenerateQueries(inv.Target), nil
}

// Profiles returns speculative profile URLs for the target
func (uc *InvestigationUseCase) Profiles(ctx context.Context, id string) ([]collector.CandidateProfile, error) {
	inv, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return collector.GenerateProfiles(inv.Target), nil
}

// History returns the recorded searches and ingests, oldest first
func (uc *InvestigationUseCase) History(ctx context.Context, id string) ([]types.HistoryEntry, error) {
	if _, err := uc.Get(ctx, id); err != nil {
		return nil, err
	}
	return uc.repo.History(ctx, id)
}

// Search runs the requested (or generated) queries through every provider.
// Failing provider calls are skipped; the merged hits are persisted.
func (uc *InvestigationUseCase) Search(ctx context.Context, id string, req *SearchRequest) (*types.SearchReport, error) {
	inv, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if uc.searcher == nil {
		return nil, ErrSearchUnavailable
	}

	queries := cleanQueries(req.Queries)
	if len(queries) == 0 {
		queries = collector.GenerateQueries(inv.Target)
	}
	if req.Limit > 0 && len(queries) > req.Limit {
		queries = queries[:req.Limit]
	}
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}

	log := uc.logger.WithContext(ctx).With(zap.String("investigation_id", id))
	log.Info("search started", zap.Int("queries", len(queries)))

	outcome, err := uc.searcher.Search(ctx, queries)
	switch {
	case errors.Is(err, wstypes.ErrNoProviders):
		return nil, ErrSearchUnavailable
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	unlock := uc.lock(id)
	defer unlock()

	// the investigation may have been deleted while unlocked
	if inv, err = uc.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	existing, err := uc.repo.Results(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	merged := websearch.Merge(existing, outcome.Results)
	if err := uc.persistResults(ctx, inv, merged); err != nil {
		return nil, err
	}

	failures := make(map[string]int)
	report := &types.SearchReport{
		Queries:  queries,
		Calls:    outcome.Calls,
		Fetched:  len(outcome.Results),
		Added:    len(merged) - len(existing),
		Dropped:  outcome.Dropped,
		Total:    len(merged),
		Failures: make([]types.Failure, 0, len(outcome.Failures)),
	}
	for _, f := range outcome.Failures {
		failures[f.Query]++
		report.Failures = append(report.Failures, types.Failure{Provider: f.Provider, Query: f.Query, Error: f.Error})
	}

	now := uc.now()
	entries := make([]types.HistoryEntry, 0, len(queries))
	for _, q := range queries {
		entries = append(entries, types.HistoryEntry{
			Source:   types.SourceSearch,
			Query:    q,
			Results:  outcome.Hits[q],
			Failures: failures[q],
			At:       now,
		})
	}
	if err := uc.repo.AppendHistory(ctx, id, entries...); err != nil {
		// history is advisory; the results are already stored
		log.Warn("failed to record search history", zap.Error(err))
	}

	log.Info("search finished",
		zap.Int("calls", report.Calls),
		zap.Int("added", report.Added),
		zap.Int("failures", len(report.Failures)),
	)
	return report, nil
}

// Ingest merges an externally collected batch. Entries without an absolute
// http(s) URL are dropped and counted.
func (uc *InvestigationUseCase) Ingest(ctx context.Context, id string, batch []analysistypes.RawResult) (*types.IngestReport, error) {
	inv, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	valid, dropped := validResults(batch)
	if len(valid) == 0 {
		return nil, ErrNoValidResults
	}

	unlock := uc.lock(id)
	defer unlock()

	// the investigation may have been deleted while unlocked
	if inv, err = uc.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	existing, err := uc.repo.Results(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	merged := websearch.Merge(existing, valid)
	if err := uc.persistResults(ctx, inv, merged); err != nil {
		return nil, err
	}

	entry := types.HistoryEntry{Source: types.SourceIngest, Results: len(valid), At: uc.now()}
	if err := uc.repo.AppendHistory(ctx, id, entry); err != nil {
		uc.logger.WithContext(ctx).Warn("failed to record ingest history", zap.String("investigation_id", id), zap.Error(err))
	}

	return &types.IngestReport{
		Received: len(batch),
		Dropped:  dropped,
		Added:    len(merged) - len(existing),
		Total:    len(merged),
	}, nil
}

func (uc *InvestigationUseCase) persistResults(ctx context.Context, inv *types.Investigation, results []analysistypes.RawResult) error {
	if err := uc.repo.SaveResults(ctx, inv.ID, results); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	inv.ResultCount = len(results)
	inv.UpdatedAt = uc.now()
	if err := uc.repo.Save(ctx, inv); err != nil {
		return fmt.Errorf("failed to update investigation: %w", err)
	}
	return nil
}

// View analyzes every stored result. The summary covers the full set; the
// returned list honours override, or the saved filters when override is nil.
func (uc *InvestigationUseCase) View(ctx context.Context, id string, override *analysistypes.FilterState) (*types.View, error) {
	inv, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var filters analysistypes.FilterState
	if override != nil {
		if filters, err = normalizeFilter(*override); err != nil {
			return nil, err
		}
	} else if filters, err = uc.repo.Filters(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to load filters: %w", err)
	}

	results, err := uc.repo.Results(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	v := buildView(inv.RelevanceQuery(), results, filters)
	v.Investigation = inv
	return v, nil
}

// SaveFilters validates and stores the investigation's filter state
func (uc *InvestigationUseCase) SaveFilters(ctx context.Context, id string, f analysistypes.FilterState) (analysistypes.FilterState, error) {
	if _, err := uc.Get(ctx, id); err != nil {
		return f, err
	}
	f, err := normalizeFilter(f)
	if err != nil {
		return f, err
	}
	if err := uc.repo.SaveFilters(ctx, id, f); err != nil {
		return f, fmt.Errorf("failed to save filters: %w", err)
	}
	return f, nil
}

// Analyze runs the pipeline on a batch without touching storage
func (uc *InvestigationUseCase) Analyze(_ context.Context, req *AnalyzeRequest) (*types.View, error) {
	filters, err := normalizeFilter(req.Filters)
	if err != nil {
		return nil, err
	}
	valid, _ := validResults(req.Results)
	return buildView(strings.TrimSpace(req.Query), valid, filters), nil
}

// Export writes the current view, with the saved filters, through the sink
func (uc *InvestigationUseCase) Export(ctx context.Context, id string) (*export.Location, error) {
	if uc.sink == nil {
		return nil, ErrExportUnavailable
	}
	v, err := uc.View(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	at := uc.now()
	data, err := export.NewDocument(v, at).Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	loc, err := uc.sink.Write(ctx, export.FileName(id, at), data)
	if err != nil {
		uc.logger.WithContext(ctx).Error("export write failed", zap.String("investigation_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return loc, nil
}

// Tips returns advice for the investigation's current results
func (uc *InvestigationUseCase) Tips(ctx context.Context, id string) (tips.Advice, error) {
	v, err := uc.View(ctx, id, nil)
	if err != nil {
		return tips.Advice{}, err
	}
	return uc.advisor.Advise(ctx, v.Summary), nil
}

func buildView(query string, raw []analysistypes.RawResult, filters analysistypes.FilterState) *types.View {
	analyzed := analysis.ForQuery(query).AnalyzeAll(raw)
	list := view.Apply(analyzed, filters)
	return &types.View{
		Summary:       aggregate.Aggregate(analyzed),
		Results:       list,
		Filters:       filters,
		Total:         len(analyzed),
		FilteredTotal: len(list),
	}
}

func validResults(batch []analysistypes.RawResult) (valid []analysistypes.RawResult, dropped int) {
	valid = make([]analysistypes.RawResult, 0, len(batch))
	for _, r := range batch {
		r.URL = strings.TrimSpace(r.URL)
		if !websearch.ValidResultURL(r.URL) {
			dropped++
			continue
		}
		valid = append(valid, r)
	}
	return valid, dropped
}

func cleanQueries(qs []string) []string {
	out := make([]string, 0, len(qs))
	seen := make(map[string]struct{}, len(qs))
	for _, q := range qs {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
