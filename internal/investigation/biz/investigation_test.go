package biz_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/collector"
	"github.com/lk2023060901/osint-analysis-backend/internal/export"
	"github.com/lk2023060901/osint-analysis-backend/internal/investigation/biz"
	"github.com/lk2023060901/osint-analysis-backend/internal/investigation/data"
	"github.com/lk2023060901/osint-analysis-backend/internal/investigation/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/store"
	"github.com/lk2023060901/osint-analysis-backend/internal/tips"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch"
	wstypes "github.com/lk2023060901/osint-analysis-backend/internal/websearch/types"
)

type fakeSearcher struct {
	mu      sync.Mutex
	queries [][]string
	outcome *websearch.Outcome
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, queries []string) (*websearch.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, queries)
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

type failingSink struct{}

func (failingSink) Write(context.Context, string, []byte) (*export.Location, error) {
	return nil, errors.New("disk full")
}

func newUseCase(t *testing.T, searcher biz.Searcher, sink export.Sink) *biz.InvestigationUseCase {
	t.Helper()
	repo := data.NewInvestigationRepo(store.NewMemory())
	return biz.NewInvestigationUseCase(repo, searcher, sink, nil, logger.NewNop())
}

func createJane(t *testing.T, uc *biz.InvestigationUseCase) *types.Investigation {
	t.Helper()
	inv, err := uc.Create(context.Background(), &biz.CreateRequest{
		Target: collector.Target{Name: "  Jane   Doe ", Location: "Berlin", Phone: "+1 (555) 123-4567"},
	})
	require.NoError(t, err)
	return inv
}

func TestCreate_Validation(t *testing.T) {
	uc := newUseCase(t, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		target  collector.Target
		wantErr error
	}{
		{name: "empty name", target: collector.Target{Name: "   "}, wantErr: biz.ErrTargetNameRequired},
		{name: "bad email", target: collector.Target{Name: "Jane", Email: "not-an-email"}, wantErr: biz.ErrInvalidEmail},
		{name: "bad phone", target: collector.Target{Name: "Jane", Phone: "12"}, wantErr: biz.ErrInvalidPhone},
		{name: "ok", target: collector.Target{Name: "Jane", Email: "jane@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, &biz.CreateRequest{Target: tt.target})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreate_NormalizesTarget(t *testing.T) {
	uc := newUseCase(t, nil, nil)
	inv := createJane(t, uc)

	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, "Jane Doe", inv.Target.Name)
	assert.Equal(t, "Jane Doe", inv.RelevanceQuery())
	assert.False(t, inv.CreatedAt.IsZero())

	got, err := uc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.Target, got.Target)
}

func TestGetAndDelete(t *testing.T) {
	uc := newUseCase(t, nil, nil)
	ctx := context.Background()

	_, err := uc.Get(ctx, "")
	assert.ErrorIs(t, err, biz.ErrInvestigationNotFound)

	inv := createJane(t, uc)
	require.NoError(t, uc.Delete(ctx, inv.ID))
	_, err = uc.Get(ctx, inv.ID)
	assert.ErrorIs(t, err, biz.ErrInvestigationNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, inv.ID), biz.ErrInvestigationNotFound)
}

func TestGet_RejectsNonRecordIDs(t *testing.T) {
	uc := newUseCase(t, nil, nil)
	ctx := context.Background()
	inv := createJane(t, uc)
	_, err := uc.SaveFilters(ctx, inv.ID, analysis.FilterState{Engines: []string{"bing"}})
	require.NoError(t, err)

	for _, id := range []string{
		inv.ID + ":filters",
		inv.ID + ":results",
		"urn:uuid:" + inv.ID,
		"missing",
	} {
		t.Run(id, func(t *testing.T) {
			_, err := uc.Get(ctx, id)
			assert.ErrorIs(t, err, biz.ErrInvestigationNotFound)

			_, err = uc.Ingest(ctx, id, []analysis.RawResult{{URL: "https://example.com"}})
			assert.ErrorIs(t, err, biz.ErrInvestigationNotFound)
			assert.ErrorIs(t, uc.Delete(ctx, id), biz.ErrInvestigationNotFound)
		})
	}

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inv.ID, list[0].ID)

	f, err := uc.View(ctx, inv.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"bing"}, f.Filters.Engines)
}

func TestQueriesAndProfiles(t *testing.T) {
	uc := newUseCase(t, nil, nil)
	inv := createJane(t, uc)
	ctx := context.Background()

	queries, err := uc.Queries(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, collector.GenerateQueries(inv.Target), queries)

	profiles, err := uc.Profiles(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, profiles, collector.MaxProfiles)

	_, err = uc.Profiles(ctx, "missing")
	assert.ErrorIs(t, err, biz.ErrInvestigationNotFound)
}

func TestSearch_MergesPersistsAndRecordsHistory(t *testing.T) {
	searcher := &fakeSearcher{outcome: &websearch.Outcome{
		Results: []analysis.RawResult{
			{URL: "https://github.com/janedoe", Title: "Jane Doe on GitHub", Engines: []string{"google"}},
			{URL: "https://pastebin.com/abc", Title: "admin password dump", Engines: []string{"bing"}},
		},
		Calls:    4,
		Dropped:  1,
		Failures: []websearch.Failure{{Provider: "tavily", Query: "q1", Error: "timeout"}},
		Hits:     map[string]int{"q1": 1, "q2": 1},
	}}
	uc := newUseCase(t, searcher, nil)
	inv := createJane(t, uc)
	ctx := context.Background()

	report, err := uc.Search(ctx, inv.ID, &biz.SearchRequest{Queries: []string{" q1 ", "q2", "q1", ""}})
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, report.Queries)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Dropped)
	require.Len(t, report.Failures, 1)

	// a second identical search adds nothing
	report, err = uc.Search(ctx, inv.ID, &biz.SearchRequest{Queries: []string{"q1"}})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 2, report.Total)

	got, err := uc.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ResultCount)

	history, err := uc.History(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, types.HistoryEntry{Source: types.SourceSearch, Query: "q1", Results: 1, Failures: 1, At: history[0].At}, history[0])
}

func TestSearch_GeneratedQueriesAndLimit(t *testing.T) {
	searcher := &fakeSearcher{outcome: &websearch.Outcome{Hits: map[string]int{}}}
	uc := newUseCase(t, searcher, nil)
	inv := createJane(t, uc)

	report, err := uc.Search(context.Background(), inv.ID, &biz.SearchRequest{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, collector.GenerateQueries(inv.Target)[:3], report.Queries)
	assert.Equal(t, report.Queries, searcher.queries[0])
}

func TestSearch_Errors(t *testing.T) {
	ctx := context.Background()

	uc := newUseCase(t, nil, nil)
	inv := createJane(t, uc)
	_, err := uc.Search(ctx, inv.ID, &biz.SearchRequest{})
	assert.ErrorIs(t, err, biz.ErrSearchUnavailable)

	uc = newUseCase(t, &fakeSearcher{err: wstypes.ErrNoProviders}, nil)
	inv = createJane(t, uc)
	_, err = uc.Search(ctx, inv.ID, &biz.SearchRequest{})
	assert.ErrorIs(t, err, biz.ErrSearchUnavailable)

	uc = newUseCase(t, &fakeSearcher{err: fmt.Errorf("%w: boom", websearch.ErrAllFailed)}, nil)
	inv = createJane(t, uc)
	_, err = uc.Search(ctx, inv.ID, &biz.SearchRequest{})
	assert.ErrorIs(t, err, biz.ErrSearchFailed)

	_, err = uc.Search(ctx, "missing", &biz.SearchRequest{})
	assert.ErrorIs(t, err, biz.ErrInvestigationNotFound)
}

func TestIngest(t *testing.T) {
	uc := newUseCase(t, nil, nil)
	inv := createJane(t, uc)
	ctx := context.Background()

	_, err := uc.Ingest(ctx, inv.ID, []analysis.RawResult{{URL: "ftp://x"}, {URL: "not a url"}})
	assert.ErrorIs(t, err, biz.ErrNoValidResults)

	_, err = uc.Ingest(ctx, inv.ID, nil)
	assert.ErrorIs(t, err, biz.ErrNoValidResults)

	report, err := uc.Ingest(ctx, inv.ID, []analysis.RawResult{
		{URL: " https://github.com/janedoe ", Engines: []string{"google"}},
		{URL: "https://GitHub.com/janedoe/", Engines: []string{"bing"}},
		{URL: "javascript:alert(1)"},
	})
	require.NoError(t, err)
	assert.Equal(t, types.IngestReport{Received: 3, Dropped: 1, Added: 1, Total: 1}, *report)

	v, err := uc.View(ctx, inv.ID, nil)
	require.NoError(t, err)
	require.Len(t, v.Results, 1)
	assert.Equal(t, "https://github.com/janedoe", v.Results[0].URL)
	assert.Equal(t, []string{"google", "bing"}, v.Results[0].Engines)

	history, err := uc.History(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, types.SourceIngest, history[0].Source)
	assert.Equal(t, 2, history[0].Results)
}

func seedResults(t *testing.T, uc *biz.InvestigationUseCase, id string) {
	t.Helper()
	_, err := uc.Ingest(context.Background(), id, []analysis.RawResult{
		{URL: "https://pastebin.com/leak", Title: "admin password list", Engines: []string{"google"}},
		{URL: "https://github.com/janedoe", Title: "Jane Doe repositories", Engines: []string{"google", "bing"}},
		{URL: "https://www.linkedin.com/in/janedoe", Title: "Jane Doe contact", Engines: []string{"bing"}},
		{URL: "https://example.org/about", Title: "about", Engines: []string{"google"}},
	})
	require.NoError(t, err)
}

func TestView_SummaryCoversFullSet(t *testing.T) {
	uc := newUseCase(t, nil, nil)
	inv := createJane(t, uc)
	seedResults(t, uc, inv.ID)
	ctx := context.Background()

	f := analysis.FilterState{Risk: []analysis.RiskLevel{analysis.RiskCritical}}
	v, err := uc.View(ctx, inv.ID, &f)
	require.NoError(t, err)

	assert.Equal(t, 4, v.Total)
	assert.Equal(t, 4, v.Summary.Total)
	assert.Equal(t, 1, v.FilteredTotal)
	require.Len(t, v.Results, 1)
	assert.Equal(t, analysis.RiskCritical, v.Results[0].Analysis.RiskLevel)
	assert.Equal(t, analysis.CategoryLeak, v.Results[0].Analysis.Category)
	assert.Equal(t, inv.ID, v.Investigation.ID)

	bad := analysis.FilterState{SortBy: "alphabetical"}
	_, err = uc.View(ctx, inv.ID, &bad)
	assert.ErrorIs(t, err, biz.ErrInvalidFilter)
}

func TestSaveFilters_UsedByView(t *testing.T) {
	uc := newUseCase(t, nil, nil)
	inv := createJane(t, uc)
	seedResults(t, uc, inv.ID)
	ctx := context.Background()

	saved, err := uc.SaveFilters(ctx, inv.ID, analysis.FilterState{Engines: []string{"bing"}, SortBy: "RISK"})
	require.NoError(t, err)
	assert.Equal(t, analysis.SortRisk, saved.SortBy)

	v, err := uc.View(ctx, inv.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, v.FilteredTotal)
	assert.Equal(t, saved, v.Filters)

	_, err = uc.SaveFilters(ctx, inv.ID, analysis.FilterState{MinConfidence: 2})
	assert.ErrorIs(t, err, biz.ErrInvalidFilter)
	_, err = uc.SaveFilters(ctx, "missing", analysis.FilterState{})
	assert.ErrorIs(t, err, biz.ErrInvestigationNotFound)
}

func TestAnalyze_Stateless(t *testing.T) {
	uc := newUseCase(t, nil, nil)
	v, err := uc.Analyze(context.Background(), &biz.AnalyzeRequest{
		Query: "jane doe",
		Results: []analysis.RawResult{
			{URL: "https://github.com/janedoe", Title: "Jane Doe"},
			{URL: "bogus"},
		},
		Filters: analysis.FilterState{SortBy: analysis.SortRelevance},
	})
	require.NoError(t, err)
	assert.Nil(t, v.Investigation)
	assert.Equal(t, 1, v.Total)
	assert.Equal(t, analysis.CategoryCode, v.Results[0].Analysis.Category)
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	uc := newUseCase(t, nil, nil)
	inv := createJane(t, uc)
	_, err := uc.Export(ctx, inv.ID)
	assert.ErrorIs(t, err, biz.ErrExportUnavailable)

	uc = newUseCase(t, nil, failingSink{})
	inv = createJane(t, uc)
	_, err = uc.Export(ctx, inv.ID)
	assert.ErrorIs(t, err, biz.ErrExportFailed)

	dir := t.TempDir()
	sink, err := export.NewLocalSink(dir, logger.NewNop())
	require.NoError(t, err)
	uc = newUseCase(t, nil, sink)
	inv = createJane(t, uc)
	seedResults(t, uc, inv.ID)

	loc, err := uc.Export(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, export.BackendLocal, loc.Backend)

	body, err := os.ReadFile(filepath.Join(dir, loc.Name))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"exportDate"`)
	assert.Contains(t, string(body), inv.ID)
}

func TestTips(t *testing.T) {
	uc := newUseCase(t, nil, nil)
	inv := createJane(t, uc)
	seedResults(t, uc, inv.ID)

	advice, err := uc.Tips(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, tips.SourceCatalog, advice.Source)
	assert.Equal(t, tips.ContextHighRisk, advice.Contexts[0])
}

func TestList_NewestFirst(t *testing.T) {
	uc := newUseCase(t, nil, nil)
	ctx := context.Background()
	first := createJane(t, uc)
	second, err := uc.Create(ctx, &biz.CreateRequest{Target: collector.Target{Name: "John Roe"}})
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	if second.CreatedAt.After(first.CreatedAt) {
		assert.Equal(t, second.ID, list[0].ID)
	}
}
