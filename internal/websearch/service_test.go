package websearch

import (
	"context"
	"errors"
	"testing"

	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch/provider"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider answers every query with fixed hits, or fails
type stubProvider struct {
	name string
	hits []*types.SearchResult
	err  error
}

func (s *stubProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.SearchResponse{Query: req.Query, Results: s.hits}, nil
}
func (s *stubProvider) GetID() types.ProviderID            { return types.ProviderID(s.name) }
func (s *stubProvider) GetName() string                    { return s.name }
func (s *stubProvider) Validate() error                    { return nil }
func (s *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func newPool(t *testing.T) *workerpool.Pool {
	t.Helper()
	p, err := workerpool.New(&workerpool.Config{Workers: 4}, nil)
	require.NoError(t, err)
	t.Cleanup(p.Shutdown)
	return p
}

func TestService_SearchMergesAndSkipsFailures(t *testing.T) {
	good := &stubProvider{name: "searxng", hits: []*types.SearchResult{
		{URL: "https://github.com/janedoe", Title: "Jane", Engines: []string{"google"}},
		{URL: "mailto:jane@example.com"},
	}}
	other := &stubProvider{name: "tavily", hits: []*types.SearchResult{
		{URL: "https://github.com/janedoe/", Engines: []string{"tavily"}},
	}}
	broken := &stubProvider{name: "broken", err: errors.New("connection refused")}

	svc := NewService([]provider.Provider{good, other, broken}, newPool(t), 10, logger.NewNop())
	assert.Equal(t, []string{"searxng", "tavily", "broken"}, svc.Providers())

	out, err := svc.Search(context.Background(), []string{`"Jane Doe"`, `"Jane Doe" profile`})
	require.NoError(t, err)

	assert.Equal(t, 6, out.Calls)
	assert.Equal(t, 2, out.Dropped)
	require.Len(t, out.Failures, 2)
	assert.Equal(t, "broken", out.Failures[0].Provider)

	require.Len(t, out.Results, 1)
	assert.Equal(t, []string{"google", "tavily"}, out.Results[0].Engines)
	assert.Equal(t, map[string]int{`"Jane Doe"`: 2, `"Jane Doe" profile`: 2}, out.Hits)
}

func TestService_AllFailed(t *testing.T) {
	svc := NewService([]provider.Provider{&stubProvider{name: "x", err: errors.New("down")}}, newPool(t), 0, logger.NewNop())

	_, err := svc.Search(context.Background(), []string{"q"})
	assert.ErrorIs(t, err, ErrAllFailed)
}

func TestService_NoProviders(t *testing.T) {
	svc := NewService(nil, newPool(t), 0, logger.NewNop())

	_, err := svc.Search(context.Background(), []string{"q"})
	assert.ErrorIs(t, err, types.ErrNoProviders)
}
