package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/investigation/biz"
	"github.com/lk2023060901/osint-analysis-backend/internal/investigation/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/store"
)

const keyPrefix = "investigation:"

// key suffixes of the per-investigation entries
const (
	suffixResults = ":results"
	suffixFilters = ":filters"
	suffixHistory = ":history"
)

// InvestigationRepo implements biz.InvestigationRepo on a key/value store
type InvestigationRepo struct {
	kv store.Store
}

// NewInvestigationRepo creates a new investigation repository
func NewInvestigationRepo(kv store.Store) biz.InvestigationRepo {
	return &InvestigationRepo{kv: kv}
}

func recordKey(id string) string { return keyPrefix + id }

func (r *InvestigationRepo) Save(ctx context.Context, inv *types.Investigation) error {
	return r.put(ctx, recordKey(inv.ID), inv)
}

func (r *InvestigationRepo) Get(ctx context.Context, id string) (*types.Investigation, error) {
	var inv types.Investigation
	found, err := r.get(ctx, recordKey(id), &inv)
	if err != nil {
		return nil, err
	}
	// a sub-entry key decodes into a record that does not carry the id
	if !found || inv.ID != id {
		return nil, biz.ErrInvestigationNotFound
	}
	return &inv, nil
}

func (r *InvestigationRepo) List(ctx context.Context) ([]*types.Investigation, error) {
	keys, err := r.kv.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, err
	}

	list := make([]*types.Investigation, 0)
	for _, k := range keys {
		// skip the :results / :filters / :history entries
		if strings.Contains(strings.TrimPrefix(k, keyPrefix), ":") {
			continue
		}
		var inv types.Investigation
		found, err := r.get(ctx, k, &inv)
		if err != nil {
			return nil, err
		}
		if found {
			list = append(list, &inv)
		}
	}
	return list, nil
}

func (r *InvestigationRepo) Delete(ctx context.Context, id string) error {
	base := recordKey(id)
	return r.kv.Delete(ctx, base, base+suffixResults, base+suffixFilters, base+suffixHistory)
}

func (r *InvestigationRepo) Results(ctx context.Context, id string) ([]analysis.RawResult, error) {
	results := make([]analysis.RawResult, 0)
	if _, err := r.get(ctx, recordKey(id)+suffixResults, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *InvestigationRepo) SaveResults(ctx context.Context, id string, results []analysis.RawResult) error {
	if results == nil {
		results = []analysis.RawResult{}
	}
	return r.put(ctx, recordKey(id)+suffixResults, results)
}

func (r *InvestigationRepo) Filters(ctx context.Context, id string) (analysis.FilterState, error) {
	var f analysis.FilterState
	_, err := r.get(ctx, recordKey(id)+suffixFilters, &f)
	return f, err
}

func (r *InvestigationRepo) SaveFilters(ctx context.Context, id string, f analysis.FilterState) error {
	return r.put(ctx, recordKey(id)+suffixFilters, f)
}

func (r *InvestigationRepo) History(ctx context.Context, id string) ([]types.HistoryEntry, error) {
	history := make([]types.HistoryEntry, 0)
	if _, err := r.get(ctx, recordKey(id)+suffixHistory, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// AppendHistory keeps only the newest types.MaxHistory entries
func (r *InvestigationRepo) AppendHistory(ctx context.Context, id string, entries ...types.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	history, err := r.History(ctx, id)
	if err != nil {
		return err
	}
	history = append(history, entries...)
	if n := len(history); n > types.MaxHistory {
		history = history[n-types.MaxHistory:]
	}
	return r.put(ctx, recordKey(id)+suffixHistory, history)
}

func (r *InvestigationRepo) put(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.kv.Set(ctx, key, data)
}

// get decodes the entry into v; found is false when the key does not exist
func (r *InvestigationRepo) get(ctx context.Context, key string, v interface{}) (found bool, err error) {
	data, err := r.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
