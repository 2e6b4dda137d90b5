package biz

import (
	"fmt"
	"strings"

	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/collector"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/validator"
)

// CreateRequest 创建调查请求
type CreateRequest struct {
	Target collector.Target
	Query  string
}

// Normalize trims the target fields and checks them. The phone number is
// rewritten to its normalized form.
func (r *CreateRequest) Normalize() error {
	t := &r.Target
	t.Name = strings.Join(strings.Fields(t.Name), " ")
	t.Location = strings.TrimSpace(t.Location)
	t.Profession = strings.TrimSpace(t.Profession)
	t.Email = strings.TrimSpace(t.Email)
	t.Phone = strings.TrimSpace(t.Phone)
	r.Query = strings.TrimSpace(r.Query)

	if t.Name == "" {
		return ErrTargetNameRequired
	}
	if t.Email != "" && !validator.IsValidEmail(t.Email) {
		return ErrInvalidEmail
	}
	if t.Phone != "" {
		if !validator.IsValidPhone(t.Phone) {
			return ErrInvalidPhone
		}
		t.Phone = validator.NormalizePhone(t.Phone)
	}
	return nil
}

// SearchRequest 搜索请求
// Empty Queries means the generated queries for the target are used.
type SearchRequest struct {
	Queries []string
	Limit   int
}

// AnalyzeRequest 无状态分析请求
type AnalyzeRequest struct {
	Query   string
	Results []analysis.RawResult
	Filters analysis.FilterState
}

// normalizeFilter lowercases the sort key and validates the rest
func normalizeFilter(f analysis.FilterState) (analysis.FilterState, error) {
	key, err := analysis.ParseSortKey(string(f.SortBy))
	if err != nil {
		return f, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	f.SortBy = key
	if err := f.Validate(); err != nil {
		return f, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return f, nil
}
