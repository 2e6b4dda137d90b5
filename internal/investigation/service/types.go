package service

import (
	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/collector"
)

// CreateInvestigationRequest 创建调查请求
type CreateInvestigationRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	Location   string `json:"location" binding:"omitempty,max=200"`
	Profession string `json:"profession" binding:"omitempty,max=200"`
	Email      string `json:"email" binding:"omitempty,max=254"`
	Phone      string `json:"phone" binding:"omitempty,max=32"`
	Query      string `json:"query" binding:"omitempty,max=1000"`
}

func (r *CreateInvestigationRequest) target() collector.Target {
	return collector.Target{
		Name:       r.Name,
		Location:   r.Location,
		Profession: r.Profession,
		Email:      r.Email,
		Phone:      r.Phone,
	}
}

// SearchRequest 搜索请求，queries 为空时使用生成的查询
type SearchRequest struct {
	Queries []string `json:"queries" binding:"omitempty,max=50,dive,max=1000"`
	Limit   int      `json:"limit" binding:"omitempty,min=1,max=50"`
}

// IngestRequest 导入外部结果
type IngestRequest struct {
	Results []analysis.RawResult `json:"results" binding:"required,max=5000"`
}

// AnalyzeRequest 无状态分析请求
type AnalyzeRequest struct {
	Query   string               `json:"query" binding:"omitempty,max=1000"`
	Results []analysis.RawResult `json:"results" binding:"required,max=5000"`
	Filters analysis.FilterState `json:"filters"`
}

// ListResponse 列表响应
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}
