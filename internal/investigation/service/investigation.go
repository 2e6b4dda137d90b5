package service

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/investigation/biz"
	apperrors "github.com/lk2023060901/osint-analysis-backend/internal/pkg/errors"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/response"
)

// InvestigationService 调查 HTTP 服务
type InvestigationService struct {
	uc     *biz.InvestigationUseCase
	logger *logger.Logger
}

// NewInvestigationService 创建调查服务
func NewInvestigationService(uc *biz.InvestigationUseCase, logger *logger.Logger) *InvestigationService {
	return &InvestigationService{uc: uc, logger: logger}
}

// RegisterRoutes 注册路由
func (s *InvestigationService) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/analyze", s.Analyze)

	inv := r.Group("/investigations")
	{
		inv.POST("", s.Create)
		inv.GET("", s.List)
		inv.GET("/:id", s.Get)
		inv.DELETE("/:id", s.Delete)
		inv.POST("/:id/search", s.Search)
		inv.POST("/:id/results", s.Ingest)
		inv.GET("/:id/results", s.Results)
		inv.PUT("/:id/filters", s.SaveFilters)
		inv.GET("/:id/profiles", s.Profiles)
		inv.GET("/:id/queries", s.Queries)
		inv.GET("/:id/history", s.History)
		inv.POST("/:id/export", s.Export)
		inv.GET("/:id/tips", s.Tips)
	}
}

// Create 创建调查
func (s *InvestigationService) Create(c *gin.Context) {
	var req CreateInvestigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}

	inv, err := s.uc.Create(c.Request.Context(), &biz.CreateRequest{Target: req.target(), Query: req.Query})
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Created(c, inv)
}

// List 调查列表
func (s *InvestigationService) List(c *gin.Context) {
	list, err := s.uc.List(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, newList(list))
}

// Get 获取调查
func (s *InvestigationService) Get(c *gin.Context) {
	inv, err := s.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, inv)
}

// Delete 删除调查
func (s *InvestigationService) Delete(c *gin.Context) {
	if err := s.uc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "investigation deleted", nil)
}

// Search 执行搜索
func (s *InvestigationService) Search(c *gin.Context) {
	var req SearchRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
			return
		}
	}

	report, err := s.uc.Search(c.Request.Context(), c.Param("id"), &biz.SearchRequest{Queries: req.Queries, Limit: req.Limit})
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, report)
}

// Ingest 导入结果
func (s *InvestigationService) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}

	report, err := s.uc.Ingest(c.Request.Context(), c.Param("id"), req.Results)
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, report)
}

// Results 分析后的结果视图
// Without any filter parameter the saved filters apply.
func (s *InvestigationService) Results(c *gin.Context) {
	override, err := filterFromQuery(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	v, err := s.uc.View(c.Request.Context(), c.Param("id"), override)
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, v)
}

// SaveFilters 保存过滤条件
func (s *InvestigationService) SaveFilters(c *gin.Context) {
	var f analysis.FilterState
	if err := c.ShouldBindJSON(&f); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}

	saved, err := s.uc.SaveFilters(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, saved)
}

// Profiles 候选社交账号
func (s *InvestigationService) Profiles(c *gin.Context) {
	profiles, err := s.uc.Profiles(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, newList(profiles))
}

// Queries 生成的搜索查询
func (s *InvestigationService) Queries(c *gin.Context) {
	queries, err := s.uc.Queries(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, newList(queries))
}

// History 搜索历史
func (s *InvestigationService) History(c *gin.Context) {
	history, err := s.uc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, newList(history))
}

// Export 导出调查
func (s *InvestigationService) Export(c *gin.Context) {
	loc, err := s.uc.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Created(c, loc)
}

// Tips 调查建议
func (s *InvestigationService) Tips(c *gin.Context) {
	advice, err := s.uc.Tips(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, advice)
}

// Analyze 无状态分析
func (s *InvestigationService) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}

	v, err := s.uc.Analyze(c.Request.Context(), &biz.AnalyzeRequest{
		Query:   req.Query,
		Results: req.Results,
		Filters: req.Filters,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, v)
}

// filterFromQuery reads risk, category, engine, minConfidence and sortBy.
// Multi-valued parameters accept repeats and comma lists. It returns nil when
// none of them is present.
func filterFromQuery(c *gin.Context) (*analysis.FilterState, error) {
	q := c.Request.URL.Query()
	present := false
	for _, k := range []string{"risk", "category", "engine", "minConfidence", "sortBy"} {
		if q.Has(k) {
			present = true
			break
		}
	}
	if !present {
		return nil, nil
	}

	f := &analysis.FilterState{SortBy: analysis.SortKey(q.Get("sortBy"))}
	for _, r := range splitValues(q["risk"]) {
		f.Risk = append(f.Risk, analysis.RiskLevel(strings.ToLower(r)))
	}
	for _, cat := range splitValues(q["category"]) {
		f.Categories = append(f.Categories, analysis.Category(strings.ToLower(cat)))
	}
	f.Engines = splitValues(q["engine"])

	if raw := strings.TrimSpace(q.Get("minConfidence")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: minConfidence: %v", biz.ErrInvalidFilter, err)
		}
		f.MinConfidence = v
	}
	return f, nil
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// handleError 统一错误处理
func (s *InvestigationService) handleError(c *gin.Context, err error) {
	code := apperrors.ErrInternalServer
	switch {
	case errors.Is(err, biz.ErrInvestigationNotFound):
		code = apperrors.ErrInvestigationNotFound
	case errors.Is(err, biz.ErrTargetNameRequired),
		errors.Is(err, biz.ErrInvalidEmail),
		errors.Is(err, biz.ErrInvalidPhone):
		code = apperrors.ErrInvalidTarget
	case errors.Is(err, biz.ErrInvalidFilter):
		code = apperrors.ErrInvalidFilter
	case errors.Is(err, biz.ErrNoValidResults):
		code = apperrors.ErrInvalidResult
	case errors.Is(err, biz.ErrNoQueries):
		code = apperrors.ErrSearchInvalidQuery
	case errors.Is(err, biz.ErrSearchUnavailable):
		code = apperrors.ErrSearchNoProviders
	case errors.Is(err, biz.ErrSearchFailed):
		code = apperrors.ErrSearchProviderFailed
	case errors.Is(err, biz.ErrExportUnavailable):
		code = apperrors.ErrExportStorageUnavailable
	case errors.Is(err, biz.ErrExportFailed):
		code = apperrors.ErrExportWriteFailed
	}

	detail := ""
	if apperrors.GetHTTPStatus(code) < http.StatusInternalServerError {
		detail = err.Error()
	}
	response.HandleError(c, apperrors.Wrap(err, code, detail))
}
