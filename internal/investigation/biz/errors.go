package biz

import "errors"

var (
	// ErrInvestigationNotFound 调查不存在
	ErrInvestigationNotFound = errors.New("investigation not found")

	// ErrTargetNameRequired 目标姓名必填
	ErrTargetNameRequired = errors.New("target name is required")

	// ErrInvalidEmail 邮箱格式错误
	ErrInvalidEmail = errors.New("target email is invalid")

	// ErrInvalidPhone 电话格式错误
	ErrInvalidPhone = errors.New("target phone is invalid")

	// ErrInvalidFilter 过滤条件无效
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrNoValidResults 批次中没有可用的结果
	ErrNoValidResults = errors.New("batch contains no result with a valid http(s) url")

	// ErrNoQueries 没有可执行的查询
	ErrNoQueries = errors.New("no search queries")

	// ErrSearchUnavailable 未配置搜索引擎
	ErrSearchUnavailable = errors.New("no search providers configured")

	// ErrSearchFailed 所有搜索请求失败
	ErrSearchFailed = errors.New("search failed")

	// ErrExportUnavailable 未配置导出存储
	ErrExportUnavailable = errors.New("export storage unavailable")

	// ErrExportFailed 导出写入失败
	ErrExportFailed = errors.New("export failed")
)
