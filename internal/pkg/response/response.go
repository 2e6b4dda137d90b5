package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/lk2023060901/osint-analysis-backend/internal/pkg/errors"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`              // 业务错误码（0表示成功）
	Message string      `json:"message,omitempty"` // 提示信息
	Data    interface{} `json:"data"`              // 实际数据（可能为空对象 {}）
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, "", data)
}

// SuccessWithMessage 带消息的成功响应（200）
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusOK, message, data)
}

// Created 创建资源成功（201）
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, "", data)
}

func write(c *gin.Context, status int, message string, data interface{}) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(status, Response{
		Code:    apperrors.Success,
		Message: message,
		Data:    data,
	})
}

// HandleError 统一错误处理（使用AppError）
// Server-side failures are logged with their cause; the client sees only the
// code message.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := apperrors.ExtractCode(err)
	httpStatus := apperrors.GetHTTPStatus(code)

	var message string
	if apperrors.IsServerError(code) {
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.Int("code", code),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		message = apperrors.GetMessage(code)
	} else {
		message = apperrors.FormatError(code, apperrors.GetDetails(err))
	}

	_ = c.Error(err)
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Data:    struct{}{},
	})
}

// ErrorWithCode 使用错误码的错误响应
func ErrorWithCode(c *gin.Context, code int, details ...string) {
	c.JSON(apperrors.GetHTTPStatus(code), Response{
		Code:    code,
		Message: apperrors.FormatError(code, details...),
		Data:    struct{}{},
	})
}
