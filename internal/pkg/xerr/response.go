package xerr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 是通用 JSON 响应结构
type Response struct {
	Code    int    `json:"code"`    // 业务状态码
	Message string `json:"message"` // 消息
	Data    any    `json:"data"`    // 响应数据
}

// JSONResponse 发送标准 JSON 响应
func JSONResponse(c *gin.Context, httpStatus int, code int, message string, data any) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success 成功响应
func Success(c *gin.Context, httpStatus int, message string, data any) {
	JSONResponse(c, httpStatus, SuccessCode, message, data)
}

// Error 错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	JSONResponse(c, httpStatus, code, message, nil)
}

// AbortWithError 终止请求并发送错误响应
func AbortWithError(c *gin.Context, httpStatus int, code int, message string) {
	Error(c, httpStatus, code, message)
	c.Abort() // 终止后续的 HandlerFunc
}

// mapping 哨兵错误到 HTTP 状态码与业务码的映射表
// 内部原因(堆栈/原始文件系统错误)只记录日志, 不透出给调用方
var mapping = []struct {
	err    error
	status int
	code   int
}{
	{ErrQuotaExceeded, http.StatusBadRequest, QuotaExceededCode},
	{ErrInvalidOperation, http.StatusBadRequest, InvalidOperationCode},
	{ErrFileNameInvalid, http.StatusBadRequest, FileNameInvalidCode},
	{ErrInvalidParams, http.StatusBadRequest, InvalidParamsCode},
	{ErrUnauthorized, http.StatusUnauthorized, UnauthorizedCode},
	{ErrTokenInvalid, http.StatusUnauthorized, TokenInvalidCode},
	{ErrInvalidCredentials, http.StatusUnauthorized, InvalidCredentialsCode},
	{ErrAccessDenied, http.StatusForbidden, AccessDeniedCode},
	{ErrUserNotFound, http.StatusNotFound, UserNotFoundCode},
	{ErrFileNotFound, http.StatusNotFound, FileNotFoundCode},
	{ErrFolderNotFound, http.StatusNotFound, FolderNotFoundCode},
	{ErrShareNotFound, http.StatusNotFound, ShareNotFoundCode},
	{ErrEmailAlreadyExists, http.StatusConflict, EmailAlreadyExistsCode},
	{ErrEmployeeIDAlreadyInUse, http.StatusConflict, EmployeeIDAlreadyInUseCode},
	{ErrFolderAlreadyExists, http.StatusConflict, FolderAlreadyExistsCode},
	{ErrStorageIO, http.StatusInternalServerError, StorageIOErrorCode},
	{ErrPersistence, http.StatusInternalServerError, PersistenceErrorCode},
}

// FromError 将服务层错误转换为 HTTP 错误响应
func FromError(c *gin.Context, err error) {
	for _, m := range mapping {
		if errors.Is(err, m.err) {
			Error(c, m.status, m.code, err.Error())
			return
		}
	}
	Error(c, http.StatusInternalServerError, InternalServerErrorCode, ErrInternalServer.Error())
}
