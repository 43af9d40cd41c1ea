package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdisk/internal/pkg/xerr"
)

// GetUserIDFromContext 从 Gin Context 中取出认证用户 ID
// 取不到时直接写入错误响应并返回 false
func GetUserIDFromContext(c *gin.Context) (uint64, bool) {
	v, exists := c.Get("userID")
	if !exists {
		xerr.AbortWithError(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "User ID not found in context")
		return 0, false
	}
	id, ok := v.(uint64)
	if !ok {
		xerr.AbortWithError(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Invalid user ID type in context")
		return 0, false
	}
	return id, true
}
