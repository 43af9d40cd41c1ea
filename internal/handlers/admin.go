package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/services/activity"
	"teamdisk/internal/services/admin"
)

type SetQuotaRequest struct {
	QuotaBytes *int64 `json:"quota_bytes" binding:"required"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6,max=255"`
}

// ListUsers 管理端用户列表
func ListUsers(userService admin.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := userService.ListUsers()
		if err != nil {
			xerr.FromError(c, err)
			return
		}
		xerr.Success(c, http.StatusOK, "Users listed successfully", users)
	}
}

// SetUserQuota 设置某用户的配额覆盖值
func SetUserQuota(userService admin.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid user id")
			return
		}

		var req SetQuotaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		if err := userService.SetQuota(c.Request.Context(), userID, *req.QuotaBytes); err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusOK, "Quota updated successfully", nil)
	}
}

// ResetUserPassword 管理员重置用户密码, 该用户下次登录后必须改密
func ResetUserPassword(authService admin.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid user id")
			return
		}

		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		if err := authService.ResetPassword(userID, req.NewPassword); err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusOK, "Password reset successfully", nil)
	}
}

// GetStorageStats 管理端全局存储统计
func GetStorageStats(userService admin.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := userService.GetStorageStats(c.Request.Context())
		if err != nil {
			xerr.FromError(c, err)
			return
		}
		xerr.Success(c, http.StatusOK, "Storage stats retrieved successfully", stats)
	}
}

// GetUserActivities 管理端查看某用户的操作流水
func GetUserActivities(activityService activity.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid user id")
			return
		}

		limit := 100
		if rawLimit := c.Query("limit"); rawLimit != "" {
			parsed, err := strconv.Atoi(rawLimit)
			if err != nil || parsed <= 0 {
				xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid limit")
				return
			}
			limit = parsed
		}

		activities, err := activityService.ListByUser(userID, limit)
		if err != nil {
			xerr.FromError(c, err)
			return
		}
		xerr.Success(c, http.StatusOK, "Activities retrieved successfully", activities)
	}
}
