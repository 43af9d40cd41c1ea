package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdisk/internal/pkg/utils"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/services/admin"
	"teamdisk/internal/services/explorer"
)

type RegisterRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,min=2,max=64"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6,max=255"`
	Name       string `json:"name" binding:"required,max=128"`
}

// LoginRequest 登录请求结构体
type LoginRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=255"`
}

// Register 用户注册
func Register(authService admin.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		user, err := authService.Register(req.EmployeeID, req.Email, req.Password, req.Name)
		if err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusCreated, "User registered successfully", gin.H{
			"user_id":     user.ID,
			"employee_id": user.EmployeeID,
			"email":       user.Email,
			"name":        user.Name,
		})
	}
}

// Login 用户登录, 返回 JWT
func Login(authService admin.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		tokenString, user, err := authService.Login(req.EmployeeID, req.Password)
		if err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusOK, "Login successful", gin.H{
			"token":                tokenString,
			"user_id":              user.ID,
			"employee_id":          user.EmployeeID,
			"name":                 user.Name,
			"is_admin":             user.IsAdmin,
			"must_change_password": user.MustChangePassword,
		})
	}
}

// Me 返回当前用户资料与存储用量
func Me(authService admin.AuthService, quota explorer.QuotaTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}

		user, err := authService.Profile(currentUserID)
		if err != nil {
			xerr.FromError(c, err)
			return
		}

		usage, err := quota.UsageFor(currentUserID)
		if err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusOK, "OK", gin.H{
			"user_id":              user.ID,
			"employee_id":          user.EmployeeID,
			"email":                user.Email,
			"name":                 user.Name,
			"is_admin":             user.IsAdmin,
			"must_change_password": user.MustChangePassword,
			"used_bytes":           usage.UsedBytes,
			"quota_bytes":          usage.QuotaBytes,
			"file_count":           usage.FileCount,
		})
	}
}

// ChangePassword 修改当前用户密码
func ChangePassword(authService admin.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}

		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		if err := authService.ChangePassword(currentUserID, req.OldPassword, req.NewPassword); err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusOK, "Password changed successfully", nil)
	}
}
