package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"teamdisk/internal/models"
	"teamdisk/internal/pkg/utils"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/services/activity"
	"teamdisk/internal/services/share"
)

type CreateShareRequest struct {
	RecipientID uint64     `json:"recipient_id" binding:"required"`
	Permission  string     `json:"permission" binding:"required"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// ShareFile 把文件分享给另一个用户
func ShareFile(shareService share.ShareService, activityService activity.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}

		fileID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid file id")
			return
		}

		var req CreateShareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		newShare, err := shareService.ShareFile(c.Request.Context(), currentUserID, fileID, req.RecipientID, models.Permission(req.Permission), req.ExpiresAt)
		if err != nil {
			xerr.FromError(c, err)
			return
		}

		details := fmt.Sprintf("shared with user %d (%s)", req.RecipientID, req.Permission)
		activityService.RecordAsync(currentUserID, &fileID, models.ActionShare, c.ClientIP(), &details)

		xerr.Success(c, http.StatusCreated, "File shared successfully", gin.H{
			"share_id":      newShare.ID,
			"file_id":       newShare.FileID,
			"permission":    newShare.Permission,
			"external_link": newShare.ExternalLink,
			"expires_at":    newShare.ExpiresAt,
		})
	}
}

// ShareFolder 把文件夹分享给另一个用户
func ShareFolder(shareService share.ShareService, activityService activity.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}

		folderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid folder id")
			return
		}

		var req CreateShareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		newShare, err := shareService.ShareFolder(c.Request.Context(), currentUserID, folderID, req.RecipientID, models.Permission(req.Permission), req.ExpiresAt)
		if err != nil {
			xerr.FromError(c, err)
			return
		}

		details := fmt.Sprintf("shared folder %d with user %d (%s)", folderID, req.RecipientID, req.Permission)
		activityService.RecordAsync(currentUserID, nil, models.ActionShare, c.ClientIP(), &details)

		xerr.Success(c, http.StatusCreated, "Folder shared successfully", gin.H{
			"share_id":      newShare.ID,
			"folder_id":     newShare.FolderID,
			"permission":    newShare.Permission,
			"external_link": newShare.ExternalLink,
			"expires_at":    newShare.ExpiresAt,
		})
	}
}

// ListShares 列出当前用户创建的全部分享
func ListShares(shareService share.ShareService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}

		fileShares, err := shareService.ListFileShares(currentUserID)
		if err != nil {
			xerr.FromError(c, err)
			return
		}
		folderShares, err := shareService.ListFolderShares(currentUserID)
		if err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusOK, "Shares listed successfully", gin.H{
			"file_shares":   fileShares,
			"folder_shares": folderShares,
		})
	}
}

// RevokeFileShare 撤销文件分享
func RevokeFileShare(shareService share.ShareService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}

		shareID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid share id")
			return
		}

		if err := shareService.RevokeFileShare(c.Request.Context(), currentUserID, shareID); err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusOK, "Share revoked successfully", nil)
	}
}

// RevokeFolderShare 撤销文件夹分享
func RevokeFolderShare(shareService share.ShareService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}

		shareID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid share id")
			return
		}

		if err := shareService.RevokeFolderShare(c.Request.Context(), currentUserID, shareID); err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusOK, "Share revoked successfully", nil)
	}
}

// DownloadSharedFile 通过外部分享链接下载文件, 无需登录
func DownloadSharedFile(shareService share.ShareService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if token == "" {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Missing share token")
			return
		}

		file, reader, err := shareService.ResolveFileLink(c.Request.Context(), token)
		if err != nil {
			xerr.FromError(c, err)
			return
		}
		defer reader.Close()

		contentType := file.MimeType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		extraHeaders := map[string]string{
			"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Name),
		}
		c.DataFromReader(http.StatusOK, file.Size, contentType, reader, extraHeaders)
	}
}
