package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamdisk/internal/models"
	"teamdisk/internal/pkg/utils"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/services/activity"
	"teamdisk/internal/services/explorer"
)

// parseOptionalID 解析可选的 uint64 查询/表单参数, 为空返回 nil
func parseOptionalID(raw string) (*uint64, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// ListFolderContents 获取文件夹下可见的文件和子文件夹
// folder_id 查询参数缺省表示用户根目录
func ListFolderContents(storageService explorer.StorageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}

		folderID, err := parseOptionalID(c.Query("folder_id"))
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid folder_id")
			return
		}

		listing, err := storageService.ListFolderContents(c.Request.Context(), currentUserID, folderID)
		if err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusOK, "Folder contents listed successfully", listing)
	}
}

// DownloadFile 下载文件内容
func DownloadFile(storageService explorer.StorageService, activityService activity.ActivityService) gin.HandlerFunc {
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

		file, reader, err := storageService.Download(c.Request.Context(), currentUserID, fileID)
		if err != nil {
			xerr.FromError(c, err)
			return
		}
		defer reader.Close()

		activityService.RecordAsync(currentUserID, &file.ID, models.ActionDownload, c.ClientIP(), nil)

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

// DeleteFile 删除文件, 仅限所有者
func DeleteFile(storageService explorer.StorageService, activityService activity.ActivityService) gin.HandlerFunc {
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

		deleted, err := storageService.DeleteFile(c.Request.Context(), currentUserID, fileID)
		if err != nil {
			xerr.FromError(c, err)
			return
		}

		// 文件行已删除, 流水里保留一份摘要
		snapshot := activity.FileSnapshot(deleted)
		activityService.RecordAsync(currentUserID, &deleted.ID, models.ActionDelete, c.ClientIP(), &snapshot)

		xerr.Success(c, http.StatusOK, "File deleted successfully", nil)
	}
}
