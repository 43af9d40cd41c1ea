package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdisk/internal/models"
	"teamdisk/internal/pkg/utils"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/services/activity"
	"teamdisk/internal/services/explorer"
)

// UploadResult 单个文件的上传结果
type UploadResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	FileID uint64 `json:"file_id,omitempty"`
	Size   int64  `json:"size,omitempty"`
	Error  string `json:"error,omitempty"`
}

// UploadFiles 处理多文件上传
// 每个文件独立成败, 单个失败不影响同批其他文件
func UploadFiles(storageService explorer.StorageService, quota explorer.QuotaTracker, activityService activity.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid multipart form")
			return
		}
		fileHeaders := form.File["files"]
		if len(fileHeaders) == 0 {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "No files in request")
			return
		}

		folderID, err := parseOptionalID(c.PostForm("folder_id"))
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid folder_id")
			return
		}

		results := make([]UploadResult, 0, len(fileHeaders))
		succeeded := 0
		for _, fh := range fileHeaders {
			result := UploadResult{Name: fh.Filename}

			stream, err := fh.Open()
			if err != nil {
				result.Error = "failed to open uploaded file"
				results = append(results, result)
				continue
			}

			mimeType := fh.Header.Get("Content-Type")
			if mimeType == "" {
				mimeType = "application/octet-stream"
			}

			uploaded, err := storageService.UploadFile(c.Request.Context(), currentUserID, folderID, fh.Filename, mimeType, fh.Size, stream)
			stream.Close()
			if err != nil {
				result.Error = err.Error()
				results = append(results, result)
				continue
			}

			result.OK = true
			result.FileID = uploaded.ID
			result.Size = uploaded.Size
			results = append(results, result)
			succeeded++

			activityService.RecordAsync(currentUserID, &uploaded.ID, models.ActionUpload, c.ClientIP(), nil)
		}

		usage, err := quota.UsageFor(currentUserID)
		if err != nil {
			xerr.FromError(c, err)
			return
		}

		data := gin.H{
			"results": results,
			"usage":   usage,
		}
		if succeeded == 0 {
			xerr.JSONResponse(c, http.StatusBadRequest, xerr.InvalidOperationCode, "All uploads failed", data)
			return
		}
		xerr.Success(c, http.StatusCreated, "Upload processed", data)
	}
}
