package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamdisk/internal/pkg/utils"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/services/explorer"
)

type CreateFolderRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	ParentID *uint64 `json:"parent_id"`
}

// CreateFolder 在指定位置创建文件夹
func CreateFolder(storageService explorer.StorageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}

		var req CreateFolderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		folder, err := storageService.CreateFolder(c.Request.Context(), currentUserID, req.Name, req.ParentID)
		if err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusCreated, "Folder created successfully", gin.H{
			"id":        folder.ID,
			"name":      folder.Name,
			"parent_id": folder.ParentID,
		})
	}
}

// DeleteFolder 递归删除文件夹及其内容, 仅限所有者
func DeleteFolder(storageService explorer.StorageService) gin.HandlerFunc {
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

		if err := storageService.DeleteFolder(c.Request.Context(), currentUserID, folderID); err != nil {
			xerr.FromError(c, err)
			return
		}

		xerr.Success(c, http.StatusOK, "Folder deleted successfully", nil)
	}
}
