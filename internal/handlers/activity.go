package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamdisk/internal/pkg/utils"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/services/activity"
)

// ListMyActivities 当前用户自己的操作流水
func ListMyActivities(activityService activity.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
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

		activities, err := activityService.ListByUser(currentUserID, limit)
		if err != nil {
			xerr.FromError(c, err)
			return
		}
		xerr.Success(c, http.StatusOK, "Activities retrieved successfully", activities)
	}
}
