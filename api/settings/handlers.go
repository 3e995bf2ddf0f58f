package settings

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// SetRequest writes one setting value
type SetRequest struct {
	Value string `json:"value" binding:"required"`
}

// List returns every stored setting
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := deps.SettingService.List(c.Request.Context())
		if err != nil {
			log.Printf("[ERROR] Failed to list settings: %v", err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list settings"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   types.StatusOK,
			"settings": settings,
			"count":    len(settings),
		})
	}
}

// Get returns one setting's stored value, or empty when never written
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")

		value, err := deps.SettingService.Get(c.Request.Context(), key, "")
		if err != nil {
			log.Printf("[ERROR] Failed to read setting '%s': %v", key, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to read setting"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": types.StatusOK,
			"key":    key,
			"value":  value,
		})
	}
}

// Set writes one setting value
func Set(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")

		var req SetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}

		if err := deps.SettingService.Set(c.Request.Context(), key, req.Value); err != nil {
			log.Printf("[ERROR] Failed to write setting '%s': %v", key, err)
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to write setting",
				Error:   err.Error(),
			})
			return
		}

		log.Printf("[DEBUG] Setting '%s' updated", key)
		c.JSON(http.StatusOK, gin.H{
			"status": types.StatusOK,
			"key":    key,
			"value":  req.Value,
		})
	}
}
