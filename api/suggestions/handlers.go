package suggestions

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/models"
	suggestionsService "github.com/killallgit/review-api/internal/services/suggestions"
)

// parseKind reads and validates the ?kind= query parameter
func parseKind(c *gin.Context) (models.SuggestionKind, bool) {
	kind := models.SuggestionKind(c.DefaultQuery("kind", string(models.SuggestionClassification)))
	if kind != models.SuggestionClassification && kind != models.SuggestionPolish {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("Unknown suggestion kind"))
		return "", false
	}
	return kind, true
}

// GetPartitions returns an episode's suggestions split by decision state
func GetPartitions(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}
		kind, ok := parseKind(c)
		if !ok {
			return
		}

		partitions, err := deps.SuggestionService.GetPartitions(c.Request.Context(), episodeID, kind)
		if err != nil {
			log.Printf("[ERROR] Failed to load %s suggestions for episode %d: %v", kind, episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to load suggestions"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      types.StatusOK,
			"kind":        kind,
			"suggestions": partitions,
		})
	}
}

// Approve records an approval and applies any text change
func Approve(deps *types.Dependencies) gin.HandlerFunc {
	return decide(deps, "approve")
}

// Reject records a rejection
func Reject(deps *types.Dependencies) gin.HandlerFunc {
	return decide(deps, "reject")
}

func decide(deps *types.Dependencies, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid suggestion ID"))
			return
		}

		var suggestion *models.Suggestion
		if action == "approve" {
			suggestion, err = deps.SuggestionService.Approve(c.Request.Context(), uint(id))
		} else {
			suggestion, err = deps.SuggestionService.Reject(c.Request.Context(), uint(id))
		}
		if err != nil {
			switch {
			case errors.Is(err, suggestionsService.ErrSuggestionNotFound):
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Suggestion not found"))
			case strings.Contains(err.Error(), "already decided"):
				c.JSON(http.StatusConflict, types.NewErrorResponse("Suggestion already decided"))
			default:
				log.Printf("[ERROR] Failed to %s suggestion %d: %v", action, id, err)
				c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
					Status:  types.StatusError,
					Message: "Decision not recorded",
					Error:   err.Error(),
				})
			}
			return
		}

		log.Printf("[DEBUG] Suggestion %d %sd", id, action)
		c.JSON(http.StatusOK, gin.H{
			"status":     types.StatusOK,
			"suggestion": suggestion,
		})
	}
}

// ApproveAll approves an episode's pending suggestions in segment order,
// stopping at the first failure
func ApproveAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}
		kind, ok := parseKind(c)
		if !ok {
			return
		}

		approved, err := deps.SuggestionService.ApproveAll(c.Request.Context(), episodeID, kind)
		if err != nil {
			// Approvals before the failure stand; report both.
			log.Printf("[WARN] Approve-all stopped after %d approval(s) for episode %d: %v", approved, episodeID, err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status":   types.StatusError,
				"message":  "Approve-all stopped at first failure",
				"approved": approved,
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, types.CountResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "All pending suggestions approved"},
			Count:        approved,
		})
	}
}
