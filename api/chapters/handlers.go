package chapters

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/models"
	chaptersService "github.com/killallgit/review-api/internal/services/chapters"
)

// CreateTypeRequest adds a chapter category to the catalog
type CreateTypeRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color,omitempty"`
}

// ChapterRequest carries one chapter's range and metadata
type ChapterRequest struct {
	EpisodeID         int64   `json:"episode_id" binding:"required"`
	ChapterTypeID     uint    `json:"chapter_type_id" binding:"required"`
	StartSegmentIndex int     `json:"start_segment_index"`
	EndSegmentIndex   int     `json:"end_segment_index"`
	StartTime         float64 `json:"start_time,omitempty"`
	EndTime           float64 `json:"end_time,omitempty"`
	Title             string  `json:"title,omitempty"`
}

// CreateType adds a chapter type to the catalog
func CreateType(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}

		chapterType, err := deps.ChapterService.CreateChapterType(c.Request.Context(), req.Name, req.Color)
		if err != nil {
			log.Printf("[ERROR] Failed to create chapter type '%s': %v", req.Name, err)
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to create chapter type",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"status":       types.StatusOK,
			"chapter_type": chapterType,
		})
	}
}

// ListTypes returns the chapter type catalog
func ListTypes(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		chapterTypes, err := deps.ChapterService.ListChapterTypes(c.Request.Context())
		if err != nil {
			log.Printf("[ERROR] Failed to list chapter types: %v", err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list chapter types"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":        types.StatusOK,
			"chapter_types": chapterTypes,
			"count":         len(chapterTypes),
		})
	}
}

// Create records a chapter over a segment range
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChapterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}

		chapter, err := deps.ChapterService.CreateChapter(c.Request.Context(), &models.Chapter{
			EpisodeID:         req.EpisodeID,
			ChapterTypeID:     req.ChapterTypeID,
			StartSegmentIndex: req.StartSegmentIndex,
			EndSegmentIndex:   req.EndSegmentIndex,
			StartTime:         req.StartTime,
			EndTime:           req.EndTime,
			Title:             req.Title,
		})
		if err != nil {
			if errors.Is(err, chaptersService.ErrChapterTypeNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Chapter type not found"))
				return
			}
			log.Printf("[ERROR] Failed to create chapter for episode %d: %v", req.EpisodeID, err)
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to create chapter",
				Error:   err.Error(),
			})
			return
		}

		log.Printf("[DEBUG] Created chapter %s on episode %d segments %d-%d",
			chapter.UUID, chapter.EpisodeID, chapter.StartSegmentIndex, chapter.EndSegmentIndex)
		c.JSON(http.StatusCreated, gin.H{
			"status":  types.StatusOK,
			"chapter": chapter,
		})
	}
}

// GetByEpisode lists an episode's chapters in start order
func GetByEpisode(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}

		chapters, err := deps.ChapterService.GetChaptersByEpisodeID(c.Request.Context(), episodeID)
		if err != nil {
			log.Printf("[ERROR] Failed to list chapters for episode %d: %v", episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list chapters"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   types.StatusOK,
			"chapters": chapters,
			"count":    len(chapters),
		})
	}
}

// GetForSegment returns the chapter covering one segment, if any
func GetForSegment(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}
		segmentIndex, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid segment index"))
			return
		}

		chapter, err := deps.ChapterService.ChapterForSegment(c.Request.Context(), episodeID, segmentIndex)
		if err != nil {
			log.Printf("[ERROR] Chapter lookup failed for episode %d segment %d: %v", episodeID, segmentIndex, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Chapter lookup failed"))
			return
		}
		if chapter == nil {
			c.JSON(http.StatusNotFound, types.NewErrorResponse("No chapter covers this segment"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  types.StatusOK,
			"chapter": chapter,
		})
	}
}

// Update rewrites a chapter's range, type, or title
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid chapter ID"))
			return
		}

		var req ChapterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}

		chapter := &models.Chapter{
			EpisodeID:         req.EpisodeID,
			ChapterTypeID:     req.ChapterTypeID,
			StartSegmentIndex: req.StartSegmentIndex,
			EndSegmentIndex:   req.EndSegmentIndex,
			StartTime:         req.StartTime,
			EndTime:           req.EndTime,
			Title:             req.Title,
		}
		chapter.ID = uint(id)

		if err := deps.ChapterService.UpdateChapter(c.Request.Context(), chapter); err != nil {
			if errors.Is(err, chaptersService.ErrChapterNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Chapter not found"))
				return
			}
			log.Printf("[ERROR] Failed to update chapter %d: %v", id, err)
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to update chapter",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  types.StatusOK,
			"chapter": chapter,
		})
	}
}

// Delete removes a chapter
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid chapter ID"))
			return
		}

		if err := deps.ChapterService.DeleteChapter(c.Request.Context(), uint(id)); err != nil {
			if errors.Is(err, chaptersService.ErrChapterNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Chapter not found"))
				return
			}
			log.Printf("[ERROR] Failed to delete chapter %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to delete chapter"))
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{Status: types.StatusOK, Message: "Chapter deleted"})
	}
}
