package characters

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/models"
	charactersService "github.com/killallgit/review-api/internal/services/characters"
)

// CreateCharacterRequest carries a new catalog entry
type CreateCharacterRequest struct {
	Name  string `json:"name" binding:"required"`
	Notes string `json:"notes,omitempty"`
}

// TagAppearanceRequest records one character on one segment
type TagAppearanceRequest struct {
	EpisodeID    int64   `json:"episode_id" binding:"required"`
	SegmentIndex int     `json:"segment_index"`
	CharacterID  uint    `json:"character_id" binding:"required"`
	StartTime    float64 `json:"start_time,omitempty"`
	EndTime      float64 `json:"end_time,omitempty"`
}

// Create adds a character to the catalog
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCharacterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}

		character, err := deps.CharacterService.CreateCharacter(c.Request.Context(), req.Name, req.Notes)
		if err != nil {
			log.Printf("[ERROR] Failed to create character '%s': %v", req.Name, err)
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to create character",
				Error:   err.Error(),
			})
			return
		}

		log.Printf("[DEBUG] Created character %d (%s)", character.ID, character.Name)
		c.JSON(http.StatusCreated, gin.H{
			"status":    types.StatusOK,
			"character": character,
		})
	}
}

// List returns the full character catalog
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		characters, err := deps.CharacterService.ListCharacters(c.Request.Context())
		if err != nil {
			log.Printf("[ERROR] Failed to list characters: %v", err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list characters"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     types.StatusOK,
			"characters": characters,
			"count":      len(characters),
		})
	}
}

// TagAppearance records a character speaking in a segment
func TagAppearance(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TagAppearanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}

		appearance, err := deps.CharacterService.TagAppearance(c.Request.Context(), &models.CharacterAppearance{
			EpisodeID:    req.EpisodeID,
			SegmentIndex: req.SegmentIndex,
			CharacterID:  req.CharacterID,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
		})
		if err != nil {
			if errors.Is(err, charactersService.ErrCharacterNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Character not found"))
				return
			}
			log.Printf("[ERROR] Failed to tag character %d on episode %d segment %d: %v",
				req.CharacterID, req.EpisodeID, req.SegmentIndex, err)
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to tag appearance",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"status":     types.StatusOK,
			"appearance": appearance,
		})
	}
}

// GetAppearances lists the character appearances tagged in an episode
func GetAppearances(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}

		appearances, err := deps.CharacterService.GetAppearancesByEpisodeID(c.Request.Context(), episodeID)
		if err != nil {
			log.Printf("[ERROR] Failed to list appearances for episode %d: %v", episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list appearances"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      types.StatusOK,
			"appearances": appearances,
			"count":       len(appearances),
		})
	}
}

// RemoveAppearance deletes one appearance tag
func RemoveAppearance(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid appearance ID"))
			return
		}

		if err := deps.CharacterService.RemoveAppearance(c.Request.Context(), uint(id)); err != nil {
			if errors.Is(err, charactersService.ErrAppearanceNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Appearance not found"))
				return
			}
			log.Printf("[ERROR] Failed to remove appearance %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to remove appearance"))
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{Status: types.StatusOK, Message: "Appearance removed"})
	}
}
