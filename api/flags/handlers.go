package flags

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/models"
	flagsService "github.com/killallgit/review-api/internal/services/flags"
)

// CreateFlagRequest carries one flag to persist. Only the fields relevant
// to the flag's type should be set.
type CreateFlagRequest struct {
	EpisodeID        int64              `json:"episode_id" binding:"required"`
	SegmentIndex     int                `json:"segment_index"`
	Type             models.FlagType    `json:"type" binding:"required"`
	CorrectedSpeaker string             `json:"corrected_speaker,omitempty"`
	CharacterID      *uint              `json:"character_id,omitempty"`
	Notes            string             `json:"notes,omitempty"`
	CorrectedText    string             `json:"corrected_text,omitempty"`
	Speakers         models.SpeakerList `json:"speakers,omitempty"`
}

// FlagResponse wraps a single persisted flag
type FlagResponse struct {
	types.BaseResponse
	Flag *models.Flag `json:"flag"`
}

// Create persists a flag, replacing any active flag on the same segment
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateFlagRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("[ERROR] Invalid flag payload: %v", err)
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}

		flag := &models.Flag{
			EpisodeID:        req.EpisodeID,
			SegmentIndex:     req.SegmentIndex,
			Type:             req.Type,
			CorrectedSpeaker: req.CorrectedSpeaker,
			CharacterID:      req.CharacterID,
			Notes:            req.Notes,
			CorrectedText:    req.CorrectedText,
			Speakers:         req.Speakers,
		}

		created, err := deps.FlagService.CreateFlag(c.Request.Context(), flag)
		if err != nil {
			// The flag survives a failed write-back; tell the client.
			if errors.Is(err, flagsService.ErrEditNotApplied) {
				log.Printf("[WARN] Flag %s created but transcript edit failed", created.UUID)
				c.JSON(http.StatusCreated, FlagResponse{
					BaseResponse: types.BaseResponse{
						Status:  types.StatusOK,
						Message: "Flag created, but the transcript edit was not applied",
					},
					Flag: created,
				})
				return
			}
			log.Printf("[ERROR] Failed to create flag for episode %d segment %d: %v",
				req.EpisodeID, req.SegmentIndex, err)
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to create flag",
				Error:   err.Error(),
			})
			return
		}

		log.Printf("[DEBUG] Created %s flag %s on episode %d segment %d",
			created.Type, created.UUID, created.EpisodeID, created.SegmentIndex)
		c.JSON(http.StatusCreated, FlagResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Flag created"},
			Flag:         created,
		})
	}
}

// GetByEpisode lists every flag recorded on an episode
func GetByEpisode(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}

		flags, err := deps.FlagService.GetFlagsByEpisodeID(c.Request.Context(), episodeID)
		if err != nil {
			log.Printf("[ERROR] Failed to list flags for episode %d: %v", episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list flags"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": types.StatusOK,
			"flags":  flags,
			"count":  len(flags),
		})
	}
}

// GetForSegment returns the active (unresolved) flag on one segment, if any
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

		flag, err := deps.FlagService.GetActiveFlagForSegment(c.Request.Context(), episodeID, segmentIndex)
		if err != nil {
			if errors.Is(err, flagsService.ErrFlagNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("No active flag on this segment"))
				return
			}
			log.Printf("[ERROR] Failed to fetch flag for episode %d segment %d: %v", episodeID, segmentIndex, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to fetch flag"))
			return
		}

		c.JSON(http.StatusOK, FlagResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Flag:         flag,
		})
	}
}

// Resolve marks a flag as handled without deleting it
func Resolve(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid flag ID"))
			return
		}

		if err := deps.FlagService.ResolveFlag(c.Request.Context(), uint(id)); err != nil {
			if errors.Is(err, flagsService.ErrFlagNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Flag not found"))
				return
			}
			log.Printf("[ERROR] Failed to resolve flag %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to resolve flag"))
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{Status: types.StatusOK, Message: "Flag resolved"})
	}
}

// Delete removes exactly the given flag
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid flag ID"))
			return
		}

		if err := deps.FlagService.DeleteFlag(c.Request.Context(), uint(id)); err != nil {
			if errors.Is(err, flagsService.ErrFlagNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Flag not found"))
				return
			}
			log.Printf("[ERROR] Failed to delete flag %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to delete flag"))
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{Status: types.StatusOK, Message: "Flag deleted"})
	}
}
