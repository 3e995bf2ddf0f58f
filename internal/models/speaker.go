package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// AudioDrop is a named recurring audio clip assigned to a diarization
// label in place of a human speaker name.
type AudioDrop struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	ClipPath  string         `json:"clip_path,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for AudioDrop
func (AudioDrop) TableName() string {
	return "audio_drops"
}

// SpeakerAssignment is the authoritative per-episode link from a raw
// diarization label to either a human display name or an audio drop.
// It overrides the name map stored on the transcript record.
type SpeakerAssignment struct {
	gorm.Model
	EpisodeID   int64  `gorm:"index:idx_assignments_episode_label,unique" json:"episode_id"`
	Label       string `gorm:"index:idx_assignments_episode_label,unique" json:"label"`
	DisplayName string `json:"display_name,omitempty"`
	AudioDropID *uint  `json:"audio_drop_id,omitempty"`
}

// Validate checks that the assignment resolves to exactly one target.
func (a *SpeakerAssignment) Validate() error {
	if a.Label == "" {
		return fmt.Errorf("speaker label is required")
	}
	if a.DisplayName == "" && a.AudioDropID == nil {
		return fmt.Errorf("assignment needs a display name or an audio drop")
	}
	if a.DisplayName != "" && a.AudioDropID != nil {
		return fmt.Errorf("assignment cannot have both a display name and an audio drop")
	}
	return nil
}

// TableName specifies the table name for SpeakerAssignment
func (SpeakerAssignment) TableName() string {
	return "speaker_assignments"
}
