package models

import (
	"time"

	"gorm.io/gorm"
)

// Character represents a recurring character voice in the show's catalog.
type Character struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	Notes     string         `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Character
func (Character) TableName() string {
	return "characters"
}

// CharacterAppearance ties a character to one segment of an episode.
// One character per segment slot is a reviewer convention, not a schema
// constraint.
type CharacterAppearance struct {
	gorm.Model
	UUID          string  `gorm:"uniqueIndex" json:"uuid"`
	EpisodeID     int64   `gorm:"index" json:"episode_id"`
	CharacterID   uint    `gorm:"index" json:"character_id"`
	CharacterName string  `json:"character_name"`
	SegmentIndex  int     `json:"segment_index"`
	StartTime     float64 `json:"start_time"`
	EndTime       float64 `json:"end_time"`
}

// TableName specifies the table name for CharacterAppearance
func (CharacterAppearance) TableName() string {
	return "character_appearances"
}
