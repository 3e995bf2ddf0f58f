package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ChapterType represents a reusable chapter category (intro, ad read,
// mailbag, ...).
type ChapterType struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	Color     string         `json:"color,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for ChapterType
func (ChapterType) TableName() string {
	return "chapter_types"
}

// Chapter represents a contiguous range of segments forming a structural
// section of an episode. Chapters may overlap; lookups pick the first
// chapter whose range contains an index.
type Chapter struct {
	gorm.Model
	UUID              string  `gorm:"uniqueIndex" json:"uuid"`
	EpisodeID         int64   `gorm:"index" json:"episode_id"`
	ChapterTypeID     uint    `gorm:"index" json:"chapter_type_id"`
	StartSegmentIndex int     `json:"start_segment_index"`
	EndSegmentIndex   int     `json:"end_segment_index"`
	StartTime         float64 `json:"start_time"`
	EndTime           float64 `json:"end_time"`
	Title             string  `json:"title,omitempty"`
}

// Validate checks the range preconditions before persistence.
func (ch *Chapter) Validate() error {
	if ch.StartSegmentIndex < 0 {
		return fmt.Errorf("start segment index must not be negative")
	}
	if ch.EndSegmentIndex < ch.StartSegmentIndex {
		return fmt.Errorf("end segment index must not precede start segment index")
	}
	if ch.ChapterTypeID == 0 {
		return fmt.Errorf("chapter type is required")
	}
	return nil
}

// Contains reports whether the chapter's segment range contains idx.
func (ch *Chapter) Contains(idx int) bool {
	return idx >= ch.StartSegmentIndex && idx <= ch.EndSegmentIndex
}

// TableName specifies the table name for Chapter
func (Chapter) TableName() string {
	return "chapters"
}
