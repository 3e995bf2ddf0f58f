package models

import (
	"fmt"

	"gorm.io/gorm"
)

// MinSampleDuration is the narrowest trim window a voice sample may keep.
const MinSampleDuration = 0.5

// VoiceSample marks a trimmed in/out window within a segment whose audio
// is suitable for extracting a voice print.
type VoiceSample struct {
	gorm.Model
	UUID         string  `gorm:"uniqueIndex" json:"uuid"`
	EpisodeID    int64   `gorm:"index:idx_samples_episode_segment" json:"episode_id"`
	SegmentIndex int     `gorm:"index:idx_samples_episode_segment" json:"segment_index"`
	SpeakerLabel string  `json:"speaker_label,omitempty"`
	StartTime    float64 `json:"start_time"`
	EndTime      float64 `json:"end_time"`
	Extracted    bool    `gorm:"default:false" json:"extracted"`
}

// Validate checks the window preconditions before persistence. Clamping
// into the segment's natural bounds happens in the trimmer, not here.
func (s *VoiceSample) Validate() error {
	if s.SegmentIndex < 0 {
		return fmt.Errorf("segment index must not be negative")
	}
	if s.StartTime >= s.EndTime {
		return fmt.Errorf("sample start must be before sample end")
	}
	if s.EndTime-s.StartTime < MinSampleDuration {
		return fmt.Errorf("sample must be at least %.1fs long", MinSampleDuration)
	}
	return nil
}

// TableName specifies the table name for VoiceSample
func (VoiceSample) TableName() string {
	return "voice_samples"
}
