package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// FlagType classifies the problem a reviewer marked on a segment.
type FlagType string

const (
	FlagWrongSpeaker     FlagType = "wrong_speaker"
	FlagCharacterVoice   FlagType = "character_voice"
	FlagMultipleSpeakers FlagType = "multiple_speakers"
	FlagMisspelling      FlagType = "misspelling"
	FlagMissingWord      FlagType = "missing_word"
	FlagAudioIssue       FlagType = "audio_issue"
	FlagOther            FlagType = "other"
)

// MinMultipleSpeakers is the smallest speaker set a multiple_speakers flag
// may be persisted with.
const MinMultipleSpeakers = 2

// SpeakerList holds the speaker identifiers attached to a
// multiple_speakers flag (raw labels and/or free-typed names).
type SpeakerList []string

// Value implements driver.Valuer interface for SpeakerList
func (l SpeakerList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for SpeakerList
func (l *SpeakerList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, l)
}

// Flag represents a reviewer-created annotation marking a problem with a
// segment. The fields beyond Type form a tagged union: each flag type
// carries only its relevant optional fields (see Validate).
type Flag struct {
	gorm.Model
	UUID             string      `gorm:"uniqueIndex" json:"uuid"`
	EpisodeID        int64       `gorm:"index:idx_flags_episode_segment" json:"episode_id"`
	SegmentIndex     int         `gorm:"index:idx_flags_episode_segment" json:"segment_index"`
	Type             FlagType    `gorm:"not null" json:"type"`
	CorrectedSpeaker string      `json:"corrected_speaker,omitempty"`
	CharacterID      *uint       `json:"character_id,omitempty"`
	Notes            string      `gorm:"type:text" json:"notes,omitempty"`
	CorrectedText    string      `gorm:"type:text" json:"corrected_text,omitempty"`
	Speakers         SpeakerList `gorm:"type:json" json:"speakers,omitempty"`
	Resolved         bool        `gorm:"default:false" json:"resolved"`
}

// IsCorrection reports whether the flag carries a text correction that is
// written back to the transcript after the flag itself is persisted.
func (f *Flag) IsCorrection() bool {
	return f.Type == FlagMisspelling || f.Type == FlagMissingWord
}

// Validate checks the type-specific preconditions before any persistence
// call is issued.
func (f *Flag) Validate() error {
	if f.SegmentIndex < 0 {
		return fmt.Errorf("segment index must not be negative")
	}

	switch f.Type {
	case FlagWrongSpeaker:
		if f.CorrectedSpeaker == "" {
			return fmt.Errorf("corrected speaker is required for %s flags", f.Type)
		}
	case FlagCharacterVoice:
		if f.CharacterID == nil {
			return fmt.Errorf("character is required for %s flags", f.Type)
		}
	case FlagMultipleSpeakers:
		if len(f.Speakers) < MinMultipleSpeakers {
			return fmt.Errorf("at least %d speakers are required for %s flags", MinMultipleSpeakers, f.Type)
		}
	case FlagMisspelling, FlagMissingWord, FlagAudioIssue, FlagOther:
		// No extra preconditions.
	default:
		return fmt.Errorf("unknown flag type %q", f.Type)
	}

	return nil
}

// TableName specifies the table name for Flag
func (Flag) TableName() string {
	return "flags"
}
