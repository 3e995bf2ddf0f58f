package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// SpeakerNameMap maps a raw diarization label (or literal speaker name)
// to a human display name.
type SpeakerNameMap map[string]string

// Value implements driver.Valuer interface for SpeakerNameMap
func (m SpeakerNameMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner interface for SpeakerNameMap
func (m *SpeakerNameMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(SpeakerNameMap)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, m)
}

// Transcript represents the stored transcript record for one episode.
// SegmentsJSON is the immutable per-episode segment sequence; it is only
// replaced wholesale (reprocessing) or patched by an explicit edit call.
type Transcript struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	EpisodeID      int64          `gorm:"uniqueIndex" json:"episode_id"`
	SegmentsJSON   string         `gorm:"type:text" json:"segments_json"`
	SpeakerNames   SpeakerNameMap `gorm:"type:json" json:"speaker_names"`
	FullText       string         `gorm:"type:text" json:"full_text"`
	Language       string         `json:"language"`
	HasDiarization bool           `json:"has_diarization"`
	AudioPath      string         `json:"audio_path,omitempty"`
	AudioURL       string         `json:"audio_url,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Transcript
func (Transcript) TableName() string {
	return "transcripts"
}
