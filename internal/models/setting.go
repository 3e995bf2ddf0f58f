package models

import (
	"time"
)

// Setting is an arbitrary string-keyed setting (feature toggles, model
// selection, embedding backend).
type Setting struct {
	Key       string    `gorm:"primarykey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Well-known setting keys.
const (
	SettingEmbeddingBackend = "speakers.embedding_backend"
	SettingPolishModel      = "polish.model"
	SettingAutoExpand       = "review.auto_expand_results"
)

// TableName specifies the table name for Setting
func (Setting) TableName() string {
	return "settings"
}
