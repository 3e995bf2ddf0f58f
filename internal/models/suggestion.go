package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Approval is the tri-state review decision on a suggestion.
type Approval int8

const (
	ApprovalRejected Approval = -1
	ApprovalPending  Approval = 0
	ApprovalApproved Approval = 1
)

// SuggestionKind distinguishes the job family that produced a suggestion.
type SuggestionKind string

const (
	SuggestionClassification SuggestionKind = "classification"
	SuggestionPolish         SuggestionKind = "polish"
)

// Suggestion is a per-segment result produced by a background analysis
// job, awaiting a terminal approve/reject decision by the reviewer.
//
// Classification suggestions fill SuggestedSpeaker/SuggestedCharacterID;
// polish corrections fill OriginalText/CorrectedText.
type Suggestion struct {
	gorm.Model
	UUID                 string         `gorm:"uniqueIndex" json:"uuid"`
	EpisodeID            int64          `gorm:"index:idx_suggestions_episode_kind" json:"episode_id"`
	Kind                 SuggestionKind `gorm:"index:idx_suggestions_episode_kind" json:"kind"`
	SegmentIndex         int            `json:"segment_index"`
	Confidence           float64        `json:"confidence"`
	Approved             Approval       `gorm:"default:0" json:"approved"`
	SuggestedSpeaker     string         `json:"suggested_speaker,omitempty"`
	SuggestedCharacterID *uint          `json:"suggested_character_id,omitempty"`
	OriginalText         string         `gorm:"type:text" json:"original_text,omitempty"`
	CorrectedText        string         `gorm:"type:text" json:"corrected_text,omitempty"`
}

// IsPending reports whether the suggestion still awaits a decision.
func (s *Suggestion) IsPending() bool {
	return s.Approved == ApprovalPending
}

// Decide applies a terminal approval transition. Re-deciding an already
// decided suggestion is an error; there is no un-approve.
func (s *Suggestion) Decide(decision Approval) error {
	if decision != ApprovalApproved && decision != ApprovalRejected {
		return fmt.Errorf("decision must be approved or rejected")
	}
	if !s.IsPending() {
		return fmt.Errorf("suggestion %s already decided", s.UUID)
	}
	s.Approved = decision
	return nil
}

// HasTextChange reports whether approving a polish correction must also
// push a transcript edit.
func (s *Suggestion) HasTextChange() bool {
	return s.Kind == SuggestionPolish && s.CorrectedText != "" && s.CorrectedText != s.OriginalText
}

// TableName specifies the table name for Suggestion
func (Suggestion) TableName() string {
	return "suggestions"
}
