package review

import (
	"context"
	"log"

	"github.com/killallgit/review-api/internal/services/speakers"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/killallgit/review-api/pkg/segments"
)

// EpisodeView is the fully resolved, render-ready shape of one episode's
// transcript: parsed segments plus the effective speaker-name map.
type EpisodeView struct {
	EpisodeID      int64              `json:"episode_id"`
	Segments       []segments.Segment `json:"segments"`
	SpeakerNames   map[string]string  `json:"speaker_names"`
	UniqueSpeakers []string           `json:"unique_speakers"`
	AudioPath      string             `json:"audio_path,omitempty"`
	HasDiarization bool               `json:"has_diarization"`
}

// DisplayName resolves a raw diarization label through the effective
// name map, falling back to the label itself.
func (v *EpisodeView) DisplayName(label string) string {
	if name, ok := v.SpeakerNames[label]; ok && name != "" {
		return name
	}
	return label
}

// Loader builds EpisodeViews by combining the stored transcript with the
// episode's speaker assignments.
type Loader struct {
	transcripts transcripts.Service
	speakers    speakers.Service
}

// NewLoader creates a new episode view loader
func NewLoader(transcriptService transcripts.Service, speakerService speakers.Service) *Loader {
	return &Loader{
		transcripts: transcriptService,
		speakers:    speakerService,
	}
}

// Load fetches and resolves one episode. A missing transcript propagates
// transcripts.ErrTranscriptNotFound; a malformed segment payload
// degrades to an empty segment list so the rest of the view stays
// usable.
//
// Name precedence, weakest to strongest: the literal name inside a
// segment, the name map stored on the transcript record, then the
// episode's speaker assignments.
func (l *Loader) Load(ctx context.Context, episodeID int64) (*EpisodeView, error) {
	transcript, err := l.transcripts.GetTranscript(ctx, episodeID)
	if err != nil {
		return nil, err
	}

	segs, err := segments.Parse(transcript.SegmentsJSON)
	if err != nil {
		log.Printf("[ERROR] Episode %d has malformed segments, degrading to empty: %v", episodeID, err)
		segs = []segments.Segment{}
	}

	names := make(map[string]string)

	// Literal names already present in segments (non-raw labels name
	// themselves).
	for _, seg := range segs {
		if seg.Speaker != "" && !segments.IsRawLabel(seg.Speaker) {
			names[seg.Speaker] = seg.Speaker
		}
	}

	// Stored name map overrides literals.
	for label, name := range transcript.SpeakerNames {
		if name != "" {
			names[label] = name
		}
	}

	// Assignments are authoritative.
	assigned, err := l.speakers.AssignmentNameMap(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	for label, name := range assigned {
		names[label] = name
	}

	return &EpisodeView{
		EpisodeID:      episodeID,
		Segments:       segs,
		SpeakerNames:   names,
		UniqueSpeakers: segments.UniqueSpeakers(segs),
		AudioPath:      transcript.AudioPath,
		HasDiarization: transcript.HasDiarization,
	}, nil
}
