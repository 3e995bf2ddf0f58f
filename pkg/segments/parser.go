package segments

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// UnknownLabel is the diarization output for audio that could not be
// attributed to any speaker. It never appears in the unique speaker set.
const UnknownLabel = "UNKNOWN"

// Segment is one timed, speaker-attributed utterance unit of a
// transcript. Segments are index-addressed and never mutated in place;
// a text correction replaces the stored payload through an explicit edit.
type Segment struct {
	Index     int     `json:"index"`
	Speaker   string  `json:"speaker,omitempty"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Duration returns the natural length of the segment in seconds.
func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Contains reports whether t falls inside the segment's half-open
// [StartTime, EndTime) interval.
func (s Segment) Contains(t float64) bool {
	return t >= s.StartTime && t < s.EndTime
}

// IsRawLabel reports whether name looks like a machine-assigned
// diarization label (SPEAKER_NN) rather than a human name.
func IsRawLabel(name string) bool {
	return strings.HasPrefix(name, "SPEAKER_") || name == UnknownLabel
}

// Parse decodes a stored segments payload. Diarization pipelines have
// emitted a few field spellings over time, so both snake_case and
// camelCase timing keys are accepted, as is a top-level object wrapping
// the array. A malformed payload returns an error alongside an empty
// slice so callers can degrade to "no segments" instead of failing the
// whole load.
func Parse(payload string) ([]Segment, error) {
	if strings.TrimSpace(payload) == "" {
		return []Segment{}, nil
	}

	type rawSegment struct {
		Speaker      string  `json:"speaker"`
		SpeakerLabel string  `json:"speaker_label"`
		Text         string  `json:"text"`
		Start        float64 `json:"start"`
		StartTime    float64 `json:"start_time"`
		StartCamel   float64 `json:"startTime"`
		End          float64 `json:"end"`
		EndTime      float64 `json:"end_time"`
		EndCamel     float64 `json:"endTime"`
	}

	var raw []rawSegment
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		var obj struct {
			Segments []rawSegment `json:"segments"`
		}
		if objErr := json.Unmarshal([]byte(payload), &obj); objErr != nil {
			return []Segment{}, fmt.Errorf("parsing segments payload: %w", err)
		}
		raw = obj.Segments
	}

	parsed := make([]Segment, 0, len(raw))
	for i, seg := range raw {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = seg.SpeakerLabel
		}

		start := seg.Start
		if start == 0 && seg.StartTime > 0 {
			start = seg.StartTime
		}
		if start == 0 && seg.StartCamel > 0 {
			start = seg.StartCamel
		}

		end := seg.End
		if end == 0 && seg.EndTime > 0 {
			end = seg.EndTime
		}
		if end == 0 && seg.EndCamel > 0 {
			end = seg.EndCamel
		}

		parsed = append(parsed, Segment{
			Index:     i,
			Speaker:   speaker,
			Text:      strings.TrimSpace(seg.Text),
			StartTime: start,
			EndTime:   end,
		})
	}

	return parsed, nil
}

// Marshal encodes segments back into the stored payload form.
func Marshal(segs []Segment) (string, error) {
	data, err := json.Marshal(segs)
	if err != nil {
		return "", fmt.Errorf("encoding segments payload: %w", err)
	}
	return string(data), nil
}

// UniqueSpeakers returns the sorted set of distinct non-empty, non-UNKNOWN
// raw labels seen across segments. It is recomputed whenever segments
// change and never cached across episodes.
func UniqueSpeakers(segs []Segment) []string {
	seen := make(map[string]bool)
	for _, seg := range segs {
		if seg.Speaker == "" || seg.Speaker == UnknownLabel {
			continue
		}
		seen[seg.Speaker] = true
	}

	speakers := make([]string, 0, len(seen))
	for speaker := range seen {
		speakers = append(speakers, speaker)
	}
	sort.Strings(speakers)

	return speakers
}

// FullText joins segment texts into the plain transcript body.
func FullText(segs []Segment) string {
	var builder strings.Builder
	for _, seg := range segs {
		if seg.Text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(seg.Text)
	}
	return builder.String()
}
