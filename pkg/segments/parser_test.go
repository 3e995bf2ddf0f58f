package segments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("parses array payload", func(t *testing.T) {
		payload := `[
			{"speaker":"SPEAKER_00","text":"hi","start":0,"end":5},
			{"speaker":"SPEAKER_01","text":"bye","start":5,"end":9}
		]`

		segs, err := Parse(payload)
		require.NoError(t, err)
		require.Len(t, segs, 2)

		assert.Equal(t, 0, segs[0].Index)
		assert.Equal(t, "SPEAKER_00", segs[0].Speaker)
		assert.Equal(t, "hi", segs[0].Text)
		assert.Equal(t, 0.0, segs[0].StartTime)
		assert.Equal(t, 5.0, segs[0].EndTime)
		assert.Equal(t, 1, segs[1].Index)
	})

	t.Run("parses wrapped payload with alternate keys", func(t *testing.T) {
		payload := `{"segments":[{"speaker_label":"SPEAKER_02","text":" trimmed ","start_time":1.5,"end_time":3.25}]}`

		segs, err := Parse(payload)
		require.NoError(t, err)
		require.Len(t, segs, 1)
		assert.Equal(t, "SPEAKER_02", segs[0].Speaker)
		assert.Equal(t, "trimmed", segs[0].Text)
		assert.Equal(t, 1.5, segs[0].StartTime)
		assert.Equal(t, 3.25, segs[0].EndTime)
	})

	t.Run("parses camelCase timing keys", func(t *testing.T) {
		payload := `[{"speaker":"Matt","text":"hello","startTime":2.0,"endTime":4.0}]`

		segs, err := Parse(payload)
		require.NoError(t, err)
		require.Len(t, segs, 1)
		assert.Equal(t, 2.0, segs[0].StartTime)
		assert.Equal(t, 4.0, segs[0].EndTime)
	})

	t.Run("malformed payload degrades to no segments", func(t *testing.T) {
		segs, err := Parse(`{not json`)
		assert.Error(t, err)
		assert.Empty(t, segs)
		assert.NotNil(t, segs)
	})

	t.Run("empty payload is not an error", func(t *testing.T) {
		segs, err := Parse("")
		assert.NoError(t, err)
		assert.Empty(t, segs)
	})
}

func TestUniqueSpeakers(t *testing.T) {
	segs := []Segment{
		{Speaker: "SPEAKER_01"},
		{Speaker: "SPEAKER_00"},
		{Speaker: "UNKNOWN"},
		{Speaker: ""},
		{Speaker: "SPEAKER_01"},
	}

	assert.Equal(t, []string{"SPEAKER_00", "SPEAKER_01"}, UniqueSpeakers(segs))
	assert.Empty(t, UniqueSpeakers(nil))
}

func TestSegment_Contains(t *testing.T) {
	seg := Segment{StartTime: 5, EndTime: 9}

	assert.False(t, seg.Contains(4.99))
	assert.True(t, seg.Contains(5))
	assert.True(t, seg.Contains(8.99))
	assert.False(t, seg.Contains(9)) // half-open interval
}

func TestIsRawLabel(t *testing.T) {
	assert.True(t, IsRawLabel("SPEAKER_03"))
	assert.True(t, IsRawLabel("UNKNOWN"))
	assert.False(t, IsRawLabel("Matt"))
	assert.False(t, IsRawLabel(""))
}

func TestMarshalRoundTrip(t *testing.T) {
	segs := []Segment{{Index: 0, Speaker: "SPEAKER_00", Text: "hi", StartTime: 0, EndTime: 5}}

	payload, err := Marshal(segs)
	require.NoError(t, err)

	decoded, err := Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, segs, decoded)
}

func TestFullText(t *testing.T) {
	segs := []Segment{{Text: "hi"}, {Text: ""}, {Text: "bye"}}
	assert.Equal(t, "hi bye", FullText(segs))
}
