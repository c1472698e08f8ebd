package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nirmaan/scorer/internal/submit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const audioBody = `{
  "filename": "intro.wav",
  "transcript": " Hello everyone, my name is Asha.\n I am from Pune. ",
  "transcription_meta": {"model": "base", "whisper_result_keys": ["text", "segments", "language"]},
  "duration_sec_used": 52,
  "score": {"overall": 78}
}`

func TestResult_Text(t *testing.T) {
	var buf bytes.Buffer
	st := submit.State{
		Status: submit.Succeeded,
		Result: &submit.Result{Kind: submit.KindText, Transcript: "hi", Score: json.RawMessage(`{"overall":40}`)},
	}

	require.NoError(t, Result(&buf, st))

	want := "Result\n{\n  \"transcript\": \"hi\",\n  \"score\": {\n    \"overall\": 40\n  }\n}\n"
	assert.Equal(t, want, buf.String())
}

func TestResult_AudioKeepsServerFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	st := submit.State{
		Status: submit.Succeeded,
		Result: &submit.Result{Kind: submit.KindAudio, Raw: json.RawMessage(`{"z":1,"a":2}`)},
	}

	require.NoError(t, Result(&buf, st))
	assert.Equal(t, "Result\n{\n  \"z\": 1,\n  \"a\": 2\n}\n", buf.String())
}

func TestResult_Error(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, submit.State{Status: submit.Failed, Err: "bad file"}))
	assert.Equal(t, "Error: bad file\n", buf.String())
}

func TestResult_Nothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, submit.State{}))
	assert.Empty(t, buf.String())
}

func TestDecodeAudioSummary(t *testing.T) {
	s, err := DecodeAudioSummary(&submit.Result{Kind: submit.KindAudio, Raw: json.RawMessage(audioBody)})
	require.NoError(t, err)

	assert.Equal(t, "intro.wav", s.Filename)
	assert.Equal(t, 52.0, s.DurationSecUsed)
	assert.Equal(t, "base", s.TranscriptionMeta.Model)
	assert.Contains(t, s.Transcript, "my name is Asha")
}

func TestDecodeAudioSummary_NotObject(t *testing.T) {
	_, err := DecodeAudioSummary(&submit.Result{Kind: submit.KindAudio, Raw: json.RawMessage(`[1,2]`)})
	require.Error(t, err)
}

func TestWriteAudioSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAudioSummary(&buf, &submit.Result{Kind: submit.KindAudio, Raw: json.RawMessage(audioBody)}))

	want := strings.Join([]string{
		"File        intro.wav",
		"Model       base",
		"Duration    52.0 s",
		"Transcript  Hello everyone, my name is Asha. I am from Pune.",
		"Words       10",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteAudioSummary_TruncatesLongTranscript(t *testing.T) {
	long := strings.Repeat("word ", 40)
	body, err := json.Marshal(map[string]any{"transcript": long})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteAudioSummary(&buf, &submit.Result{Kind: submit.KindAudio, Raw: body}))
	assert.Contains(t, buf.String(), "…")
	assert.Contains(t, buf.String(), "Words       40")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "名前", padRight("名前", 4))
	assert.Equal(t, "toolong", padRight("toolong", 3))
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgress_FollowsStatus(t *testing.T) {
	out := &lockedBuffer{}
	p := NewProgress(out)
	p.interval = time.Millisecond

	p.Update(submit.State{Status: submit.InFlight, Mode: submit.KindAudio})
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), LabelAudio)
	}, time.Second, time.Millisecond)

	p.Update(submit.State{Status: submit.Succeeded, Mode: submit.KindAudio})
	cleared := out.String()
	assert.True(t, strings.HasSuffix(cleared, "\r"), "line is cleared when the submission settles")

	p.Close()
	assert.Equal(t, cleared, out.String(), "closing an idle indicator writes nothing")
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Scoring...", Label(submit.KindText))
	assert.Equal(t, "Transcribing & Scoring...", Label(submit.KindAudio))
}
