package submit

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultDuration is the duration field's initial text.
const DefaultDuration = "52"

// Status is the lifecycle position of the current submission.
type Status int

const (
	Idle Status = iota
	InFlight
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in-flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Kind tells which input mode produced a submission or result.
type Kind int

const (
	KindText Kind = iota + 1
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindAudio:
		return "audio"
	default:
		return "none"
	}
}

// AudioFile is an audio blob chosen by the user.
type AudioFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// InputState holds the user's form fields. Duration keeps the raw text the
// user typed; it is coerced with [CoerceDuration] when a request is built.
type InputState struct {
	Transcript string
	Duration   string
	Audio      *AudioFile
}

// DurationSeconds returns the coerced duration.
func (in InputState) DurationSeconds() float64 {
	return CoerceDuration(in.Duration)
}

// Result is the displayable outcome of a successful submission.
//
// A text result pairs the submitted transcript with the server's score. An
// audio result is the server's object as received; Transcript and Score are
// lifted out of it when present.
type Result struct {
	Kind       Kind
	Transcript string
	Score      json.RawMessage

	// Raw is the full response body of an audio submission.
	Raw json.RawMessage
}

// MarshalJSON renders the object the presentation layer shows.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Kind == KindAudio {
		if len(r.Raw) == 0 {
			return []byte("null"), nil
		}
		return r.Raw, nil
	}
	score := r.Score
	if len(score) == 0 {
		score = json.RawMessage("null")
	}
	return json.Marshal(struct {
		Transcript string          `json:"transcript"`
		Score      json.RawMessage `json:"score"`
	}{r.Transcript, score})
}

// newAudioResult wraps an audio response body. Non-object bodies are kept as
// the result without any lifted fields.
func newAudioResult(body json.RawMessage) (*Result, bool) {
	r := &Result{Kind: KindAudio, Raw: body}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return r, false
	}

	r.Score = fields["score"]

	raw, ok := fields["transcript"]
	if !ok {
		return r, false
	}
	var transcript string
	if err := json.Unmarshal(raw, &transcript); err != nil {
		return r, false
	}
	r.Transcript = transcript
	return r, true
}

// State is a snapshot of the controller.
type State struct {
	Input  InputState
	Status Status

	// Mode is the kind of the latest submission that issued a request.
	Mode Kind

	Result *Result

	// Err is the user-facing error message; empty means unset.
	Err string

	// Cause is the error behind Err, for callers that classify it.
	Cause error

	// Seq is the sequence number of the latest submission that issued a request.
	Seq uint64
}

// CoerceDuration converts the duration text to seconds the way a browser's
// Number() converts an input value: surrounding whitespace is ignored, empty
// text is 0 and anything unparseable is NaN.
func CoerceDuration(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(s, "_") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v
		}
		return math.NaN()
	}
	return v
}
