// Package submit owns the score submission state machine: the user's input
// fields, the current request and the settled result or error.
//
// A submission moves Idle → InFlight → Succeeded|Failed. Each submission that
// issues a request gets a sequence number, and only the latest one may settle
// the state, so a slow response to a superseded request is dropped instead of
// overwriting a newer outcome.
package submit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Fallback messages used when an error carries no text.
const (
	MsgTextFallback  = "Error"
	MsgAudioFallback = "Error uploading audio"
)

// ErrNoAudio is the validation error for an audio submission without a file.
var ErrNoAudio = errors.New("Please choose an audio file first.") //nolint:staticcheck // shown to the user as is

// Option configures a [Controller].
type Option func(*Controller)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithInput sets the initial input fields.
func WithInput(in InputState) Option {
	return func(c *Controller) {
		c.input = in
	}
}

// Controller mediates between the two input modes and the scorer. It is safe
// for concurrent use; no lock is held while a request is outstanding.
type Controller struct {
	scorer Scorer
	logger *slog.Logger

	mu     sync.Mutex
	input  InputState
	status Status
	mode   Kind
	result *Result
	errMsg string
	cause  error
	seq    uint64

	listeners    map[uint64]func(State)
	nextListener uint64

	// deliverMu serializes listener calls so snapshots arrive in order.
	deliverMu sync.Mutex
}

// New creates a controller that submits through scorer.
func New(scorer Scorer, opts ...Option) *Controller {
	c := &Controller{
		scorer:    scorer,
		logger:    slog.Default(),
		input:     InputState{Duration: DefaultDuration},
		listeners: map[uint64]func(State){},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Input returns the current input fields.
func (c *Controller) Input() InputState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetTranscript replaces the transcript field.
func (c *Controller) SetTranscript(transcript string) {
	c.update(func() { c.input.Transcript = transcript })
}

// SetDuration replaces the raw duration text.
func (c *Controller) SetDuration(raw string) {
	c.update(func() { c.input.Duration = raw })
}

// SetAudio selects the audio file for the next audio submission.
func (c *Controller) SetAudio(audio *AudioFile) {
	c.update(func() { c.input.Audio = audio })
}

// ClearAudio deselects the audio file.
func (c *Controller) ClearAudio() {
	c.update(func() { c.input.Audio = nil })
}

// OnChange registers fn to be called with a snapshot after every state
// change. Calls are serialized and each one sees the state current at
// delivery time. fn must not call the controller's mutating methods. Call
// the returned function to unregister.
func (c *Controller) OnChange(fn func(State)) (unregister func()) {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// SubmitText scores the current transcript. The transcript and duration are
// captured when the call starts; later edits do not affect the request. It
// blocks until the request settles and returns the resulting state.
func (c *Controller) SubmitText(ctx context.Context) State {
	c.mu.Lock()
	transcript := c.input.Transcript
	duration := c.input.DurationSeconds()
	seq := c.begin(KindText)
	c.mu.Unlock()
	c.notify()

	c.logger.Debug("Submitting transcript", "seq", seq, "chars", len(transcript), "durationSec", duration)

	score, err := c.scorer.ScoreText(ctx, transcript, duration)
	if err != nil {
		return c.fail(seq, err, MsgTextFallback)
	}

	return c.succeed(seq, &Result{Kind: KindText, Transcript: transcript, Score: score}, false)
}

// SubmitAudio uploads the selected audio file for transcription and scoring.
// Without a file it sets [ErrNoAudio] and issues no request. On success a
// transcript returned by the server replaces the transcript field.
func (c *Controller) SubmitAudio(ctx context.Context) State {
	c.mu.Lock()
	audio := c.input.Audio
	if audio == nil {
		c.result = nil
		c.errMsg = ErrNoAudio.Error()
		c.cause = ErrNoAudio
		c.mu.Unlock()
		c.notify()

		c.logger.Debug("Audio submission rejected", "reason", "no file")
		return c.State()
	}
	duration := c.input.DurationSeconds()
	seq := c.begin(KindAudio)
	c.mu.Unlock()
	c.notify()

	c.logger.Debug("Submitting audio", "seq", seq, "file", audio.Name, "bytes", len(audio.Data), "durationSec", duration)

	body, err := c.scorer.ScoreAudio(ctx, audio, duration)
	if err != nil {
		return c.fail(seq, err, MsgAudioFallback)
	}

	result, hasTranscript := newAudioResult(body)
	return c.succeed(seq, result, hasTranscript)
}

// begin resets the outcome and marks a new submission in flight. c.mu must
// be held.
func (c *Controller) begin(mode Kind) uint64 {
	c.seq++
	c.status = InFlight
	c.mode = mode
	c.result = nil
	c.errMsg = ""
	c.cause = nil
	return c.seq
}

func (c *Controller) succeed(seq uint64, result *Result, setTranscript bool) State {
	return c.settle(seq, func() {
		c.status = Succeeded
		c.result = result
		c.errMsg = ""
		c.cause = nil
		if setTranscript {
			c.input.Transcript = result.Transcript
		}
	})
}

func (c *Controller) fail(seq uint64, err error, fallback string) State {
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	return c.settle(seq, func() {
		c.status = Failed
		c.result = nil
		c.errMsg = msg
		c.cause = err
	})
}

// settle applies fn only if seq is still the latest submission.
func (c *Controller) settle(seq uint64, fn func()) State {
	c.mu.Lock()
	if seq != c.seq {
		latest := c.seq
		st := c.snapshot()
		c.mu.Unlock()

		c.logger.Debug("Dropping stale submission outcome", "seq", seq, "latest", latest)
		return st
	}
	fn()
	st := c.snapshot()
	c.mu.Unlock()

	c.logger.Debug("Submission settled", "seq", seq, "status", st.Status, "error", st.Err)
	c.notify()
	return st
}

func (c *Controller) update(fn func()) {
	c.mu.Lock()
	fn()
	c.mu.Unlock()
	c.notify()
}

// snapshot copies the state. c.mu must be held.
func (c *Controller) snapshot() State {
	return State{
		Input:  c.input,
		Status: c.status,
		Mode:   c.mode,
		Result: c.result,
		Err:    c.errMsg,
		Cause:  c.cause,
		Seq:    c.seq,
	}
}

func (c *Controller) notify() {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	if len(c.listeners) == 0 {
		c.mu.Unlock()
		return
	}
	st := c.snapshot()
	fns := make([]func(State), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
