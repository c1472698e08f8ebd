package wizard

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/nirmaan/scorer/internal/submit"
	"golang.org/x/term"
)

// AudioOpener resolves an audio reference typed by the user.
type AudioOpener interface {
	Open(ctx context.Context, ref string) (*submit.AudioFile, error)
}

// Answers holds the fields collected by the form.
type Answers struct {
	Mode       submit.Kind
	Duration   string
	AudioRef   string
	Transcript string
}

// Ask runs the interactive form. initial pre-populates the duration and
// transcript fields.
func Ask(in io.Reader, out io.Writer, initial submit.InputState) (*Answers, error) {
	var (
		mode       = submit.KindAudio
		duration   = initial.Duration
		audioRef   string
		transcript = initial.Transcript
	)
	if initial.Audio != nil {
		audioRef = initial.Audio.Name
	}

	accessible := isAccessible(in)
	if accessible {
		in = newLineReader(in)
	}

	first := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[submit.Kind]().
				Title("What do you want to score?").
				Options(
					huh.NewOption("Audio recording", submit.KindAudio),
					huh.NewOption("Text transcript", submit.KindText),
				).
				Value(&mode),
			huh.NewInput().
				Title("Duration (seconds)").
				Description("Length of the introduction used for pacing").
				Placeholder(submit.DefaultDuration).
				Value(&duration),
		),
	).
		WithInput(in).
		WithOutput(out).
		WithAccessible(accessible)

	if err := first.Run(); err != nil {
		return nil, fmt.Errorf("form failed: %w", err)
	}

	var field huh.Field
	if mode == submit.KindAudio {
		field = huh.NewInput().
			Title("Audio file").
			Description("Local path or blob URL").
			Placeholder("intro.wav").
			Value(&audioRef)
	} else {
		field = huh.NewText().
			Title("Transcript").
			Description("Paste or type the self-introduction").
			Value(&transcript)
	}

	second := huh.NewForm(huh.NewGroup(field)).
		WithInput(in).
		WithOutput(out).
		WithAccessible(accessible)

	if err := second.Run(); err != nil {
		return nil, fmt.Errorf("form failed: %w", err)
	}

	return &Answers{
		Mode:       mode,
		Duration:   strings.TrimSpace(duration),
		AudioRef:   strings.TrimSpace(audioRef),
		Transcript: transcript,
	}, nil
}

// Apply writes the answers into the controller's input. An empty audio
// reference clears the selected file.
func Apply(ctx context.Context, ctrl *submit.Controller, opener AudioOpener, a *Answers) error {
	ctrl.SetDuration(a.Duration)

	if a.Mode == submit.KindText {
		ctrl.SetTranscript(a.Transcript)
		return nil
	}

	if a.AudioRef == "" {
		ctrl.ClearAudio()
		return nil
	}
	audio, err := opener.Open(ctx, a.AudioRef)
	if err != nil {
		return err
	}
	ctrl.SetAudio(audio)
	return nil
}

// Run asks for input, applies it to ctrl and returns the chosen mode.
func Run(ctx context.Context, in io.Reader, out io.Writer, ctrl *submit.Controller, opener AudioOpener) (submit.Kind, error) {
	answers, err := Ask(in, out, ctrl.Input())
	if err != nil {
		return 0, err
	}
	if err := Apply(ctx, ctrl, opener, answers); err != nil {
		return 0, err
	}
	return answers.Mode, nil
}

// Use accessible mode for non-TTY input (e.g., tests, piped input).
func isAccessible(in io.Reader) bool {
	f, ok := in.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

// lineReader hands out at most one line per Read. Accessible prompts each
// wrap the input in a fresh scanner, which would otherwise buffer the answers
// meant for the prompts that follow.
type lineReader struct {
	r       *bufio.Reader
	pending []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) Read(p []byte) (int, error) {
	if len(l.pending) == 0 {
		line, err := l.r.ReadBytes('\n')
		if len(line) == 0 {
			return 0, err
		}
		l.pending = line
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
