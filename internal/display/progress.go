package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/nirmaan/scorer/internal/submit"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Labels shown while a submission is in flight.
const (
	LabelText  = "Scoring..."
	LabelAudio = "Transcribing & Scoring..."
)

// Progress animates a spinner on w while the controller has a submission in
// flight. Feed it state changes with Update, e.g. via Controller.OnChange.
type Progress struct {
	w        io.Writer
	interval time.Duration

	mu   sync.Mutex
	stop func()
}

// NewProgress creates an idle indicator writing to w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w, interval: 80 * time.Millisecond}
}

// Update starts the spinner when st is in flight and clears it otherwise.
func (p *Progress) Update(st submit.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st.Status == submit.InFlight {
		if p.stop != nil {
			p.stop()
		}
		p.stop = p.spin(Label(st.Mode))
		return
	}
	if p.stop != nil {
		p.stop()
		p.stop = nil
	}
}

// Close clears the spinner if it is running.
func (p *Progress) Close() {
	p.Update(submit.State{})
}

// Label returns the in-flight label for a submission kind.
func Label(mode submit.Kind) string {
	if mode == submit.KindAudio {
		return LabelAudio
	}
	return LabelText
}

// spin runs the animation until the returned function is called; that
// function clears the line before returning.
func (p *Progress) spin(message string) (stop func()) {
	done := make(chan struct{})
	cleared := make(chan struct{})
	var stopOnce sync.Once
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		i := 0
		for {
			fmt.Fprintf(p.w, "\r%s %s", frames[i%len(frames)], message) //nolint:errcheck
			i++
			select {
			case <-done:
				fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", len(message)+2)) //nolint:errcheck
				close(cleared)
				return
			case <-ticker.C:
			}
		}
	}()
	return func() {
		stopOnce.Do(func() {
			close(done)
		})
		<-cleared
	}
}
