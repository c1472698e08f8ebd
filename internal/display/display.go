// Package display renders controller state for a terminal.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mattn/go-runewidth"
	"github.com/nirmaan/scorer/internal/submit"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const transcriptWidth = 60

var printer = message.NewPrinter(language.English)

// AudioSummary is the part of an audio result that is shown as a table.
// Fields the service does not send stay zero.
type AudioSummary struct {
	Filename          string  `mapstructure:"filename"`
	Transcript        string  `mapstructure:"transcript"`
	DurationSecUsed   float64 `mapstructure:"duration_sec_used"`
	TranscriptionMeta struct {
		Model string `mapstructure:"model"`
	} `mapstructure:"transcription_meta"`
}

// Result writes the error line, or the result as indented JSON.
func Result(w io.Writer, st submit.State) error {
	if st.Err != "" {
		_, err := fmt.Fprintf(w, "Error: %s\n", st.Err)
		return err
	}
	if st.Result == nil {
		return nil
	}
	out, err := JSON(st.Result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Result\n%s\n", out)
	return err
}

// JSON renders the result with two-space indentation.
func JSON(r *submit.Result) ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering result: %w", err)
	}
	return out, nil
}

// DecodeAudioSummary pulls the known fields out of an audio result.
func DecodeAudioSummary(r *submit.Result) (*AudioSummary, error) {
	var fields map[string]any
	if err := json.Unmarshal(r.Raw, &fields); err != nil {
		return nil, fmt.Errorf("audio result is not an object: %w", err)
	}

	var s AudioSummary
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(fields); err != nil {
		return nil, fmt.Errorf("decoding audio result: %w", err)
	}
	return &s, nil
}

// WriteAudioSummary prints an aligned table for an audio result.
func WriteAudioSummary(w io.Writer, r *submit.Result) error {
	s, err := DecodeAudioSummary(r)
	if err != nil {
		return err
	}

	var rows [][2]string
	if s.Filename != "" {
		rows = append(rows, [2]string{"File", s.Filename})
	}
	if s.TranscriptionMeta.Model != "" {
		rows = append(rows, [2]string{"Model", s.TranscriptionMeta.Model})
	}
	if s.DurationSecUsed > 0 {
		rows = append(rows, [2]string{"Duration", printer.Sprintf("%.1f s", s.DurationSecUsed)})
	}
	transcript := strings.Join(strings.Fields(s.Transcript), " ")
	if transcript != "" {
		rows = append(rows, [2]string{"Transcript", runewidth.Truncate(transcript, transcriptWidth, "…")})
		rows = append(rows, [2]string{"Words", printer.Sprintf("%d", len(strings.Fields(transcript)))})
	}

	width := 0
	for _, row := range rows {
		width = max(width, runewidth.StringWidth(row[0]))
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s  %s\n", padRight(row[0], width), row[1]); err != nil {
			return err
		}
	}
	return nil
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
