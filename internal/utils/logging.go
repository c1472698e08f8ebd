package utils

import (
	"context"
	"log/slog"

	"github.com/nirmaan/scorer/internal/submit"
)

// StateToSlog logs a controller state change at debug level.
func StateToSlog(st submit.State) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"status", st.Status.String(),
		"seq", st.Seq,
	}
	if st.Mode != 0 {
		attrs = append(attrs, "mode", st.Mode.String())
	}

	attrs = addIf(attrs, "error", nonEmpty(st.Err))
	if st.Input.Audio != nil {
		attrs = addIf(attrs, "audioFile", nonEmpty(st.Input.Audio.Name))
		attrs = append(attrs, "audioBytes", len(st.Input.Audio.Data))
	}
	if st.Result != nil {
		attrs = addIf(attrs, "resultTranscript", nonEmpty(st.Result.Transcript))
	}

	slog.Debug("State changed", attrs...)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func addIf[T any](attrs []any, name string, v *T) []any {
	if v != nil {
		attrs = append(attrs, name)
		attrs = append(attrs, *v)
	}

	return attrs
}
