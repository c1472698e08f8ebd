package submit

import (
	"context"
	"encoding/json"
)

//go:generate go tool mockgen -source=scorer.go -destination=scorer_mock_test.go -package=submit

// Scorer issues the two scoring requests. Implementations return the raw
// response body on success. The Error() text of a returned error is shown to
// the user verbatim, so transports should keep it free of wrapping prefixes.
type Scorer interface {
	// ScoreText maps to POST /score.
	ScoreText(ctx context.Context, transcript string, durationSec float64) (json.RawMessage, error)

	// ScoreAudio maps to POST /score_audio.
	ScoreAudio(ctx context.Context, audio *AudioFile, durationSec float64) (json.RawMessage, error)
}
