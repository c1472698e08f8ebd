package main

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type audioUpload struct {
	filename    string
	data        []byte
	durationSec string
}

func newAudioServer(t *testing.T, status int, body string) (*httptest.Server, *[]audioUpload) {
	t.Helper()
	var got []audioUpload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/score_audio", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		data, err := io.ReadAll(f)
		assert.NoError(t, err)
		got = append(got, audioUpload{filename: hdr.Filename, data: data, durationSec: r.FormValue("duration_sec")})

		w.WriteHeader(status)
		w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func writeAudio(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "intro.wav")
	require.NoError(t, os.WriteFile(p, []byte("RIFF....WAVEfmt "), 0o644))
	return p
}

const audioResponse = `{"filename":"intro.wav","transcript":"Hello, I am Ravi from Nagpur.","transcription_meta":{"model":"base"},"duration_sec_used":30,"score":{"overall":64}}`

func TestAudio_Success(t *testing.T) {
	srv, got := newAudioServer(t, http.StatusOK, audioResponse)

	res := runCLI(t, "", "--base-url", srv.URL, "audio", writeAudio(t), "--duration", "30")
	require.NoError(t, res.err)

	require.Len(t, *got, 1)
	assert.Equal(t, "intro.wav", (*got)[0].filename)
	assert.Equal(t, []byte("RIFF....WAVEfmt "), (*got)[0].data)
	assert.Equal(t, "30", (*got)[0].durationSec)

	assert.Contains(t, res.stdout, "Result\n{\n  \"filename\": \"intro.wav\",")
	assert.NotContains(t, res.stdout, "Words", "summary is off by default")
}

func TestAudio_Summary(t *testing.T) {
	srv, _ := newAudioServer(t, http.StatusOK, audioResponse)

	res := runCLI(t, "", "--base-url", srv.URL, "audio", writeAudio(t), "--summary")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Model       base")
	assert.Contains(t, res.stdout, "Words       6")

	res = runCLI(t, "defaults:\n  summary: true", "--base-url", srv.URL, "audio", writeAudio(t))
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Duration    30.0 s")
}

func TestAudio_ServerError(t *testing.T) {
	srv, _ := newAudioServer(t, http.StatusBadRequest, "bad file")

	res := runCLI(t, "", "--base-url", srv.URL, "audio", writeAudio(t))
	var failed *SubmissionFailedError
	require.True(t, errors.As(res.err, &failed), "got %v", res.err)
	assert.Equal(t, "bad file", failed.Message)
	assert.Equal(t, ExitSubmissionFailed, exitCode(res.err))
}

func TestAudio_EmptyServerError(t *testing.T) {
	srv, _ := newAudioServer(t, http.StatusBadGateway, "")

	res := runCLI(t, "", "--base-url", srv.URL, "audio", writeAudio(t))
	require.Error(t, res.err)
	assert.Equal(t, "Server error", res.err.Error())
}

func TestAudio_MissingFile(t *testing.T) {
	srv, got := newAudioServer(t, http.StatusOK, audioResponse)

	res := runCLI(t, "", "--base-url", srv.URL, "audio", filepath.Join(t.TempDir(), "nope.wav"))
	require.Error(t, res.err)
	assert.Equal(t, ExitError, exitCode(res.err))
	assert.Empty(t, *got, "no request is sent")
}

func TestAudio_RequiresOneArgument(t *testing.T) {
	res := runCLI(t, "", "audio")
	require.Error(t, res.err)
	assert.Equal(t, ExitError, exitCode(res.err))
}
