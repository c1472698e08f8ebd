// Package audiosource resolves the audio a user points at into an upload:
// a local file, a gzip or zstd compressed local file, or a blob in Azure
// Blob Storage.
package audiosource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/nirmaan/scorer/internal/submit"
)

var (
	// ErrNotFound is returned when the referenced file or blob does not exist.
	ErrNotFound = errors.New("audio file not found")

	// ErrNotAudio is returned when the file type is known and not audio.
	ErrNotAudio = errors.New("not an audio file")
)

// audioTypes covers extensions the system mime table often lacks.
var audioTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".flac": "audio/flac",
	".webm": "audio/webm",
	".weba": "audio/webm",
}

// Downloader fetches a blob by URL.
type Downloader interface {
	Download(ctx context.Context, blobURL string) (io.ReadCloser, error)
}

// Option configures an [Opener].
type Option func(*Opener)

// WithDownloader replaces the blob downloader.
func WithDownloader(d Downloader) Option {
	return func(o *Opener) {
		o.blobs = d
	}
}

// WithMaxBytes limits the decoded audio size. Zero means no limit.
func WithMaxBytes(n int64) Option {
	return func(o *Opener) {
		o.maxBytes = n
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Opener) {
		o.logger = logger
	}
}

// Opener loads audio files.
type Opener struct {
	blobs    Downloader
	maxBytes int64
	logger   *slog.Logger
}

// NewOpener creates an opener. Blob URLs use Azure Blob Storage unless a
// downloader is supplied.
func NewOpener(opts ...Option) *Opener {
	o := &Opener{
		blobs:  &AzureDownloader{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open reads the audio at ref, a local path or a blob URL.
func (o *Opener) Open(ctx context.Context, ref string) (*submit.AudioFile, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNotFound)
	}

	var (
		name string
		rc   io.ReadCloser
		err  error
	)
	if IsBlobURL(ref) {
		u, _ := url.Parse(ref)
		name = path.Base(u.Path)
		rc, err = o.blobs.Download(ctx, ref)
	} else {
		name = filepath.Base(ref)
		rc, err = os.Open(ref)
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	name, r, closeFn, err := decompress(name, rc)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", ref, err)
	}
	defer closeFn()

	contentType := ContentType(name)
	if !isAudio(contentType) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotAudio, name, contentType)
	}

	data, err := o.readAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ref, err)
	}

	o.logger.Debug("Audio loaded", "ref", ref, "name", name, "contentType", contentType, "bytes", len(data))
	return &submit.AudioFile{Name: name, ContentType: contentType, Data: data}, nil
}

func (o *Opener) readAll(r io.Reader) ([]byte, error) {
	if o.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, o.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if n > o.maxBytes {
		return nil, fmt.Errorf("audio exceeds %d bytes", o.maxBytes)
	}
	return buf.Bytes(), nil
}

// decompress wraps r according to the name's compression suffix and returns
// the name without it.
func decompress(name string, r io.Reader) (string, io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return "", nil, nil, err
		}
		return strings.TrimSuffix(name, filepath.Ext(name)), zr, func() { zr.Close() }, nil //nolint:errcheck
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return "", nil, nil, err
		}
		return strings.TrimSuffix(name, filepath.Ext(name)), zr, zr.Close, nil
	default:
		return name, r, func() {}, nil
	}
}

// ContentType returns the media type for a file name, falling back to
// application/octet-stream.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := audioTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err == nil {
			return mt
		}
		return ct
	}
	return "application/octet-stream"
}

func isAudio(contentType string) bool {
	return strings.HasPrefix(contentType, "audio/") || contentType == "application/octet-stream"
}
