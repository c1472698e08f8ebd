package main

import (
	"log/slog"

	"github.com/nirmaan/scorer/internal/audiosource"
	"github.com/nirmaan/scorer/internal/submit"
	"github.com/spf13/cobra"
)

type audioOptions struct {
	duration string
	summary  bool
	maxBytes int64
}

func newAudioCommand(root *rootOptions) *cobra.Command {
	opts := &audioOptions{}

	cmd := &cobra.Command{
		Use:   "audio <path-or-blob-url>",
		Short: "Transcribe and score an audio recording",
		Long: `Upload an audio recording for transcription and scoring.

The recording is a local file, a .gz or .zst compressed local file, or an
Azure Blob Storage URL (https://<account>.blob.core.windows.net/...). Blob
URLs with a SAS token are read anonymously; others use the default Azure
credential chain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudio(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.duration, "duration", "d", "", "Duration in seconds (default from config)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print a summary table after the result (default from config)")
	cmd.Flags().Int64Var(&opts.maxBytes, "max-bytes", 0, "Refuse recordings larger than this many bytes (0 for no limit)")

	return cmd
}

func runAudio(cmd *cobra.Command, root *rootOptions, opts *audioOptions, ref string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	opener := audiosource.NewOpener(
		audiosource.WithLogger(slog.Default()),
		audiosource.WithMaxBytes(opts.maxBytes),
	)
	audio, err := opener.Open(cmd.Context(), ref)
	if err != nil {
		return err
	}

	duration := durationText(cfg)
	if cmd.Flags().Changed("duration") {
		duration = opts.duration
	}
	summary := *cfg.Defaults.Summary
	if cmd.Flags().Changed("summary") {
		summary = opts.summary
	}

	ctrl := submit.New(client, submit.WithInput(submit.InputState{
		Duration: duration,
		Audio:    audio,
	}))
	return root.runSubmission(cmd, ctrl, submit.KindAudio, summary)
}
