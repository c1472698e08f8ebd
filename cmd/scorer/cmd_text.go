package main

import (
	"github.com/nirmaan/scorer/internal/submit"
	"github.com/nirmaan/scorer/internal/transcriptfile"
	"github.com/spf13/cobra"
)

type textOptions struct {
	transcript string
	file       string
	duration   string
}

func newTextCommand(root *rootOptions) *cobra.Command {
	opts := &textOptions{}

	cmd := &cobra.Command{
		Use:   "text",
		Short: "Score a typed transcript",
		Long: `Score a transcript of a self-introduction.

The transcript comes from --transcript or from a file (--file, "-" for stdin).
Markdown files (.md) are reduced to their plain text first. An empty
transcript is sent as is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.transcript, "transcript", "t", "", "Transcript text")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the transcript from a file (\"-\" for stdin)")
	cmd.Flags().StringVarP(&opts.duration, "duration", "d", "", "Duration in seconds (default from config)")
	cmd.MarkFlagsMutuallyExclusive("transcript", "file")

	return cmd
}

func runText(cmd *cobra.Command, root *rootOptions, opts *textOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	transcript := opts.transcript
	if opts.file != "" {
		transcript, err = transcriptfile.Read(opts.file, cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	duration := durationText(cfg)
	if cmd.Flags().Changed("duration") {
		duration = opts.duration
	}

	ctrl := submit.New(client, submit.WithInput(submit.InputState{
		Transcript: transcript,
		Duration:   duration,
	}))
	return root.runSubmission(cmd, ctrl, submit.KindText, false)
}
