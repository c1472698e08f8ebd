package main

import (
	"log/slog"

	"github.com/nirmaan/scorer/internal/audiosource"
	"github.com/nirmaan/scorer/internal/submit"
	"github.com/nirmaan/scorer/internal/wizard"
	"github.com/spf13/cobra"
)

func newInteractiveCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Fill in a form, submit it and show the result",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			ctrl := submit.New(client, submit.WithInput(submit.InputState{Duration: durationText(cfg)}))
			opener := audiosource.NewOpener(audiosource.WithLogger(slog.Default()))

			mode, err := wizard.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), ctrl, opener)
			if err != nil {
				return err
			}
			return root.runSubmission(cmd, ctrl, mode, *cfg.Defaults.Summary)
		},
	}
}
