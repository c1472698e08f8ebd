package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nirmaan/scorer/internal/display"
	"github.com/nirmaan/scorer/internal/submit"
	"github.com/nirmaan/scorer/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runSubmission submits through ctrl and reports the settled state. The
// progress indicator is only drawn when stderr is a terminal.
func (o *rootOptions) runSubmission(cmd *cobra.Command, ctrl *submit.Controller, mode submit.Kind, summary bool) error {
	defer ctrl.OnChange(utils.StateToSlog)()

	if errOut := cmd.ErrOrStderr(); isTerminal(errOut) {
		progress := display.NewProgress(errOut)
		unregister := ctrl.OnChange(progress.Update)
		defer func() {
			unregister()
			progress.Close()
		}()
	}

	var st submit.State
	if mode == submit.KindAudio {
		st = ctrl.SubmitAudio(cmd.Context())
	} else {
		st = ctrl.SubmitText(cmd.Context())
	}
	return o.report(cmd.OutOrStdout(), st, summary)
}

// report writes a succeeded state to w and converts a failed one into a
// SubmissionFailedError.
func (o *rootOptions) report(w io.Writer, st submit.State, summary bool) error {
	if st.Err != "" {
		return &SubmissionFailedError{Message: st.Err}
	}
	if st.Result == nil {
		return fmt.Errorf("submission did not settle (status %s)", st.Status)
	}

	if o.output != "" {
		out, err := display.JSON(st.Result)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.output, append(out, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
	}

	if o.jsonOut {
		out, err := display.JSON(st.Result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	}

	if err := display.Result(w, st); err != nil {
		return err
	}
	if summary && st.Result.Kind == submit.KindAudio {
		fmt.Fprintln(w) //nolint:errcheck
		if err := display.WriteAudioSummary(w, st.Result); err != nil {
			slog.Debug("Skipping audio summary", "error", err)
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
