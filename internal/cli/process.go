package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meetnotes/internal/app"
	"github.com/johnquangdev/meetnotes/internal/output"
	"github.com/johnquangdev/meetnotes/internal/usecase/meeting"
	"github.com/johnquangdev/meetnotes/pkg/media"
)

func NewProcessCmd(deps *Dependencies) *cobra.Command {
	var title, date, model string
	var noSave bool

	cmd := &cobra.Command{
		Use:   "process FILE",
		Short: "Transcribe and summarize a recording, then save it",
		Long:  "Decode the recording, transcribe it, extract summary, decisions and action items, and save the result as a meeting.\nSupported formats: " + strings.Join(media.SupportedExtensions, ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !media.IsSupportedExtension(path) {
				return fmt.Errorf("unsupported file type %q, expected one of: %s", filepath.Ext(path), strings.Join(media.SupportedExtensions, ", "))
			}
			meetingDate, err := meeting.ParseMeetingDate(date)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			a, err := deps.OpenApp(cmd.Context(), deps.Config, deps.Logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if title == "" {
				title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			return runProcess(cmd.Context(), deps, a, f, filepath.Base(path), title, meetingDate, model, noSave)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Meeting title (defaults to the file name)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Meeting date as YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Summarizer model (defaults to the configured model)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Print the result without saving it")

	return cmd
}

func runProcess(ctx context.Context, deps *Dependencies, a *app.App, r io.Reader, name, title string, meetingDate time.Time, model string, noSave bool) error {
	formatter := output.NewFormatter(deps.Out)

	sess, err := a.Pipeline.Start(ctx)
	if err != nil {
		return err
	}

	formatter.Decoding(name)
	sess, err = a.Pipeline.Run(ctx, sess.ID, r, model)
	if err != nil {
		if sess == nil || !sess.CanBeSaved() || noSave {
			return err
		}
		// The transcript survived a later stage failure; keep it
		formatter.Warning(err.Error())
	} else {
		formatter.RunFinished(sess)
	}
	formatter.Analysis(sess)

	if noSave {
		return nil
	}
	id, err := a.Pipeline.Save(ctx, sess.ID, title, meetingDate)
	if err != nil {
		return err
	}
	formatter.MeetingSaved(id)
	return nil
}
