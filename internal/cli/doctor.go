package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meetnotes/internal/output"
	"github.com/johnquangdev/meetnotes/pkg/media"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(deps.Out)
			ok := true

			if path, err := media.NewDecoder(deps.Config.Media.FFmpegPath, "").Available(); err != nil {
				f.SetupCheck("ffmpeg", false, "not found. Install ffmpeg or set FFMPEG_PATH")
				ok = false
			} else {
				f.SetupCheck("ffmpeg", true, path)
			}

			a, err := deps.OpenApp(cmd.Context(), deps.Config, deps.Logger)
			if err != nil {
				f.SetupCheck("application", false, err.Error())
				f.Warning("\nSome prerequisites are missing.")
				return nil
			}
			defer a.Close()

			for _, check := range a.Checks() {
				ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
				err := check.Fn(ctx)
				cancel()
				if err != nil {
					f.SetupCheck(check.Name, false, err.Error())
					ok = false
					continue
				}
				f.SetupCheck(check.Name, true, "reachable")
			}

			if ok {
				f.Success("\nAll prerequisites met. Ready to process meetings!")
			} else {
				f.Warning("\nSome prerequisites are missing.")
			}
			return nil
		},
	}
}
