package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meetnotes/internal/app"
	"github.com/johnquangdev/meetnotes/internal/output"
)

func NewExportCmd(deps *Dependencies) *cobra.Command {
	var transcript, publish bool
	var dir string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export a meeting as markdown",
		Long:  "Write meeting_<id>.md into a directory, or publish it to the configured export backend with --publish.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRecords(cmd, deps, func(a *app.App) error {
				formatter := output.NewFormatter(deps.Out)

				if publish {
					location, err := a.Records.Publish(cmd.Context(), id, transcript)
					if err != nil {
						return err
					}
					formatter.Success("Exported to " + location)
					return nil
				}

				doc, err := a.Records.Export(cmd.Context(), id, transcript)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
				path := filepath.Join(dir, doc.FileName)
				if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				formatter.Success("Exported to " + path)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&transcript, "transcript", false, "Include the full transcript")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish to the configured export backend instead of writing locally")
	cmd.Flags().StringVarP(&dir, "out", "o", ".", "Directory to write the export into")
	return cmd
}
