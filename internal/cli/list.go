package cli

import (
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meetnotes/internal/app"
	"github.com/johnquangdev/meetnotes/internal/output"
)

func NewListCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved meetings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecords(cmd, deps, func(a *app.App) error {
				formatter := output.NewFormatter(deps.Out)

				items, err := a.Records.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(items) == 0 {
					formatter.Info("No meetings found")
					return nil
				}

				formatter.MeetingListHeader()
				for _, it := range items {
					formatter.MeetingListItem(it)
				}
				return nil
			})
		},
	}
}

func NewShowCmd(deps *Dependencies) *cobra.Command {
	var transcript bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a saved meeting with its action items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRecords(cmd, deps, func(a *app.App) error {
				doc, err := a.Records.Export(cmd.Context(), id, transcript)
				if err != nil {
					return err
				}
				output.NewFormatter(deps.Out).Document(doc.Content)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&transcript, "transcript", false, "Include the full transcript")
	return cmd
}
