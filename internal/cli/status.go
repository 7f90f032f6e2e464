package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meetnotes/internal/app"
	"github.com/johnquangdev/meetnotes/internal/domain/entities"
	"github.com/johnquangdev/meetnotes/internal/output"
)

func NewStatusCmd(deps *Dependencies) *cobra.Command {
	names := make([]string, len(entities.ActionItemStatuses))
	for i, s := range entities.ActionItemStatuses {
		names[i] = string(s)
	}

	return &cobra.Command{
		Use:       "status ACTION_ID STATUS",
		Short:     "Set the status of an action item",
		Long:      "Set the status of an action item. STATUS is one of: " + strings.Join(names, ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRecords(cmd, deps, func(a *app.App) error {
				status, err := a.Records.UpdateActionStatus(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				output.NewFormatter(deps.Out).Success(fmt.Sprintf("Action #%d is now %s", id, status))
				return nil
			})
		},
	}
}

func NewDeleteCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a meeting and all of its action items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRecords(cmd, deps, func(a *app.App) error {
				if err := a.Records.Delete(cmd.Context(), id); err != nil {
					return err
				}
				output.NewFormatter(deps.Out).Success(fmt.Sprintf("Meeting #%d deleted", id))
				return nil
			})
		},
	}
}
