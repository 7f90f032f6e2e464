package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetnotes/internal/app"
	"github.com/johnquangdev/meetnotes/pkg/config"
)

// Opener builds an application for the given config
type Opener func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app.App, error)

type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger
	Out    io.Writer

	// OpenRecords wires only the record store; OpenApp wires the full pipeline
	OpenRecords Opener
	OpenApp     Opener
}

// NewDependencies returns dependencies backed by the real application wiring
func NewDependencies(cfg *config.Config) *Dependencies {
	return &Dependencies{
		Config:      cfg,
		Logger:      zap.NewNop(),
		Out:         os.Stdout,
		OpenRecords: app.NewRecords,
		OpenApp:     app.New,
	}
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "meetnotes",
		Short:         "Transcribe, summarize and track meetings",
		Long:          "A CLI that turns meeting recordings into transcripts, summaries, decisions and tracked action items.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			logger, err := app.NewLogger(deps.Config)
			if err != nil {
				return err
			}
			deps.Logger = logger
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline progress to stderr")

	rootCmd.AddCommand(NewProcessCmd(deps))
	rootCmd.AddCommand(NewListCmd(deps))
	rootCmd.AddCommand(NewShowCmd(deps))
	rootCmd.AddCommand(NewStatusCmd(deps))
	rootCmd.AddCommand(NewDeleteCmd(deps))
	rootCmd.AddCommand(NewExportCmd(deps))
	rootCmd.AddCommand(NewMigrateCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}

// withRecords runs fn against a records-only application and closes it afterwards
func withRecords(cmd *cobra.Command, deps *Dependencies, fn func(a *app.App) error) error {
	a, err := deps.OpenRecords(cmd.Context(), deps.Config, deps.Logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer, got %q", raw)
	}
	return id, nil
}
