// Package cli implements the publishctl command line driver of the publishing wizard.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/festy23/trip_publisher/internal/config"
	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/steps"
	"github.com/festy23/trip_publisher/pkg/logger"
)

// ErrValidationFailed is returned when a draft has errors. The message is already printed.
var ErrValidationFailed = errors.New("draft has validation errors")

// App holds flags shared by every command.
type App struct {
	DraftPath string
	LogLevel  string

	logger *zap.SugaredLogger
}

// NewRootCmd builds the publishctl command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "publishctl",
		Short:         "Validate and publish itinerary drafts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Check a draft without touching the API
  publishctl validate -f trip.yaml

  # Upload assets, publish and share to the draft's communities
  publishctl publish -f trip.yaml --api https://api.example.com/api --token $TOKEN
`),
	}

	cmd.PersistentFlags().StringVarP(&app.DraftPath, "file", "f", "", "draft YAML file")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		l, err := logger.NewWithConfig(config.LoggerConfig{Level: app.LogLevel, Format: "console", Output: "stderr"})
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		app.logger = l
		return nil
	}

	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	return cmd
}

func (a *App) draftPath() (string, error) {
	if a.DraftPath == "" {
		return "", errors.New("--file is required")
	}
	return a.DraftPath, nil
}

func printNotices(cmd *cobra.Command, notices []model.Notice) {
	for _, n := range notices {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", n.Level, n.Message)
	}
}

// printErrors writes errors in display order, one per line, grouped by step.
func printErrors(cmd *cobra.Command, errs []model.ValidationError) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d error(s):\n", len(errs))
	for _, e := range errs {
		section, ok := steps.SectionOf(e.FieldID)
		if !ok {
			section = "-"
		}
		fmt.Fprintf(out, "  step %d  %-12s %s: %s\n", steps.StepForField(e.FieldID), section, e.FieldID, e.Message)
	}
}

func writeErr(cmd *cobra.Command, err error) error {
	if !errors.Is(err, ErrValidationFailed) {
		fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	}
	return err
}
