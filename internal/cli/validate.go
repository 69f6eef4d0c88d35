package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/festy23/trip_publisher/internal/backend"
	"github.com/festy23/trip_publisher/internal/config"
	"github.com/festy23/trip_publisher/internal/upload"
	"github.com/festy23/trip_publisher/internal/wizard/aggregate"
	"github.com/festy23/trip_publisher/internal/wizard/collections"
	"github.com/festy23/trip_publisher/internal/wizard/draftfile"
	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/session"
	"github.com/festy23/trip_publisher/internal/wizard/validate"
)

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a draft against every wizard step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.draftPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			d, err := draftfile.Load(path)
			if err != nil {
				return writeErr(cmd, err)
			}

			reg := validate.New()
			sess := session.New("validate", backend.AnonymousOwner, session.Deps{Registry: reg, Logger: app.logger})
			notices, err := d.Apply(sess)
			if err != nil {
				return writeErr(cmd, err)
			}
			printNotices(cmd, notices)

			draft := sess.Draft()
			errs := aggregate.Check(reg, &draft, aggregate.FullScope())
			errs = aggregate.Aggregate(nil, append(errs, checkAssets(cmd, d, upload.Policies(config.LoadUploadConfigFromEnv()))...))
			if len(errs) > 0 {
				printErrors(cmd, errs)
				return writeErr(cmd, ErrValidationFailed)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "draft is valid")
			return nil
		},
	}
}

// checkAssets applies the declared size and type checks to local asset files.
func checkAssets(cmd *cobra.Command, d *draftfile.Draft, policies map[upload.Kind]upload.Policy) []model.ValidationError {
	var errs []model.ValidationError

	shots, err := d.ScreenshotFiles()
	if err != nil {
		errs = append(errs, model.ValidationError{FieldID: model.FieldScreenshots, Message: err.Error()})
	}
	for _, f := range shots {
		if err := policies[upload.KindImage].CheckDeclared(f.Size, f.ContentType); err != nil {
			errs = append(errs, model.ValidationError{FieldID: model.FieldScreenshots, Message: f.Name + ": " + err.Error()})
		}
	}
	if extra := len(shots) - collections.MaxScreenshots; extra > 0 {
		printNotices(cmd, []model.Notice{{Level: model.NoticeInfo, Message: fmt.Sprintf("%d dropped due to limit", extra)}})
	}

	guide, ok, err := d.GuideFile()
	switch {
	case err != nil:
		errs = append(errs, model.ValidationError{FieldID: model.FieldGuideURL, Message: err.Error()})
	case ok:
		if err := policies[upload.KindPDF].CheckDeclared(guide.Size, guide.ContentType); err != nil {
			errs = append(errs, model.ValidationError{FieldID: model.FieldGuideURL, Message: guide.Name + ": " + err.Error()})
		}
	}
	return errs
}
