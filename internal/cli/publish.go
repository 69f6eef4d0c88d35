package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/festy23/trip_publisher/internal/backend"
	"github.com/festy23/trip_publisher/internal/config"
	"github.com/festy23/trip_publisher/internal/publish"
	"github.com/festy23/trip_publisher/internal/upload"
	"github.com/festy23/trip_publisher/internal/wizard/draftfile"
	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/session"
	"github.com/festy23/trip_publisher/pkg/logger"
)

// ErrPublishFailed is returned when the backend rejected the draft.
var ErrPublishFailed = errors.New("publish failed")

// capturingPublisher keeps the last result so fan-out outcomes can be reported.
type capturingPublisher struct {
	next session.Publisher

	mu   sync.Mutex
	last *publish.Result
}

func (p *capturingPublisher) Publish(ctx context.Context, payload *model.Payload, communities []string) (*publish.Result, error) {
	res, err := p.next.Publish(ctx, payload, communities)
	p.mu.Lock()
	p.last = res
	p.mu.Unlock()
	return res, err
}

func (p *capturingPublisher) result() *publish.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func newPublishCmd(app *App) *cobra.Command {
	var (
		apiURL  string
		token   string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload a draft's assets, publish it and share it to its communities",
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

			backendCfg := config.LoadBackendConfigFromEnv()
			if apiURL != "" {
				backendCfg.BaseURL = apiURL
			}
			if err := backendCfg.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			publishCfg := config.LoadPublishConfigFromEnv()
			if err := publishCfg.Validate(); err != nil {
				return writeErr(cmd, err)
			}

			client := backend.New(backendCfg, backend.StaticToken(token), logger.Named(app.logger, "backend"))
			pub := &capturingPublisher{
				next: publish.NewPublisher(client, publishCfg.FanOutConcurrency, logger.Named(app.logger, "publish")),
			}
			sess := session.New("publishctl", backend.OwnerFromToken(token), session.Deps{
				Uploader:  upload.New(client, config.LoadUploadConfigFromEnv(), logger.Named(app.logger, "upload")),
				Publisher: pub,
				Logger:    app.logger,
			})
			defer sess.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return runPublish(ctx, cmd, d, sess, pub)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (default $BACKEND_BASE_URL)")
	cmd.Flags().StringVar(&token, "token", config.GetEnv("PUBLISH_TOKEN", ""), "bearer token (default $PUBLISH_TOKEN)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall deadline for uploads and publishing")
	return cmd
}

func runPublish(ctx context.Context, cmd *cobra.Command, d *draftfile.Draft, sess *session.Session, pub *capturingPublisher) error {
	notices, err := d.Apply(sess)
	if err != nil {
		return writeErr(cmd, err)
	}
	printNotices(cmd, notices)

	shots, err := d.ScreenshotFiles()
	if err != nil {
		return writeErr(cmd, err)
	}
	if len(shots) > 0 {
		notices, err := sess.UploadScreenshots(ctx, shots)
		if err != nil {
			return writeErr(cmd, err)
		}
		printNotices(cmd, notices)
	}

	guide, ok, err := d.GuideFile()
	if err != nil {
		return writeErr(cmd, err)
	}
	if ok {
		notices, err := sess.UploadGuide(ctx, guide)
		if err != nil {
			return writeErr(cmd, err)
		}
		printNotices(cmd, notices)
	}

	notices, err = sess.Submit(ctx)
	if err != nil {
		return writeErr(cmd, err)
	}
	printNotices(cmd, notices)

	if sess.State() != publish.StateSucceeded {
		view := sess.View()
		if len(view.Errors) > 0 {
			printErrors(cmd, view.Errors)
			return writeErr(cmd, ErrValidationFailed)
		}
		return writeErr(cmd, ErrPublishFailed)
	}

	id, redirect, err := sess.Dismiss()
	if err != nil {
		return writeErr(cmd, err)
	}

	out := cmd.OutOrStdout()
	if id == "" {
		fmt.Fprintln(out, "published, but the backend returned no id")
	} else {
		fmt.Fprintf(out, "published %s (%s)\n", id, redirect)
	}
	if res := pub.result(); res != nil && len(d.Communities) > 0 {
		fmt.Fprintf(out, "shared to %d of %d communities\n", len(res.Attached), len(res.Attached)+len(res.FanOutFailures))
		for _, f := range res.FanOutFailures {
			fmt.Fprintf(out, "  %s: %v\n", f.Slug, f.Err)
		}
	}
	return nil
}
