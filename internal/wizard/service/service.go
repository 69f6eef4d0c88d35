// Package service provides the wizard session facade used by the HTTP handlers and the CLI.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	statsModel "github.com/festy23/trip_publisher/internal/statistics/model"
	"github.com/festy23/trip_publisher/internal/upload"
	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/session"
)

// Service defines the wizard operations. Every call names the session and its owner.
type Service interface {
	// Create starts a new session for owner.
	Create(ctx context.Context, owner string) (*model.SessionView, error)
	// Get returns the session view.
	Get(ctx context.Context, id, owner string) (*model.SessionView, error)
	// Delete discards the session.
	Delete(ctx context.Context, id, owner string) error

	// SetFields assigns form fields with inline validation.
	SetFields(ctx context.Context, id, owner string, values map[string]any) (*model.ActionResponse, error)
	// AddTags adds comma separated activity tags.
	AddTags(ctx context.Context, id, owner, raw string) (*model.ActionResponse, error)
	// RemoveTag removes one activity tag.
	RemoveTag(ctx context.Context, id, owner, value string) (*model.ActionResponse, error)
	// ToggleCategory flips one category.
	ToggleCategory(ctx context.Context, id, owner, category string) (*model.ActionResponse, error)
	// AddTeamMember adds a travel companion.
	AddTeamMember(ctx context.Context, id, owner string, req model.TeamMemberRequest) (*model.ActionResponse, error)
	// RemoveTeamMember removes a companion by position.
	RemoveTeamMember(ctx context.Context, id, owner string, index int) (*model.ActionResponse, error)
	// UploadScreenshots uploads a batch of screenshots.
	UploadScreenshots(ctx context.Context, id, owner string, files []upload.File) (*model.ActionResponse, error)
	// RemoveScreenshot removes a screenshot by position.
	RemoveScreenshot(ctx context.Context, id, owner string, index int) (*model.ActionResponse, error)
	// Preview returns a screenshot thumbnail.
	Preview(ctx context.Context, id, owner string, index int) ([]byte, error)
	// UploadGuide uploads the PDF travel guide.
	UploadGuide(ctx context.Context, id, owner string, file upload.File) (*model.ActionResponse, error)
	// RemoveGuide clears the travel guide.
	RemoveGuide(ctx context.Context, id, owner string) (*model.ActionResponse, error)
	// ToggleCommunity flips a community selection.
	ToggleCommunity(ctx context.Context, id, owner, slug string) (*model.ActionResponse, error)

	// Next validates the current step and advances.
	Next(ctx context.Context, id, owner string) (*model.ActionResponse, error)
	// Back moves one step back.
	Back(ctx context.Context, id, owner string) (*model.ActionResponse, error)
	// GoTo jumps to a step.
	GoTo(ctx context.Context, id, owner string, step int) (*model.ActionResponse, error)

	// Submit validates the whole draft and publishes it.
	Submit(ctx context.Context, id, owner string) (*model.ActionResponse, error)
	// Dismiss takes the success modal's action.
	Dismiss(ctx context.Context, id, owner string) (*model.DismissResponse, error)

	// Active returns the number of live sessions.
	Active() int
}

type service struct {
	store         *Store
	deps          session.Deps
	submitTimeout time.Duration
	logger        *zap.SugaredLogger
}

// New creates a new wizard service instance.
func New(store *Store, deps session.Deps, submitTimeout time.Duration, logger *zap.SugaredLogger) Service {
	if deps.Logger == nil {
		deps.Logger = logger
	}
	if submitTimeout <= 0 {
		submitTimeout = time.Minute
	}
	return &service{
		store:         store,
		deps:          deps,
		submitTimeout: submitTimeout,
		logger:        logger,
	}
}

func (s *service) respond(sess *session.Session, notices []model.Notice) *model.ActionResponse {
	if notices == nil {
		notices = []model.Notice{}
	}
	return &model.ActionResponse{Session: sess.View(), Notices: notices}
}

// Create starts a new session for owner.
func (s *service) Create(ctx context.Context, owner string) (*model.SessionView, error) {
	sess := session.New(uuid.NewString(), owner, s.deps)
	s.store.Put(sess)
	if s.deps.Recorder != nil {
		s.deps.Recorder.Record(ctx, statsModel.EventSessionCreated, 1)
	}

	s.logger.Infow("Wizard session created", "session_id", sess.ID(), "owner", owner)
	return sess.View(), nil
}

// Get returns the session view.
func (s *service) Get(_ context.Context, id, owner string) (*model.SessionView, error) {
	sess, err := s.store.Get(id, owner)
	if err != nil {
		return nil, err
	}
	return sess.View(), nil
}

// Delete discards the session.
func (s *service) Delete(_ context.Context, id, owner string) error {
	if err := s.store.Delete(id, owner); err != nil {
		return err
	}
	s.logger.Infow("Wizard session discarded", "session_id", id)
	return nil
}

// mutate runs fn on the owner's session and wraps the result.
func (s *service) mutate(id, owner string, fn func(*session.Session) ([]model.Notice, error)) (*model.ActionResponse, error) {
	sess, err := s.store.Get(id, owner)
	if err != nil {
		return nil, err
	}
	notices, err := fn(sess)
	if err != nil {
		return nil, err
	}
	return s.respond(sess, notices), nil
}

func noNotices(err error) ([]model.Notice, error) {
	return nil, err
}

// SetFields assigns form fields with inline validation.
func (s *service) SetFields(_ context.Context, id, owner string, values map[string]any) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return noNotices(sess.SetFields(values))
	})
}

// AddTags adds comma separated activity tags.
func (s *service) AddTags(_ context.Context, id, owner, raw string) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return sess.AddTags(raw)
	})
}

// RemoveTag removes one activity tag.
func (s *service) RemoveTag(_ context.Context, id, owner, value string) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return noNotices(sess.RemoveTag(value))
	})
}

// ToggleCategory flips one category.
func (s *service) ToggleCategory(_ context.Context, id, owner, category string) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return noNotices(sess.ToggleCategory(category))
	})
}

// AddTeamMember adds a travel companion.
func (s *service) AddTeamMember(_ context.Context, id, owner string, req model.TeamMemberRequest) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return sess.AddTeamMember(req)
	})
}

// RemoveTeamMember removes a companion by position.
func (s *service) RemoveTeamMember(_ context.Context, id, owner string, index int) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return noNotices(sess.RemoveTeamMember(index))
	})
}

// UploadScreenshots uploads a batch of screenshots. The batch outlives a client disconnect.
func (s *service) UploadScreenshots(ctx context.Context, id, owner string, files []upload.File) (*model.ActionResponse, error) {
	ctx = context.WithoutCancel(ctx)
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return sess.UploadScreenshots(ctx, files)
	})
}

// RemoveScreenshot removes a screenshot by position.
func (s *service) RemoveScreenshot(_ context.Context, id, owner string, index int) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return noNotices(sess.RemoveScreenshot(index))
	})
}

// Preview returns a screenshot thumbnail.
func (s *service) Preview(_ context.Context, id, owner string, index int) ([]byte, error) {
	sess, err := s.store.Get(id, owner)
	if err != nil {
		return nil, err
	}
	preview, ok := sess.Preview(index)
	if !ok {
		return nil, model.ErrIndexOutOfRange
	}
	return preview, nil
}

// UploadGuide uploads the PDF travel guide.
func (s *service) UploadGuide(ctx context.Context, id, owner string, file upload.File) (*model.ActionResponse, error) {
	ctx = context.WithoutCancel(ctx)
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return sess.UploadGuide(ctx, file)
	})
}

// RemoveGuide clears the travel guide.
func (s *service) RemoveGuide(_ context.Context, id, owner string) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return noNotices(sess.RemoveGuide())
	})
}

// ToggleCommunity flips a community selection.
func (s *service) ToggleCommunity(_ context.Context, id, owner, slug string) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return sess.ToggleCommunity(slug)
	})
}

// Next validates the current step and advances.
func (s *service) Next(_ context.Context, id, owner string) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return sess.Next()
	})
}

// Back moves one step back.
func (s *service) Back(_ context.Context, id, owner string) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return noNotices(sess.Back())
	})
}

// GoTo jumps to a step.
func (s *service) GoTo(_ context.Context, id, owner string, step int) (*model.ActionResponse, error) {
	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return sess.GoTo(step)
	})
}

// Submit validates the whole draft and publishes it. The submission runs on a context
// detached from the caller so in-flight backend requests complete.
func (s *service) Submit(ctx context.Context, id, owner string) (*model.ActionResponse, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.submitTimeout)
	defer cancel()

	return s.mutate(id, owner, func(sess *session.Session) ([]model.Notice, error) {
		return sess.Submit(ctx)
	})
}

// Dismiss takes the success modal's action.
func (s *service) Dismiss(_ context.Context, id, owner string) (*model.DismissResponse, error) {
	sess, err := s.store.Get(id, owner)
	if err != nil {
		return nil, err
	}
	publishedID, redirect, err := sess.Dismiss()
	if err != nil {
		return nil, err
	}
	return &model.DismissResponse{
		PublishedID: publishedID,
		Redirect:    redirect,
		Session:     sess.View(),
	}, nil
}

// Active returns the number of live sessions.
func (s *service) Active() int {
	return s.store.Len()
}
