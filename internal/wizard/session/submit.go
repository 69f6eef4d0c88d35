package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/festy23/trip_publisher/internal/publish"
	statsModel "github.com/festy23/trip_publisher/internal/statistics/model"
	"github.com/festy23/trip_publisher/internal/wizard/aggregate"
	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// ItineraryPath is the front-end route of a published itinerary, or "" when the
// backend returned no id.
func ItineraryPath(id string) string {
	if id == "" {
		return ""
	}
	return "/itineraries/" + id
}

// Submit validates the whole draft and, when it is clean, publishes it.
// The lock is released during the network call so views show the loading modal.
func (s *Session) Submit(ctx context.Context) ([]model.Notice, error) {
	payload, communities, notices, err := s.beginSubmit(ctx)
	if err != nil || payload == nil {
		return notices, err
	}

	res, pubErr := s.deps.Publisher.Publish(ctx, payload, communities)

	s.mu.Lock()
	defer s.mu.Unlock()

	if pubErr != nil {
		return s.failSubmit(ctx, pubErr), nil
	}

	if _, err := s.machine.Fire(publish.EventCreateSucceeded); err != nil {
		return nil, err
	}
	s.publishedID = res.PublishedID
	s.reset()
	s.record(ctx, statsModel.EventPublished, 1)
	s.record(ctx, statsModel.EventFanOutFailed, len(res.FanOutFailures))
	s.deps.Logger.Infow("Draft published", "session_id", s.id, "itinerary_id", res.PublishedID)

	if res.PublishedID == "" {
		return []model.Notice{{Level: model.NoticeSuccess, Message: "Itinerary published, but no id was returned"}}, nil
	}
	return []model.Notice{{Level: model.NoticeSuccess, Message: "Itinerary published"}}, nil
}

// beginSubmit runs whole-form validation under the lock. A nil payload with a nil error
// means validation blocked the submission.
func (s *Session) beginSubmit(ctx context.Context) (*model.Payload, []string, []model.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.uploading:
		return nil, nil, nil, model.ErrUploadInProgress
	case s.machine.State() == publish.StateSucceeded:
		return nil, nil, nil, model.ErrPublished
	case !s.machine.Can(publish.EventSubmit):
		return nil, nil, nil, model.ErrBusy
	}
	if _, err := s.machine.Fire(publish.EventSubmit); err != nil {
		return nil, nil, nil, err
	}
	s.touchedAt = time.Now()
	s.record(ctx, statsModel.EventSubmission, 1)

	d := s.draft()
	if errs := aggregate.Check(s.deps.Registry, &d, aggregate.FullScope()); len(errs) > 0 {
		_, _ = s.machine.Fire(publish.EventValidationFailed)
		s.setErrors(errs)
		s.step = s.firstError.Step
		s.record(ctx, statsModel.EventValidationBlocked, 1)
		return nil, nil, []model.Notice{{
			Level:   model.NoticeError,
			Message: fmt.Sprintf("Please fix %d error(s) before publishing", len(errs)),
		}}, nil
	}

	if _, err := s.machine.Fire(publish.EventValidationPassed); err != nil {
		return nil, nil, nil, err
	}
	s.setErrors(nil)
	return publish.BuildPayload(&d), d.Communities, nil, nil
}

// failSubmit maps a create failure onto sections where possible. Caller holds mu.
func (s *Session) failSubmit(ctx context.Context, err error) []model.Notice {
	_, _ = s.machine.Fire(publish.EventCreateFailed)
	s.record(ctx, statsModel.EventPublishFailed, 1)
	s.deps.Logger.Warnw("Publish failed", "session_id", s.id, "error", err)

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		if mapped := publish.MapServerErrors(apiErr); len(mapped) > 0 {
			s.setErrors(mapped)
			s.step = s.firstError.Step
			return []model.Notice{{
				Level:   model.NoticeError,
				Message: fmt.Sprintf("The server rejected %d field(s); please review and resubmit", len(mapped)),
			}}
		}
	}
	return []model.Notice{{Level: model.NoticeError, Message: "Publishing failed, please try again"}}
}

// Dismiss takes the success modal's action: it returns the published id and the
// route to navigate to, and puts the session back to idle.
func (s *Session) Dismiss() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine.State() != publish.StateSucceeded {
		return "", "", model.ErrNotPublished
	}
	if _, err := s.machine.Fire(publish.EventDismiss); err != nil {
		return "", "", err
	}
	id := s.publishedID
	s.publishedID = ""
	s.touchedAt = time.Now()
	return id, ItineraryPath(id), nil
}

// State returns the submission state.
func (s *Session) State() publish.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}
