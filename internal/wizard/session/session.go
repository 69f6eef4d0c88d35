// Package session holds one wizard session: the draft, its collections, the step cursor,
// the error state and the submission machine. All methods are safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/trip_publisher/internal/publish"
	statsModel "github.com/festy23/trip_publisher/internal/statistics/model"
	"github.com/festy23/trip_publisher/internal/upload"
	"github.com/festy23/trip_publisher/internal/wizard/aggregate"
	"github.com/festy23/trip_publisher/internal/wizard/collections"
	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/steps"
	"github.com/festy23/trip_publisher/internal/wizard/validate"
)

// Uploader runs one upload batch.
type Uploader interface {
	UploadMany(ctx context.Context, kind upload.Kind, files []upload.File, remaining int) *upload.Result
}

// Publisher submits a payload and fans out to communities.
type Publisher interface {
	Publish(ctx context.Context, payload *model.Payload, communities []string) (*publish.Result, error)
}

// Recorder counts publishing events.
type Recorder interface {
	Record(ctx context.Context, event statsModel.Event, n int)
}

// Deps are the collaborators shared by every session.
type Deps struct {
	Registry  *validate.Registry
	Uploader  Uploader
	Publisher Publisher
	Recorder  Recorder
	Logger    *zap.SugaredLogger
}

// Session is one user's publish attempt.
type Session struct {
	id    string
	owner string
	deps  Deps

	mu          sync.Mutex
	touchedAt   time.Time
	step        int
	fields      model.Fields
	fieldErrors map[string]string
	errs        []model.ValidationError
	firstError  *model.Jump
	tags        collections.Tags
	categories  collections.Categories
	team        collections.Team
	screenshots *collections.Assets
	guideURL    string
	communities collections.Communities
	machine     *publish.Machine
	uploading   bool
	publishedID string
}

// New creates an empty session on step 1.
func New(id, owner string, deps Deps) *Session {
	if deps.Registry == nil {
		deps.Registry = validate.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	return &Session{
		id:          id,
		owner:       owner,
		deps:        deps,
		touchedAt:   time.Now(),
		step:        1,
		fieldErrors: map[string]string{},
		screenshots: collections.NewAssets(collections.MaxScreenshots),
		machine:     publish.NewMachine(),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Owner returns the owning user key.
func (s *Session) Owner() string { return s.owner }

// TouchedAt returns the time of the last access.
func (s *Session) TouchedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// Touch marks the session as used.
func (s *Session) Touch() {
	s.mu.Lock()
	s.touchedAt = time.Now()
	s.mu.Unlock()
}

// Close releases local asset handles.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenshots.Reset()
}

// Idle reports whether the session has nothing in flight and may be evicted.
func (s *Session) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.uploading && !s.machine.Busy()
}

func (s *Session) record(ctx context.Context, event statsModel.Event, n int) {
	if s.deps.Recorder != nil {
		s.deps.Recorder.Record(ctx, event, n)
	}
}

// editable guards every draft mutation. Caller holds mu.
func (s *Session) editable() error {
	switch {
	case s.machine.Busy():
		return model.ErrBusy
	case s.machine.State() == publish.StateSucceeded:
		return model.ErrPublished
	}
	s.touchedAt = time.Now()
	return nil
}

// SetFields assigns form fields and validates each one inline. Unknown names
// reject the whole request before anything changes.
func (s *Session) SetFields(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}

	next := s.fields
	for name, raw := range values {
		if !model.IsFormField(name) {
			return fmt.Errorf("%w: %s", model.ErrUnknownField, name)
		}
		if err := next.Set(name, raw); err != nil {
			return err
		}
	}
	s.fields = next

	for name := range values {
		value, _ := s.fields.Get(name)
		if fe := s.deps.Registry.ValidateField(name, value); fe != nil {
			s.fieldErrors[name] = fe.Message
			continue
		}
		s.clearErrors(name)
	}
	return nil
}

// clearErrors drops every error routed to field (nested keys included). Caller holds mu.
func (s *Session) clearErrors(field string) {
	delete(s.fieldErrors, field)
	kept := s.errs[:0]
	for _, e := range s.errs {
		if steps.RootField(e.FieldID) != field {
			kept = append(kept, e)
		} else if e.FieldID != field {
			delete(s.fieldErrors, e.FieldID)
		}
	}
	s.errs = kept
	s.firstError = aggregate.First(s.errs)
}

// setErrors replaces the aggregated error list. Caller holds mu.
func (s *Session) setErrors(errs []model.ValidationError) {
	s.errs = errs
	s.fieldErrors = aggregate.ByField(errs)
	s.firstError = aggregate.First(errs)
}

// AddTags adds comma separated tags.
func (s *Session) AddTags(raw string) ([]model.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return nil, err
	}

	added := s.tags.Add(raw)
	if len(added) == 0 {
		return []model.Notice{{Level: model.NoticeInfo, Message: "No new tags added"}}, nil
	}
	s.clearErrors(model.FieldActivityTags)
	return nil, nil
}

// RemoveTag removes a tag by exact value.
func (s *Session) RemoveTag(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.tags.Remove(value)
	return nil
}

// ToggleCategory flips one category.
func (s *Session) ToggleCategory(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	selected, err := s.categories.Toggle(value)
	if err != nil {
		return err
	}
	if selected {
		s.clearErrors(model.FieldCategories)
	}
	return nil
}

// AddTeamMember adds a registered or unregistered companion. Duplicates and
// missing names become warnings, not errors.
func (s *Session) AddTeamMember(req model.TeamMemberRequest) ([]model.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return nil, err
	}

	var err error
	switch req.Kind {
	case model.MemberKindRegistered:
		err = s.team.AddRegistered(req.ToUser(), req.Role)
	case model.MemberKindUnregistered:
		err = s.team.AddUnregistered(req.Name, req.Role)
	default:
		return nil, fmt.Errorf("%w: member kind %q", model.ErrInvalidFieldValue, req.Kind)
	}

	switch {
	case err == nil:
		s.clearErrors(model.FieldTeamMembers)
		return nil, nil
	case errors.Is(err, model.ErrDuplicateMember),
		errors.Is(err, model.ErrMemberNameRequired),
		errors.Is(err, model.ErrMemberIDRequired):
		return []model.Notice{{Level: model.NoticeWarning, Message: err.Error()}}, nil
	default:
		return nil, err
	}
}

// RemoveTeamMember removes the member at index.
func (s *Session) RemoveTeamMember(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	return s.team.Remove(index)
}

// ToggleCommunity flips a community selection. Hitting the cap is a warning.
func (s *Session) ToggleCommunity(slug string) ([]model.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return nil, err
	}
	_, err := s.communities.Toggle(slug)
	if errors.Is(err, model.ErrCommunityLimit) {
		return []model.Notice{{
			Level:   model.NoticeWarning,
			Message: fmt.Sprintf("You can share to at most %d communities", collections.MaxCommunities),
		}}, nil
	}
	return nil, err
}

// Draft returns a snapshot of the draft.
func (s *Session) Draft() model.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft()
}

func (s *Session) draft() model.Draft {
	fields := s.fields
	if fields.DurationDays != nil {
		v := *fields.DurationDays
		fields.DurationDays = &v
	}
	if fields.Budget != nil {
		v := *fields.Budget
		fields.Budget = &v
	}
	return model.Draft{
		Fields:       fields,
		ActivityTags: s.tags.Values(),
		Categories:   s.categories.Values(),
		TeamMembers:  s.team.Members(),
		Screenshots:  s.screenshots.URLs(),
		GuideURL:     s.guideURL,
		Communities:  s.communities.Values(),
	}
}

// reset discards the draft after a successful publish. Caller holds mu.
func (s *Session) reset() {
	s.fields = model.Fields{}
	s.tags.Reset()
	s.categories.Reset()
	s.team.Reset()
	s.screenshots.Reset()
	s.guideURL = ""
	s.communities.Reset()
	s.setErrors(nil)
	s.step = 1
}
