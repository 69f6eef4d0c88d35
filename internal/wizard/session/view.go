package session

import (
	"github.com/festy23/trip_publisher/internal/publish"
	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/steps"
)

var formFieldOrder = []string{
	model.FieldTitle, model.FieldTagline, model.FieldDescription, model.FieldDestination,
	model.FieldStory, model.FieldInspiration, model.FieldHighlights, model.FieldSafetyTips,
	model.FieldVideoURL, model.FieldDurationDays, model.FieldBudget,
}

// View renders the session for the front end.
func (s *Session) View() *model.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := &model.SessionView{
		ID:          s.id,
		State:       string(s.machine.State()),
		Step:        s.step,
		Steps:       steps.Views(),
		Uploading:   s.uploading,
		Fields:      make(map[string]any, len(formFieldOrder)),
		FieldErrors: make(map[string]string, len(s.fieldErrors)),
		Errors:      append([]model.ValidationError{}, s.errs...),
		GuideURL:    s.guideURL,
		PublishedID: s.publishedID,
	}

	for _, name := range formFieldOrder {
		value, _ := s.fields.Get(name)
		v.Fields[name] = value
	}
	for k, msg := range s.fieldErrors {
		v.FieldErrors[k] = msg
	}
	if s.firstError != nil {
		jump := *s.firstError
		v.FirstError = &jump
	}

	switch s.machine.State() {
	case publish.StateSubmitting:
		v.Modal = &model.ModalView{Phase: model.ModalLoading}
	case publish.StateSucceeded:
		v.Modal = &model.ModalView{
			Phase:       model.ModalSuccess,
			PublishedID: s.publishedID,
			Action:      ItineraryPath(s.publishedID),
		}
	}

	v.ActivityTags = append([]string{}, s.tags.Values()...)
	v.Categories = []string{}
	for _, c := range s.categories.Values() {
		v.Categories = append(v.Categories, string(c))
	}
	for _, c := range model.Categories() {
		v.AvailableCategories = append(v.AvailableCategories, string(c))
	}

	v.TeamMembers = []model.MemberView{}
	for i, m := range s.team.Members() {
		switch mv := m.(type) {
		case *model.RegisteredMember:
			v.TeamMembers = append(v.TeamMembers, model.MemberView{
				Index: i, Registered: true, UserID: mv.UserID, Username: mv.Username,
				AvatarURL: mv.AvatarURL, Role: mv.Role,
			})
		case *model.UnregisteredMember:
			v.TeamMembers = append(v.TeamMembers, model.MemberView{Index: i, Name: mv.Name, Role: mv.Role})
		}
	}

	v.Screenshots = []model.AssetView{}
	for i := 0; i < s.screenshots.Len(); i++ {
		a, _ := s.screenshots.Get(i)
		v.Screenshots = append(v.Screenshots, model.AssetView{
			Index: i, URL: a.URL, Name: a.Name, HasPreview: len(a.Preview) > 0,
		})
	}

	v.Communities = append([]string{}, s.communities.Values()...)
	return v
}
