package model

// ValidationError is one failed field or business rule.
type ValidationError struct {
	FieldID string `json:"field_id"`
	Message string `json:"message"`
}

// Jump tells the front end where to scroll for the first error.
type Jump struct {
	FieldID string `json:"field_id"`
	Section string `json:"section"`
	Step    int    `json:"step"`
}

// NoticeLevel classifies a transient notification.
type NoticeLevel string

// Notice levels.
const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a toast-style notification produced by a wizard action.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Payload is the body of POST /itineraries. Absent values are omitted, never null.
type Payload struct {
	Title        string          `json:"title,omitempty" yaml:"title,omitempty"`
	Tagline      string          `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Description  string          `json:"description,omitempty" yaml:"description,omitempty"`
	Destination  string          `json:"destination,omitempty" yaml:"destination,omitempty"`
	Story        string          `json:"story,omitempty" yaml:"story,omitempty"`
	Inspiration  string          `json:"inspiration,omitempty" yaml:"inspiration,omitempty"`
	Highlights   string          `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	SafetyTips   string          `json:"safety_tips,omitempty" yaml:"safety_tips,omitempty"`
	VideoURL     string          `json:"video_url,omitempty" yaml:"video_url,omitempty"`
	DurationDays *int            `json:"duration_days,omitempty" yaml:"duration_days,omitempty"`
	Budget       *int            `json:"budget,omitempty" yaml:"budget,omitempty"`
	ActivityTags []string        `json:"activity_tags,omitempty" yaml:"activity_tags,omitempty"`
	Categories   []string        `json:"categories,omitempty" yaml:"categories,omitempty"`
	TeamMembers  []PayloadMember `json:"team_members,omitempty" yaml:"team_members,omitempty"`
	Screenshots  []string        `json:"screenshots,omitempty" yaml:"screenshots,omitempty"`
	GuideURL     string          `json:"guide_url,omitempty" yaml:"guide_url,omitempty"`
}

// PayloadMember is the wire form of a team member.
// Registered entries carry user_id; unregistered entries carry name.
type PayloadMember struct {
	UserID    string `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Role      string `json:"role" yaml:"role"`
}

// AttachRequest is the body of POST /communities/{slug}/itineraries.
type AttachRequest struct {
	ItineraryID string `json:"itinerary_id"`
}

// StepView describes one wizard step.
type StepView struct {
	Index    int      `json:"index"`
	Label    string   `json:"label"`
	Sections []string `json:"sections"`
}

// ModalPhase is the phase of the publish modal.
type ModalPhase string

// Modal phases.
const (
	ModalLoading ModalPhase = "loading"
	ModalSuccess ModalPhase = "success"
)

// ModalView is the blocking publish modal.
type ModalView struct {
	Phase       ModalPhase `json:"phase"`
	PublishedID string     `json:"published_id,omitempty"`
	Action      string     `json:"action,omitempty"`
}

// MemberView is the display form of a team member.
type MemberView struct {
	Index      int    `json:"index"`
	Registered bool   `json:"registered"`
	UserID     string `json:"user_id,omitempty"`
	Username   string `json:"username,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
}

// AssetView is the display form of an uploaded screenshot.
type AssetView struct {
	Index      int    `json:"index"`
	URL        string `json:"url"`
	Name       string `json:"name,omitempty"`
	HasPreview bool   `json:"has_preview"`
}

// SessionView is the full wizard state returned to the front end.
type SessionView struct {
	ID                  string            `json:"session_id"`
	State               string            `json:"state"`
	Step                int               `json:"step"`
	Steps               []StepView        `json:"steps"`
	Uploading           bool              `json:"uploading"`
	Modal               *ModalView        `json:"modal,omitempty"`
	Fields              map[string]any    `json:"fields"`
	FieldErrors         map[string]string `json:"field_errors"`
	Errors              []ValidationError `json:"errors"`
	FirstError          *Jump             `json:"first_error,omitempty"`
	ActivityTags        []string          `json:"activity_tags"`
	Categories          []string          `json:"categories"`
	AvailableCategories []string          `json:"available_categories"`
	TeamMembers         []MemberView      `json:"team_members"`
	Screenshots         []AssetView       `json:"screenshots"`
	GuideURL            string            `json:"guide_url,omitempty"`
	Communities         []string          `json:"communities"`
	PublishedID         string            `json:"published_id,omitempty"`
}

// ActionResponse is returned by every mutating wizard endpoint.
type ActionResponse struct {
	Session *SessionView `json:"session"`
	Notices []Notice     `json:"notices"`
}

// DismissResponse is returned when the success modal's action is taken.
type DismissResponse struct {
	PublishedID string       `json:"published_id"`
	Redirect    string       `json:"redirect"`
	Session     *SessionView `json:"session"`
}

// TagsRequest adds comma separated activity tags.
type TagsRequest struct {
	Raw string `json:"raw" binding:"required"`
}

// CategoryRequest toggles a category.
type CategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// CommunityRequest toggles a community selection.
type CommunityRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// StepRequest jumps to a step.
type StepRequest struct {
	Step int `json:"step" binding:"required"`
}

// Member kinds accepted by TeamMemberRequest.
const (
	MemberKindRegistered   = "registered"
	MemberKindUnregistered = "unregistered"
)

// TeamMemberRequest adds a team member. Registered members identify a user;
// unregistered ones carry only a name.
type TeamMemberRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=registered unregistered"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	// Avatar is the legacy spelling of AvatarURL sent by older clients.
	Avatar string `json:"avatar"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// ToUser maps the request onto the canonical User shape.
func (r TeamMemberRequest) ToUser() User {
	avatar := r.AvatarURL
	if avatar == "" {
		avatar = r.Avatar
	}
	return User{ID: r.UserID, Username: r.Username, AvatarURL: avatar}
}
