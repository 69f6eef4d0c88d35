// Package draftfile loads an itinerary draft from YAML and replays it onto a wizard session.
package draftfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"gopkg.in/yaml.v3"

	"github.com/festy23/trip_publisher/internal/upload"
	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// ErrEmptyDraft indicates a YAML document without any content.
var ErrEmptyDraft = errors.New("draft file is empty")

// Member is one travel companion as written in the draft file.
type Member struct {
	Kind      string `yaml:"kind"`
	UserID    string `yaml:"user_id"`
	Username  string `yaml:"username"`
	AvatarURL string `yaml:"avatar_url"`
	Name      string `yaml:"name"`
	Role      string `yaml:"role"`
}

// Request converts the member to the wizard's add request. Kind defaults from the presence of user_id.
func (m Member) Request() model.TeamMemberRequest {
	kind := m.Kind
	if kind == "" {
		kind = model.MemberKindUnregistered
		if m.UserID != "" {
			kind = model.MemberKindRegistered
		}
	}
	return model.TeamMemberRequest{
		Kind:      kind,
		UserID:    m.UserID,
		Username:  m.Username,
		AvatarURL: m.AvatarURL,
		Name:      m.Name,
		Role:      m.Role,
	}
}

// Draft is the on-disk form of an itinerary draft.
type Draft struct {
	Fields       map[string]any `yaml:"fields"`
	Categories   []string       `yaml:"categories"`
	ActivityTags []string       `yaml:"activity_tags"`
	Team         []Member       `yaml:"team"`
	Communities  []string       `yaml:"communities"`
	Screenshots  []string       `yaml:"screenshots"`
	Guide        string         `yaml:"guide"`

	dir string
}

// Load reads a draft file. Relative asset paths resolve against the file's directory.
func Load(path string) (*Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open draft: %w", err)
	}
	defer f.Close()

	return Parse(f, filepath.Dir(path))
}

// Parse decodes a draft from r. Unknown keys are rejected.
func Parse(r io.Reader, dir string) (*Draft, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Draft
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDraft
		}
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	d.dir = dir
	return &d, nil
}

// Target is the subset of a wizard session a draft is replayed onto.
type Target interface {
	SetFields(values map[string]any) error
	AddTags(raw string) ([]model.Notice, error)
	ToggleCategory(value string) error
	AddTeamMember(req model.TeamMemberRequest) ([]model.Notice, error)
	ToggleCommunity(slug string) ([]model.Notice, error)
}

// Apply replays fields and collections onto t. Assets are not touched.
func (d *Draft) Apply(t Target) ([]model.Notice, error) {
	var notices []model.Notice

	if len(d.Fields) > 0 {
		if err := t.SetFields(d.Fields); err != nil {
			return notices, err
		}
	}
	if len(d.ActivityTags) > 0 {
		n, err := t.AddTags(strings.Join(d.ActivityTags, ","))
		if err != nil {
			return notices, err
		}
		notices = append(notices, n...)
	}
	for _, c := range d.Categories {
		if err := t.ToggleCategory(c); err != nil {
			return notices, err
		}
	}
	for _, m := range d.Team {
		n, err := t.AddTeamMember(m.Request())
		if err != nil {
			return notices, err
		}
		notices = append(notices, n...)
	}
	for _, slug := range d.Communities {
		n, err := t.ToggleCommunity(slug)
		if err != nil {
			return notices, err
		}
		notices = append(notices, n...)
	}
	return notices, nil
}

// ScreenshotFiles opens descriptors for the draft's screenshots.
func (d *Draft) ScreenshotFiles() ([]upload.File, error) {
	files := make([]upload.File, 0, len(d.Screenshots))
	for _, p := range d.Screenshots {
		f, err := LocalFile(d.resolve(p))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// GuideFile returns the travel guide descriptor, or false when the draft has none.
func (d *Draft) GuideFile() (upload.File, bool, error) {
	if d.Guide == "" {
		return upload.File{}, false, nil
	}
	f, err := LocalFile(d.resolve(d.Guide))
	if err != nil {
		return upload.File{}, false, err
	}
	return f, true, nil
}

func (d *Draft) resolve(p string) string {
	if filepath.IsAbs(p) || d.dir == "" {
		return p
	}
	return filepath.Join(d.dir, p)
}

// LocalFile describes a file on disk. The declared type comes from sniffing its content.
func LocalFile(path string) (upload.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return upload.File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return upload.File{}, fmt.Errorf("%s is a directory", path)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return upload.File{}, fmt.Errorf("detect type of %s: %w", path, err)
	}

	return upload.File{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mt.String(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}
