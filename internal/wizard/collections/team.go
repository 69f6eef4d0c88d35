package collections

import (
	"fmt"
	"strings"

	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// Team is the ordered list of travel companions.
// No two registered members share a user id.
type Team struct {
	members []model.Member
}

func roleOrDefault(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return model.DefaultMemberRole
	}
	return role
}

// AddRegistered appends a platform user. A user already on the team yields ErrDuplicateMember
// and leaves the collection unchanged.
func (t *Team) AddRegistered(user model.User, role string) error {
	id := strings.TrimSpace(user.ID)
	if id == "" {
		return model.ErrMemberIDRequired
	}
	for _, m := range t.members {
		if r, ok := m.(*model.RegisteredMember); ok && r.UserID == id {
			return fmt.Errorf("%w: %s", model.ErrDuplicateMember, displayName(user))
		}
	}
	t.members = append(t.members, &model.RegisteredMember{
		UserID:    id,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Role:      roleOrDefault(role),
	})
	return nil
}

// AddUnregistered appends an ad hoc companion identified only by name.
func (t *Team) AddUnregistered(name, role string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ErrMemberNameRequired
	}
	t.members = append(t.members, &model.UnregisteredMember{Name: name, Role: roleOrDefault(role)})
	return nil
}

// Remove deletes the member at index.
func (t *Team) Remove(index int) error {
	if index < 0 || index >= len(t.members) {
		return fmt.Errorf("%w: team member %d", model.ErrIndexOutOfRange, index)
	}
	t.members = append(t.members[:index], t.members[index+1:]...)
	return nil
}

// Members returns copies of the entries in order.
func (t *Team) Members() []model.Member {
	out := make([]model.Member, 0, len(t.members))
	for _, m := range t.members {
		switch v := m.(type) {
		case *model.RegisteredMember:
			c := *v
			out = append(out, &c)
		case *model.UnregisteredMember:
			c := *v
			out = append(out, &c)
		}
	}
	return out
}

// Len returns the team size.
func (t *Team) Len() int {
	return len(t.members)
}

// Reset empties the team.
func (t *Team) Reset() {
	t.members = nil
}

func displayName(u model.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.ID
}
