package model

// Category is one entry of the fixed category vocabulary.
type Category string

// Known categories.
const (
	CategoryAdventure   Category = "Adventure"
	CategorySoloTravel  Category = "Solo Travel"
	CategoryFamily      Category = "Family"
	CategoryBudget      Category = "Budget"
	CategoryLuxury      Category = "Luxury"
	CategoryRoadTrip    Category = "Road Trip"
	CategoryBackpacking Category = "Backpacking"
	CategoryCulture     Category = "Culture & History"
	CategoryFood        Category = "Food & Drink"
	CategoryNature      Category = "Nature & Wildlife"
	CategoryBeach       Category = "Beach"
	CategoryWellness    Category = "Wellness"
)

var categoryVocabulary = []Category{
	CategoryAdventure, CategorySoloTravel, CategoryFamily, CategoryBudget,
	CategoryLuxury, CategoryRoadTrip, CategoryBackpacking, CategoryCulture,
	CategoryFood, CategoryNature, CategoryBeach, CategoryWellness,
}

// Categories returns the vocabulary in display order.
func Categories() []Category {
	out := make([]Category, len(categoryVocabulary))
	copy(out, categoryVocabulary)
	return out
}

// ParseCategory resolves an exact vocabulary entry.
func ParseCategory(s string) (Category, bool) {
	for _, c := range categoryVocabulary {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// DefaultMemberRole is applied when a member is added with a blank role.
const DefaultMemberRole = "Team Member"

// Member is a travel companion entry: either *RegisteredMember or *UnregisteredMember.
type Member interface {
	isMember()
}

// RegisteredMember references a platform account.
type RegisteredMember struct {
	UserID    string
	Username  string
	AvatarURL string
	Role      string
}

// UnregisteredMember is an ad hoc companion without an account.
type UnregisteredMember struct {
	Name string
	Role string
}

func (*RegisteredMember) isMember()   {}
func (*UnregisteredMember) isMember() {}

// User is the identity passed when adding a registered member.
type User struct {
	ID        string
	Username  string
	AvatarURL string
}

// Draft is an immutable snapshot of everything the wizard has collected.
type Draft struct {
	Fields       Fields
	ActivityTags []string
	Categories   []Category
	TeamMembers  []Member
	Screenshots  []string
	GuideURL     string
	Communities  []string
}
