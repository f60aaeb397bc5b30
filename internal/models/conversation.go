package models

import "time"

// Role tags a turn as coming from the user or from the model.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one role-tagged message in a conversation history. Turns are
// appended in order and replayed verbatim as context for the next
// generic-chat exchange; individual turns are never edited.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationKey selects whose history to load or mutate. The group id
// takes precedence when the message originates in a group.
func ConversationKey(groupID, userID string) string {
	if groupID != "" {
		return groupID
	}
	return userID
}

// WeatherSnapshot holds the minimal fields needed to phrase a weather
// reply. A snapshot is either fully populated or not surfaced at all.
type WeatherSnapshot struct {
	Location   string
	Wx         string // weather description
	PoP        string // probability of precipitation
	CI         string // comfort index
	ObservedAt time.Time
}
