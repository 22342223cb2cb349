package models

import "strings"

// Guild is one entry of the user's Discord guild list. Owner and
// Permissions carry the raw payload the list endpoint passes through;
// BotPresent reports whether the DailyBot agent has been installed.
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       bool   `json:"owner"`
	Permissions string `json:"permissions"`
	BotPresent  bool   `json:"bot_present"`
}

// Channel is a text channel inside a guild. The owning guild is implied
// by the guild_id the channel list was fetched for.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Member is a guild member eligible for standup enrollment.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// FilterMembers returns the members whose username contains query,
// case-insensitively. An empty query returns everything.
func FilterMembers(members []Member, query string) []Member {
	if query == "" {
		return members
	}
	q := strings.ToLower(query)
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Username), q) {
			out = append(out, m)
		}
	}
	return out
}

// FindMember looks a member up by id. Callers render "Unknown User"
// when the submitter has since left the guild.
func FindMember(members []Member, userID string) (Member, bool) {
	for _, m := range members {
		if m.ID == userID {
			return m, true
		}
	}
	return Member{}, false
}
