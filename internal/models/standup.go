package models

// MaxQuestions bounds the prompt question list; the server rejects longer
// lists, so the client enforces it before any request is issued.
const MaxQuestions = 5

// DefaultTime is the trigger time assigned to new standups.
const DefaultTime = "09:00"

// DefaultQuestions seeds the create flow.
func DefaultQuestions() []string {
	return []string{"What did you do yesterday?", "What will you do today?"}
}

// Standup is a recurring team prompt as served by the backend.
type Standup struct {
	ID              uint          `json:"id"`
	Name            string        `json:"name"`
	GuildID         string        `json:"guild_id"`
	ReportChannelID string        `json:"report_channel_id"`
	Questions       []string      `json:"questions"`
	Time            string        `json:"time"`
	Days            string        `json:"days,omitempty"`
	Participants    []Participant `json:"participants"`
}

// Participant records enrollment of one user into one standup. The pair
// either exists or it does not; there is no further lifecycle.
type Participant struct {
	UserID string `json:"user_id"`
}

// HasParticipant reports whether userID is currently enrolled.
func (s *Standup) HasParticipant(userID string) bool {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ManagedStandup is the list-view projection returned by the
// managed-standups endpoint.
type ManagedStandup struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Time            string `json:"time"`
	GuildName       string `json:"guild_name"`
	ChannelName     string `json:"channel_name"`
	ReportChannelID string `json:"report_channel_id"`
}

// DashboardStats is the aggregate card data on the overview page.
type DashboardStats struct {
	TotalTeams    int `json:"total_teams"`
	TotalMembers  int `json:"total_members"`
	RecentReports int `json:"recent_reports"`
}
