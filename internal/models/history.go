package models

import "fmt"

// HistoryEntry is one submitted standup report. Answers are aligned with
// the question list as it stood at submission time; a later question edit
// does not rewrite old entries.
type HistoryEntry struct {
	ID        uint     `json:"ID"`
	StandupID uint     `json:"standup_id"`
	UserID    string   `json:"user_id"`
	Date      string   `json:"date"`
	Answers   []string `json:"answers"`
}

// Submitted reports whether the entry carries any answers. The backend
// creates a row when a prompt fires, so empty entries are not real
// submissions and are hidden from every view.
func (h HistoryEntry) Submitted() bool {
	return len(h.Answers) > 0
}

// FilterSubmitted drops entries with no answers.
func FilterSubmitted(entries []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, h := range entries {
		if h.Submitted() {
			out = append(out, h)
		}
	}
	return out
}

// HistoryFilter narrows a history list by member and calendar date.
// UserID "ALL" or "" matches every member; Date "" matches every date.
type HistoryFilter struct {
	UserID string
	Date   string
}

func (f HistoryFilter) Match(h HistoryEntry) bool {
	if f.UserID != "" && f.UserID != "ALL" && h.UserID != f.UserID {
		return false
	}
	if f.Date != "" && h.Date != f.Date {
		return false
	}
	return true
}

// FilterHistory applies f over entries.
func FilterHistory(entries []HistoryEntry, f HistoryFilter) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, h := range entries {
		if f.Match(h) {
			out = append(out, h)
		}
	}
	return out
}

// QuestionLabel returns the question text for answer index i, falling
// back to a positional label when the current question list is shorter
// than the answers recorded at submission time.
func QuestionLabel(questions []string, i int) string {
	if i >= 0 && i < len(questions) && questions[i] != "" {
		return questions[i]
	}
	return fmt.Sprintf("Question %d", i+1)
}
