// Package editor holds the bounded question-list editor shared by the
// create and settings flows. Both surfaces must behave identically, so
// neither keeps its own copy of these rules.
package editor

import (
	"strings"

	"github.com/Gurkunwar/dailybot-console/internal/models"
	"github.com/Gurkunwar/dailybot-console/pkg/apperrors"
)

// QuestionList edits an ordered sequence of prompt questions. The list
// never shrinks below one item or grows past models.MaxQuestions while
// being edited; whitespace is preserved until Commit.
type QuestionList struct {
	items []string
}

// New copies items into a fresh editor. A nil or empty slice starts from
// the default question set so the length floor holds from the start.
func New(items []string) *QuestionList {
	if len(items) == 0 {
		items = models.DefaultQuestions()
	}
	copied := make([]string, len(items))
	copy(copied, items)
	return &QuestionList{items: copied}
}

func (q *QuestionList) Len() int { return len(q.items) }

// Items returns a copy of the working sequence.
func (q *QuestionList) Items() []string {
	out := make([]string, len(q.items))
	copy(out, q.items)
	return out
}

// Insert appends a new question. At the length cap it is a no-op and
// reports false so the caller can keep its add button hidden.
func (q *QuestionList) Insert(item string) bool {
	if len(q.items) >= models.MaxQuestions {
		return false
	}
	q.items = append(q.items, item)
	return true
}

// RemoveAt deletes the question at index. Removing the last remaining
// question is a no-op: at least one must survive.
func (q *QuestionList) RemoveAt(index int) bool {
	if len(q.items) <= 1 || index < 0 || index >= len(q.items) {
		return false
	}
	q.items = append(q.items[:index], q.items[index+1:]...)
	return true
}

// MoveTo lifts the question at from and reinserts it at to, shifting the
// items between them. An out-of-range target (a drop outside the list)
// is a no-op.
func (q *QuestionList) MoveTo(from, to int) bool {
	n := len(q.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	item := q.items[from]
	rest := append(q.items[:from], q.items[from+1:]...)
	q.items = append(rest[:to], append([]string{item}, rest[to:]...)...)
	return true
}

// SetAt replaces the text at index in place. No trimming happens here;
// the user may be mid-keystroke.
func (q *QuestionList) SetAt(index int, text string) bool {
	if index < 0 || index >= len(q.items) {
		return false
	}
	q.items[index] = text
	return true
}

// Commit trims every question and drops the empty ones, returning the
// sequence to submit. It fails when nothing survives trimming.
func (q *QuestionList) Commit() ([]string, error) {
	cleaned := make([]string, 0, len(q.items))
	for _, item := range q.items {
		if t := strings.TrimSpace(item); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperrors.Validation("you must have at least one valid question")
	}
	return cleaned, nil
}
