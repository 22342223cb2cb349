package query

import "strconv"

// TagType enumerates the invalidation groups. Typed tags instead of ad
// hoc strings so a standup id can never collide with another label.
type TagType string

const (
	TagTypeStandup         TagType = "Standup"
	TagTypeMembers         TagType = "Members"
	TagTypeHistory         TagType = "History"
	TagTypeManagedStandups TagType = "ManagedStandups"
)

// Tag labels cached data that becomes stale when some mutation succeeds.
// Multiple query keys may share one tag.
type Tag struct {
	Type TagType
	ID   string
}

func (t Tag) String() string {
	if t.ID == "" {
		return string(t.Type)
	}
	return string(t.Type) + ":" + t.ID
}

func StandupTag(id uint) Tag {
	return Tag{Type: TagTypeStandup, ID: strconv.FormatUint(uint64(id), 10)}
}

func MembersTag() Tag { return Tag{Type: TagTypeMembers} }

func HistoryTag() Tag { return Tag{Type: TagTypeHistory} }

func ManagedStandupsTag() Tag { return Tag{Type: TagTypeManagedStandups} }
