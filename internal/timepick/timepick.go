// Package timepick converts between the stored 24-hour "HH:MM" trigger
// time and the split 12-hour form the time picker edits.
package timepick

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Gurkunwar/dailybot-console/internal/models"
)

const (
	AM = "AM"
	PM = "PM"
)

// Editable is the picker's working representation: two-digit hour
// "01".."12", two-digit minute "00".."59", and a meridiem.
type Editable struct {
	Hour     string
	Minute   string
	Meridiem string
}

// ToEditable splits a stored 24-hour time for editing. A missing or
// malformed value falls back to the default trigger time rather than
// failing; the picker always has something to show.
func ToEditable(stored string) Editable {
	h24, m, ok := parse24(stored)
	if !ok {
		h24, m, _ = parse24(models.DefaultTime)
	}

	ap := AM
	if h24 >= 12 {
		ap = PM
	}
	h12 := h24 % 12
	if h12 == 0 {
		h12 = 12
	}

	return Editable{
		Hour:     fmt.Sprintf("%02d", h12),
		Minute:   fmt.Sprintf("%02d", m),
		Meridiem: ap,
	}
}

// ToStored collapses an editable triple back to "HH:MM". Malformed
// fields fall back to the default trigger time.
func ToStored(e Editable) string {
	h12, err := strconv.Atoi(e.Hour)
	if err != nil || h12 < 1 || h12 > 12 {
		return models.DefaultTime
	}
	m, err := strconv.Atoi(e.Minute)
	if err != nil || m < 0 || m > 59 {
		return models.DefaultTime
	}

	h24 := h12
	switch e.Meridiem {
	case PM:
		if h24 != 12 {
			h24 += 12
		}
	case AM:
		if h24 == 12 {
			h24 = 0
		}
	default:
		return models.DefaultTime
	}

	return fmt.Sprintf("%02d:%02d", h24, m)
}

// Label renders a stored time for display, e.g. "13:05" -> "01:05 PM".
// An empty value prompts for a selection.
func Label(stored string) string {
	if stored == "" {
		return "Select Time"
	}
	e := ToEditable(stored)
	return fmt.Sprintf("%s:%s %s", e.Hour, e.Minute, e.Meridiem)
}

func parse24(s string) (hour, minute int, ok bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
