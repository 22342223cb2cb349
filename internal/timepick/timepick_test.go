package timepick

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToEditable(t *testing.T) {
	cases := []struct {
		stored string
		want   Editable
	}{
		{"00:00", Editable{Hour: "12", Minute: "00", Meridiem: AM}},
		{"12:00", Editable{Hour: "12", Minute: "00", Meridiem: PM}},
		{"13:05", Editable{Hour: "01", Minute: "05", Meridiem: PM}},
		{"09:00", Editable{Hour: "09", Minute: "00", Meridiem: AM}},
		{"23:59", Editable{Hour: "11", Minute: "59", Meridiem: PM}},
	}

	for _, tc := range cases {
		t.Run(tc.stored, func(t *testing.T) {
			assert.Equal(t, tc.want, ToEditable(tc.stored))
		})
	}
}

func TestToStored(t *testing.T) {
	cases := []struct {
		editable Editable
		want     string
	}{
		{Editable{Hour: "12", Minute: "00", Meridiem: AM}, "00:00"},
		{Editable{Hour: "12", Minute: "30", Meridiem: PM}, "12:30"},
		{Editable{Hour: "09", Minute: "15", Meridiem: PM}, "21:15"},
		{Editable{Hour: "01", Minute: "00", Meridiem: AM}, "01:00"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, ToStored(tc.editable))
		})
	}
}

// Every valid wall-clock minute must survive a full edit cycle.
func TestRoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			stored := fmt.Sprintf("%02d:%02d", h, m)
			assert.Equal(t, stored, ToStored(ToEditable(stored)), "round trip of %s", stored)
		}
	}
}

func TestMalformedInputDefaults(t *testing.T) {
	for _, bad := range []string{"", "garbage", "25:00", "10:75", "10"} {
		t.Run("to-editable "+bad, func(t *testing.T) {
			assert.Equal(t, Editable{Hour: "09", Minute: "00", Meridiem: AM}, ToEditable(bad))
		})
	}

	assert.Equal(t, "09:00", ToStored(Editable{Hour: "13", Minute: "00", Meridiem: AM}))
	assert.Equal(t, "09:00", ToStored(Editable{Hour: "10", Minute: "00", Meridiem: "XX"}))
	assert.Equal(t, "09:00", ToStored(Editable{}))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Select Time", Label(""))
	assert.Equal(t, "01:05 PM", Label("13:05"))
	assert.Equal(t, "12:00 AM", Label("00:00"))
	assert.Equal(t, "09:30 AM", Label("09:30"))
}
