package models

import "time"

// VacationWindow is a declared absence for a member. End is nil for an
// open-ended vacation. Both endpoints are inclusive when matching an
// expense date against the window.
type VacationWindow struct {
	ID       int64      `json:"id"`
	MemberID int64      `json:"member_id"`
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end,omitempty"`
}

// Contains reports whether the window covers the given date.
func (v *VacationWindow) Contains(date time.Time) bool {
	if date.Before(v.Start) {
		return false
	}
	return v.End == nil || !date.After(*v.End)
}

// Overlaps reports whether two windows share at least one day. Open
// ends are treated as extending indefinitely.
func (v *VacationWindow) Overlaps(start time.Time, end *time.Time) bool {
	if v.End != nil && start.After(*v.End) {
		return false
	}
	if end != nil && v.Start.After(*end) {
		return false
	}
	return true
}
