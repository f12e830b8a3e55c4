package models

import "time"

// Member is a person's membership window in a household. The same
// person rejoining later gets a fresh Member row; historical rows keep
// Left set so past expenses still resolve against the roster that
// existed when they were paid.
type Member struct {
	ID          int64      `json:"id"`
	HouseholdID int64      `json:"household_id"`
	UserID      int64      `json:"user_id"`
	Name        string     `json:"name"`
	Joined      time.Time  `json:"joined"`
	Left        *time.Time `json:"left,omitempty"`
}

// ActiveAt reports whether the membership covers the given date. Both
// endpoints are inclusive: a member counts on the day they joined and
// on the day they left.
func (m *Member) ActiveAt(date time.Time) bool {
	if date.Before(m.Joined) {
		return false
	}
	return m.Left == nil || !date.After(*m.Left)
}

// Active reports whether the member currently belongs to the household.
func (m *Member) Active() bool {
	return m.Left == nil
}
