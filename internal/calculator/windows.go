package calculator

import "time"

// MemberWindow is a membership interval used to resolve which members
// were in the household on a given date. Left is nil for members still
// in the household.
type MemberWindow struct {
	MemberID int64
	Joined   time.Time
	Left     *time.Time
}

// Interval is a vacation window. End is nil for open-ended absences.
type Interval struct {
	MemberID int64
	Start    time.Time
	End      *time.Time
}

// ActiveAt returns the set of members whose membership window covers
// the given date. Both endpoints are inclusive: a member counts on the
// day they joined and on the day they left.
func ActiveAt(members []MemberWindow, date time.Time) map[int64]struct{} {
	active := make(map[int64]struct{})
	for _, m := range members {
		if date.Before(m.Joined) {
			continue
		}
		if m.Left != nil && date.After(*m.Left) {
			continue
		}
		active[m.MemberID] = struct{}{}
	}
	return active
}

// NotOnLeaveAt filters a member set down to those with no vacation
// window covering the date. A member with no vacations on record is
// never filtered out. Vacation endpoints are inclusive.
func NotOnLeaveAt(members map[int64]struct{}, vacations []Interval, date time.Time) map[int64]struct{} {
	present := make(map[int64]struct{}, len(members))
	for id := range members {
		present[id] = struct{}{}
	}
	for _, v := range vacations {
		if _, ok := present[v.MemberID]; !ok {
			continue
		}
		if date.Before(v.Start) {
			continue
		}
		if v.End != nil && date.After(*v.End) {
			continue
		}
		delete(present, v.MemberID)
	}
	return present
}
