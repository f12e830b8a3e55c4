package calculator

import "time"

// Sets holds the two responsible sets the totals aggregation needs for
// one expense. Historical is the roster that shared the cost on the
// payment date. Current is the subset of that roster still in the
// household today, which is who the cost gets redistributed over.
type Sets struct {
	Current    map[int64]struct{}
	Historical map[int64]struct{}
}

// Responsible computes the historical responsible set for a shared
// expense paid on the given date: members active on that date, minus
// anyone on vacation unless the category stays shared on leave. The
// payer is always responsible, even while on vacation.
func Responsible(members []MemberWindow, vacations []Interval, date time.Time, payerID int64, sharedOnLeave bool) map[int64]struct{} {
	responsible := ActiveAt(members, date)
	if !sharedOnLeave {
		responsible = NotOnLeaveAt(responsible, vacations, date)
	}
	responsible[payerID] = struct{}{}
	return responsible
}

// ResponsibleSets computes both responsible sets for one expense. The
// current set is the historical set restricted to members still active,
// so costs left behind by departed members are reapportioned over
// whoever remains.
func ResponsibleSets(members []MemberWindow, vacations []Interval, date time.Time, payerID int64, sharedOnLeave bool, active map[int64]struct{}) Sets {
	historical := Responsible(members, vacations, date, payerID, sharedOnLeave)
	current := make(map[int64]struct{}, len(historical))
	for id := range historical {
		if _, ok := active[id]; ok {
			current[id] = struct{}{}
		}
	}
	return Sets{Current: current, Historical: historical}
}
