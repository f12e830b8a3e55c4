package calculator

import (
	"testing"
	"time"
)

func TestResponsible(t *testing.T) {
	members := []MemberWindow{
		{MemberID: 1, Joined: date(2024, 1, 1)},
		{MemberID: 2, Joined: date(2024, 1, 1)},
		{MemberID: 3, Joined: date(2024, 1, 1), Left: datePtr(2024, 5, 31)},
	}
	vacations := []Interval{
		{MemberID: 2, Start: date(2024, 4, 1), End: datePtr(2024, 4, 30)},
	}

	tests := []struct {
		name          string
		date          time.Time
		payerID       int64
		sharedOnLeave bool
		want          []int64
	}{
		{
			name:    "everyone home and active",
			date:    date(2024, 2, 1),
			payerID: 1,
			want:    []int64{1, 2, 3},
		},
		{
			name:    "vacationer excluded",
			date:    date(2024, 4, 15),
			payerID: 1,
			want:    []int64{1, 3},
		},
		{
			name:          "shared-on-leave keeps the vacationer",
			date:          date(2024, 4, 15),
			payerID:       1,
			sharedOnLeave: true,
			want:          []int64{1, 2, 3},
		},
		{
			name:    "payer on vacation is still responsible",
			date:    date(2024, 4, 15),
			payerID: 2,
			want:    []int64{1, 2, 3},
		},
		{
			name:    "departed member not responsible",
			date:    date(2024, 6, 15),
			payerID: 1,
			want:    []int64{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Responsible(members, vacations, tt.date, tt.payerID, tt.sharedOnLeave)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d members, want %d", len(got), len(tt.want))
			}
			for _, id := range tt.want {
				if _, ok := got[id]; !ok {
					t.Errorf("member %d missing from responsible set", id)
				}
			}
		})
	}
}

func TestResponsibleSets(t *testing.T) {
	members := []MemberWindow{
		{MemberID: 1, Joined: date(2024, 1, 1)},
		{MemberID: 2, Joined: date(2024, 1, 1), Left: datePtr(2024, 5, 31)},
		{MemberID: 3, Joined: date(2024, 1, 1)},
	}
	active := map[int64]struct{}{1: {}, 3: {}}

	sets := ResponsibleSets(members, nil, date(2024, 3, 1), 1, false, active)

	if len(sets.Historical) != 3 {
		t.Fatalf("historical set has %d members, want 3", len(sets.Historical))
	}
	if len(sets.Current) != 2 {
		t.Fatalf("current set has %d members, want 2", len(sets.Current))
	}
	if _, ok := sets.Current[2]; ok {
		t.Error("departed member 2 should not be in the current set")
	}
}
