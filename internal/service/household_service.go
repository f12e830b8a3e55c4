package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"paguen/internal/models"
	"paguen/internal/storage"
)

// HouseholdService manages the roster the expense engine runs over:
// households, memberships, vacation windows, and categories.
type HouseholdService struct {
	store storage.Store
	now   func() time.Time
}

// NewHouseholdService creates a HouseholdService.
func NewHouseholdService(store storage.Store) *HouseholdService {
	return &HouseholdService{store: store, now: time.Now}
}

// CreateHousehold validates and persists a new household.
func (s *HouseholdService) CreateHousehold(ctx context.Context, h *models.Household) error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if err := s.store.CreateHousehold(ctx, h); err != nil {
		return fmt.Errorf("service.HouseholdService.CreateHousehold: %w", err)
	}
	slog.Info("Household created", "household_id", h.ID, "name", h.Name)
	return nil
}

// AddMember opens a membership window. A person who already has an
// open membership in the household cannot join again; rejoining after
// leaving creates a fresh row.
func (s *HouseholdService) AddMember(ctx context.Context, m *models.Member) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if m.Joined.IsZero() {
		return fmt.Errorf("%w: join date is required", models.ErrValidation)
	}

	existing, err := s.store.ListMembers(ctx, m.HouseholdID)
	if err != nil {
		return fmt.Errorf("service.HouseholdService.AddMember: %w", err)
	}
	for _, row := range existing {
		if row.UserID == m.UserID && row.Active() {
			return fmt.Errorf("%w: user %d already belongs to household %d", models.ErrValidation, m.UserID, m.HouseholdID)
		}
	}

	if err := s.store.AddMember(ctx, m); err != nil {
		return fmt.Errorf("service.HouseholdService.AddMember: %w", err)
	}
	slog.Info("Member added", "member_id", m.ID, "household_id", m.HouseholdID)
	return nil
}

// CloseMembership ends a membership on the given date. Past expenses
// keep resolving against the closed window.
func (s *HouseholdService) CloseMembership(ctx context.Context, memberID int64, left time.Time) error {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("service.HouseholdService.CloseMembership: %w", err)
	}
	left = normalizeDate(left)
	if left.Before(member.Joined) {
		return fmt.Errorf("%w: leave date is before the join date", models.ErrValidation)
	}
	if err := s.store.CloseMembership(ctx, memberID, left); err != nil {
		return fmt.Errorf("service.HouseholdService.CloseMembership: %w", err)
	}
	slog.Info("Membership closed", "member_id", memberID, "left", left.Format("2006-01-02"))
	return nil
}

// GoOnVacation declares a vacation window for a member. A zero start
// means the vacation begins today. Windows of the same member must not
// overlap; an open-ended window blocks any later one until it is closed.
func (s *HouseholdService) GoOnVacation(ctx context.Context, v *models.VacationWindow) error {
	if v.Start.IsZero() {
		v.Start = s.now()
	}
	v.Start = normalizeDate(v.Start)
	if v.End != nil {
		end := normalizeDate(*v.End)
		v.End = &end
		if end.Before(v.Start) {
			return fmt.Errorf("%w: vacation ends before it starts", models.ErrValidation)
		}
	}

	if _, err := s.store.GetMember(ctx, v.MemberID); err != nil {
		return fmt.Errorf("service.HouseholdService.GoOnVacation: %w", err)
	}

	existing, err := s.store.ListVacations(ctx, v.MemberID)
	if err != nil {
		return fmt.Errorf("service.HouseholdService.GoOnVacation: %w", err)
	}
	for _, w := range existing {
		if w.Overlaps(v.Start, v.End) {
			return fmt.Errorf("%w: vacation overlaps an existing window starting %s",
				models.ErrValidation, w.Start.Format("2006-01-02"))
		}
	}

	if err := s.store.CreateVacation(ctx, v); err != nil {
		return fmt.Errorf("service.HouseholdService.GoOnVacation: %w", err)
	}
	slog.Info("Vacation declared", "vacation_id", v.ID, "member_id", v.MemberID)
	return nil
}

// EndVacation closes an open-ended vacation window.
func (s *HouseholdService) EndVacation(ctx context.Context, vacationID int64, end time.Time) error {
	if err := s.store.EndVacation(ctx, vacationID, normalizeDate(end)); err != nil {
		return fmt.Errorf("service.HouseholdService.EndVacation: %w", err)
	}
	return nil
}

// CreateCategory validates and persists an expense category. The
// transfer flag is reserved for the engine's own category.
func (s *HouseholdService) CreateCategory(ctx context.Context, c *models.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if c.Transfer || c.Name == models.TransferCategoryName {
		return fmt.Errorf("%w: %q is reserved", models.ErrValidation, models.TransferCategoryName)
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return fmt.Errorf("service.HouseholdService.CreateCategory: %w", err)
	}
	return nil
}

// HideCategory removes a category from listings without touching the
// expenses that reference it.
func (s *HouseholdService) HideCategory(ctx context.Context, categoryID int64) error {
	if err := s.store.HideCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("service.HouseholdService.HideCategory: %w", err)
	}
	return nil
}

// PeriodTotals reports each member's spending for one calendar month,
// transfers excluded.
func (s *HouseholdService) PeriodTotals(ctx context.Context, householdID int64, year int, month time.Month) ([]storage.PeriodTotal, error) {
	totals, err := s.store.PeriodTotals(ctx, householdID, year, month)
	if err != nil {
		return nil, fmt.Errorf("service.HouseholdService.PeriodTotals: %w", err)
	}
	return totals, nil
}
