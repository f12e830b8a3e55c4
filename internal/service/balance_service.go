package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"paguen/internal/calculator"
	"paguen/internal/metrics"
	"paguen/internal/models"
	"paguen/internal/storage"
)

// Balance is the outcome of one household balance computation. All
// maps are keyed by the currently active members; Instructions is keyed
// by debtors only.
type Balance struct {
	Actual       map[int64]decimal.Decimal
	Expected     map[int64]decimal.Decimal
	Net          map[int64]decimal.Decimal
	Instructions map[int64][]calculator.Instruction
}

// BalanceService computes household balances and settlement
// instructions over a consistent snapshot of the ledger.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a BalanceService.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// ComputeBalance loads the household snapshot (roster, vacations,
// eligible expenses), folds it into actual and expected contributions,
// and nets the result into payment instructions.
func (s *BalanceService) ComputeBalance(ctx context.Context, householdID int64) (*Balance, error) {
	var (
		members   []models.Member
		vacations []models.VacationWindow
		expenses  []storage.EligibleExpense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.store.ListMembers(gctx, householdID)
		return err
	})
	g.Go(func() error {
		var err error
		vacations, err = s.store.ListHouseholdVacations(gctx, householdID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.EligibleExpenses(gctx, householdID)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.BalanceRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("service.BalanceService.ComputeBalance: %w", err)
	}

	windows := make([]calculator.MemberWindow, 0, len(members))
	active := make(map[int64]struct{})
	for _, m := range members {
		windows = append(windows, calculator.MemberWindow{MemberID: m.ID, Joined: m.Joined, Left: m.Left})
		if m.Active() {
			active[m.ID] = struct{}{}
		}
	}
	intervals := make([]calculator.Interval, 0, len(vacations))
	for _, v := range vacations {
		intervals = append(intervals, calculator.Interval{MemberID: v.MemberID, Start: v.Start, End: v.End})
	}

	shared := make([]calculator.SharedExpense, 0, len(expenses))
	for _, e := range expenses {
		sets := calculator.ResponsibleSets(windows, intervals, e.PaidAt, e.PayerID, e.SharedOnLeave, active)
		shared = append(shared, calculator.SharedExpense{
			Amount:  e.Amount,
			PayerID: e.PayerID,
			Sets:    sets,
		})
	}

	actual, expected := calculator.Totals(active, shared)
	net := calculator.Net(actual, expected)
	instructions := calculator.Settle(net)

	metrics.BalanceRuns.WithLabelValues("ok").Inc()
	slog.Debug("Balance computed",
		"household_id", householdID,
		"members", len(active),
		"expenses", len(shared),
		"debtors", len(instructions))

	return &Balance{
		Actual:       actual,
		Expected:     expected,
		Net:          net,
		Instructions: instructions,
	}, nil
}
