// Package models defines the core domain types for paguen.
//
// # Model Overview
//
//   - Household: the group whose expenses are split; the aggregate root.
//   - Member: a person's time-bounded membership in a household. A person
//     may hold several Member records over time (leave and rejoin), but at
//     most one active record per household.
//   - VacationWindow: a period during which a member is away and, for
//     categories that are not shared on leave, owes no share.
//   - Category: classifies expenses and carries the sharing flags that
//     drive responsibility computation.
//   - Expense: a single payment with its confirmation lifecycle state.
//   - Confirmation: one row per responsible member per non-pending
//     expense; an expense is settled once every row is confirmed.
//
// # Design Principles
//
//  1. Amounts are int64 values in the smallest currency unit. Fractional
//     shares only ever appear inside the calculator package, which uses
//     decimal arithmetic.
//  2. IDs are database-assigned int64 values; relationships use IDs, not
//     pointers, to avoid circular references.
//  3. Domain rule violations surface as the sentinel errors in errors.go
//     so callers can branch with errors.Is.
package models
