package models

import "errors"

// ErrValidation is returned when input fails a domain rule before any
// state is touched: non-positive amounts, payment dates in the future,
// overlapping vacation windows.
var ErrValidation = errors.New("validation error")

// ErrPermission is returned when the acting member is not allowed to
// perform the operation: editing someone else's paid expense,
// confirming an expense they are not responsible for, transferring to a
// non-roommate.
var ErrPermission = errors.New("permission denied")

// ErrState is returned when the expense is not in a state that admits
// the operation: paying a non-pending expense, confirming twice,
// confirming an expense that is not awaiting confirmation.
var ErrState = errors.New("invalid state")

// ErrNotFound is returned when the referenced household, member,
// category, or expense does not exist.
var ErrNotFound = errors.New("not found")
