package models

// TransferCategoryName is the reserved category used for the paired
// expenses a direct transfer materializes into.
const TransferCategoryName = "Transferencia"

// Category classifies expenses within a household and carries the
// flags the responsibility computation consults.
type Category struct {
	ID          int64  `json:"id"`
	HouseholdID int64  `json:"household_id"`
	Name        string `json:"name"`
	// Shared marks the category as split among members. Expenses in a
	// non-shared category stay entirely on the payer.
	Shared bool `json:"shared"`
	// SharedOnLeave keeps members responsible even while on vacation,
	// for costs like rent that do not pause when someone travels.
	SharedOnLeave bool `json:"shared_on_leave"`
	// Transfer marks the reserved category backing direct transfers.
	Transfer bool `json:"transfer"`
	// Hidden categories are omitted from listings but still usable by
	// existing expenses.
	Hidden bool `json:"hidden"`
}
