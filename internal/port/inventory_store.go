package port

import (
	"context"

	"github.com/rl1809/vending-machine/internal/core/domain"
)

// UpdateFunc computes the next record from the current one. Returning an
// error aborts the update and leaves the stored record untouched.
type UpdateFunc func(current domain.Inventory) (domain.Inventory, error)

type InventoryStore interface {
	// Load returns the stored record, or domain.ErrNotInitialized if none exists
	Load(ctx context.Context) (domain.Inventory, error)

	// Create stores the first record, or fails with domain.ErrAlreadyInitialized
	// if one exists. The existence check and the write are a single operation.
	Create(ctx context.Context, inventory domain.Inventory) error

	// Save overwrites the stored record unconditionally
	Save(ctx context.Context, inventory domain.Inventory) error

	// Update loads, applies fn and persists the result only when fn succeeds.
	// Errors returned by fn are passed through unchanged.
	Update(ctx context.Context, fn UpdateFunc) (domain.Inventory, error)
}
