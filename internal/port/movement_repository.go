package port

import (
	"context"

	"github.com/rl1809/vending-machine/internal/core/domain"
)

type MovementRepository interface {
	// RecordMovement appends an accepted transition to the journal
	RecordMovement(ctx context.Context, movement domain.Movement) error
}
