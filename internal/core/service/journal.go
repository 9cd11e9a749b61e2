package service

import (
	"context"
	"log"
	"time"

	"github.com/rl1809/vending-machine/internal/core/domain"
	"github.com/rl1809/vending-machine/internal/port"
)

const recordTimeout = 5 * time.Second

// RunMovementWorker drains queue into repo until the queue is closed. A
// journal write failure is logged; the inventory record is already committed.
func RunMovementWorker(id int, queue <-chan domain.Movement, repo port.MovementRepository) {
	for movement := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)

		if err := repo.RecordMovement(ctx, movement); err != nil {
			log.Printf("worker %d: failed to record movement %s (%s): %v", id, movement.ID, movement.Method, err)
		} else {
			log.Printf("worker %d: recorded %s movement %s", id, movement.Method, movement.ID)
		}

		cancel()
	}
}
