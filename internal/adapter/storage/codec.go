package storage

import (
	"encoding/json"
	"fmt"

	"github.com/rl1809/vending-machine/internal/core/domain"
)

// StateKey is the fixed slot holding the machine record in every backend.
const StateKey = "vending_machine_state"

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageFailure, op, err)
}

func encodeInventory(inv domain.Inventory) ([]byte, error) {
	data, err := json.Marshal(inv)
	if err != nil {
		return nil, storageError("encode state", err)
	}
	return data, nil
}

func decodeInventory(data []byte) (domain.Inventory, error) {
	var inv domain.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return domain.Inventory{}, storageError("decode state", err)
	}
	return inv, nil
}
