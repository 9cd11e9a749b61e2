package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/vending-machine/internal/core/domain"
	"github.com/rl1809/vending-machine/internal/port"
)

var ErrOptimisticLock = errors.New("optimistic lock conflict")

const errDuplicateEntry = 1062

var schema = []string{
	`CREATE TABLE IF NOT EXISTS machine_state (
		state_key  VARCHAR(64)  NOT NULL PRIMARY KEY,
		owner      VARCHAR(255) NOT NULL,
		chocolate  INT UNSIGNED NOT NULL,
		water      INT UNSIGNED NOT NULL,
		chips      INT UNSIGNED NOT NULL,
		version    INT          NOT NULL DEFAULT 0,
		created_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_movements (
		id              CHAR(36)     NOT NULL PRIMARY KEY,
		method          VARCHAR(16)  NOT NULL,
		caller          VARCHAR(255) NOT NULL,
		item_type       VARCHAR(16)  NULL,
		chocolate_delta BIGINT       NOT NULL,
		water_delta     BIGINT       NOT NULL,
		chips_delta     BIGINT       NOT NULL,
		chocolate       INT UNSIGNED NOT NULL,
		water           INT UNSIGNED NOT NULL,
		chips           INT UNSIGNED NOT NULL,
		created_at      DATETIME(6)  NOT NULL
	)`,
}

type MySQLAdapter struct {
	db  *sql.DB
	key string
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db, key: StateKey}
}

// Migrate creates the state and movement tables if they are missing.
func (m *MySQLAdapter) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return storageError("migrate", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) Load(ctx context.Context) (domain.Inventory, error) {
	var inv domain.Inventory
	err := m.db.QueryRowContext(ctx, `
		SELECT owner, chocolate, water, chips
		FROM machine_state WHERE state_key = ?`, m.key,
	).Scan(&inv.Owner, &inv.Chocolate, &inv.Water, &inv.Chips)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Inventory{}, domain.ErrNotInitialized
	}
	if err != nil {
		return domain.Inventory{}, storageError("query state", err)
	}

	return inv, nil
}

// Create inserts the state row; the primary key rejects a second record.
func (m *MySQLAdapter) Create(ctx context.Context, inv domain.Inventory) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO machine_state (state_key, owner, chocolate, water, chips, version)
		VALUES (?, ?, ?, ?, ?, 0)`,
		m.key, inv.Owner, inv.Chocolate, inv.Water, inv.Chips,
	)

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry {
		return domain.ErrAlreadyInitialized
	}
	if err != nil {
		return storageError("insert state", err)
	}
	return nil
}

func (m *MySQLAdapter) Save(ctx context.Context, inv domain.Inventory) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO machine_state (state_key, owner, chocolate, water, chips, version)
		VALUES (?, ?, ?, ?, ?, 0)
		ON DUPLICATE KEY UPDATE
			owner = VALUES(owner), chocolate = VALUES(chocolate), water = VALUES(water),
			chips = VALUES(chips), version = version + 1, updated_at = NOW()`,
		m.key, inv.Owner, inv.Chocolate, inv.Water, inv.Chips,
	)
	if err != nil {
		return storageError("save state", err)
	}
	return nil
}

// Update locks the state row for the duration of fn and writes the result
// back in the same transaction.
func (m *MySQLAdapter) Update(ctx context.Context, fn port.UpdateFunc) (domain.Inventory, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Inventory{}, storageError("begin tx", err)
	}
	defer tx.Rollback()

	var (
		current domain.Inventory
		version int
	)
	err = tx.QueryRowContext(ctx, `
		SELECT owner, chocolate, water, chips, version
		FROM machine_state WHERE state_key = ?
		FOR UPDATE`, m.key,
	).Scan(&current.Owner, &current.Chocolate, &current.Water, &current.Chips, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Inventory{}, domain.ErrNotInitialized
	}
	if err != nil {
		return domain.Inventory{}, storageError("lock state", err)
	}

	next, err := fn(current)
	if err != nil {
		return domain.Inventory{}, err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE machine_state
		SET owner = ?, chocolate = ?, water = ?, chips = ?, version = version + 1, updated_at = NOW()
		WHERE state_key = ? AND version = ?`,
		next.Owner, next.Chocolate, next.Water, next.Chips, m.key, version,
	)
	if err != nil {
		return domain.Inventory{}, storageError("update state", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.Inventory{}, storageError("update state", ErrOptimisticLock)
	}

	if err := tx.Commit(); err != nil {
		return domain.Inventory{}, storageError("commit", err)
	}
	return next, nil
}

func (m *MySQLAdapter) RecordMovement(ctx context.Context, movement domain.Movement) error {
	var itemType sql.NullString
	if movement.ItemType.Valid() {
		itemType = sql.NullString{String: movement.ItemType.Key(), Valid: true}
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory_movements
			(id, method, caller, item_type, chocolate_delta, water_delta, chips_delta,
			 chocolate, water, chips, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movement.ID, string(movement.Method), movement.Caller, itemType,
		movement.ChocolateDelta, movement.WaterDelta, movement.ChipsDelta,
		movement.Result.Chocolate, movement.Result.Water, movement.Result.Chips,
		movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}
