package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/vending-machine/internal/adapter/storage"
	"github.com/rl1809/vending-machine/internal/core/domain"
)

type testEnv struct {
	redis   *redis.Client
	mysql   *sql.DB
	cache   *storage.RedisAdapter
	db      *storage.MySQLAdapter
	cleanup func()
}

func setupTestEnv(t *testing.T) *testEnv {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/vending?parseTime=true"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	mysqlAdapter := storage.NewMySQLAdapter(db)
	if err := mysqlAdapter.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	return &testEnv{
		redis: rdb,
		mysql: db,
		cache: storage.NewRedisAdapter(rdb),
		db:    mysqlAdapter,
		cleanup: func() {
			rdb.Close()
			db.Close()
		},
	}
}

func TestIntegration_RedisStoreWithMySQLJournal(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	env.redis.Del(ctx, storage.StateKey)
	defer env.redis.Del(ctx, storage.StateKey)

	svc := NewVendingService(env.cache, 100)

	var wg sync.WaitGroup
	workerCount := 3
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			RunMovementWorker(id, svc.GetMovementQueue(), env.db)
		}(i)
	}

	initialStock := 10
	if _, err := svc.Instantiate(ctx, "integration-owner", InstantiateMsg{Water: uint32(initialStock)}); err != nil {
		t.Fatalf("instantiate failed: %v", err)
	}

	var successCount atomic.Int32
	var purchaseWg sync.WaitGroup
	totalRequests := 20

	for i := 0; i < totalRequests; i++ {
		purchaseWg.Add(1)
		go func() {
			defer purchaseWg.Done()
			if _, err := svc.GetItem(ctx, "integration-user", domain.ItemWater); err == nil {
				successCount.Add(1)
			}
		}()
	}
	purchaseWg.Wait()

	if _, err := svc.Refill(ctx, "integration-user", RefillMsg{Water: 1}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got: %v", err)
	}

	svc.Close()
	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successful dispenses, got %d", initialStock, successCount.Load())
	}

	counts, err := svc.ItemsCount(ctx)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if counts.Water != 0 {
		t.Errorf("expected water 0, got %d", counts.Water)
	}

	var movementCount int
	env.mysql.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory_movements WHERE caller = 'integration-user'`).Scan(&movementCount)
	if movementCount != initialStock {
		t.Errorf("expected %d movements in MySQL, got %d", initialStock, movementCount)
	}

	env.mysql.ExecContext(ctx, `DELETE FROM inventory_movements WHERE caller IN ('integration-user', 'integration-owner')`)
}

func TestIntegration_MySQLStore(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	env.mysql.ExecContext(ctx, `DELETE FROM machine_state WHERE state_key = ?`, storage.StateKey)
	defer env.mysql.ExecContext(ctx, `DELETE FROM machine_state WHERE state_key = ?`, storage.StateKey)

	svc := NewVendingService(env.db, 0)

	if _, err := svc.Instantiate(ctx, "owner", InstantiateMsg{Chips: 1}); err != nil {
		t.Fatalf("instantiate failed: %v", err)
	}
	if _, err := svc.Instantiate(ctx, "owner", InstantiateMsg{Chips: 1}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got: %v", err)
	}
	if _, err := svc.GetItem(ctx, "user", domain.ItemChips); err != nil {
		t.Fatalf("dispense failed: %v", err)
	}
	if _, err := svc.GetItem(ctx, "user", domain.ItemChips); !errors.Is(err, domain.ErrOutOfStock) {
		t.Errorf("expected ErrOutOfStock, got: %v", err)
	}
	if _, err := svc.Refill(ctx, "owner", RefillMsg{Chocolate: 10, Water: 20, Chips: 30}); err != nil {
		t.Fatalf("refill failed: %v", err)
	}

	counts, _ := svc.ItemsCount(ctx)
	if counts != (ItemsResponse{Chocolate: 10, Water: 20, Chips: 30}) {
		t.Errorf("unexpected counts: %+v", counts)
	}
}
