package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/vending-machine/internal/adapter/storage"
	"github.com/rl1809/vending-machine/internal/core/domain"
	"github.com/rl1809/vending-machine/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	owner         = "stress-owner"
	initialStock  = 20
	totalRequests = 50
	queueSize     = 100
)

func main() {
	ctx := context.Background()

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Clear previous test data
	rdb.Del(ctx, storage.StateKey)

	// Initialize adapter and service
	redisAdapter := storage.NewRedisAdapter(rdb)
	vendingService := service.NewVendingService(redisAdapter, queueSize)
	defer vendingService.Close()

	if _, err := vendingService.Instantiate(ctx, owner, service.InstantiateMsg{Chips: initialStock}); err != nil {
		log.Fatalf("failed to instantiate: %v", err)
	}

	// Drain the movement queue in background
	go func() {
		for range vendingService.GetMovementQueue() {
		}
	}()

	// Counters
	var successCount atomic.Int32
	var outOfStockCount atomic.Int32
	var otherCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()

			_, err := vendingService.GetItem(ctx, fmt.Sprintf("user-%d", userID), domain.ItemChips)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrOutOfStock):
				outOfStockCount.Add(1)
			default:
				otherCount.Add(1)
				log.Printf("user-%d: unexpected error: %v", userID, err)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	outOfStock := outOfStockCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Dispensed:        %d\n", success)
	fmt.Printf("Out of stock:     %d\n", outOfStock)
	fmt.Printf("Other errors:     %d\n", otherCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if success == int32(initialStock) && outOfStock == int32(totalRequests-initialStock) {
		fmt.Printf("PASS: Exactly %d dispenses succeeded, %d were out of stock\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d out of stock, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, outOfStock)
	}

	// Verify final stock in Redis
	counts, err := vendingService.ItemsCount(ctx)
	if err != nil {
		log.Fatalf("failed to query counts: %v", err)
	}
	fmt.Printf("Final Redis Stock: %d\n", counts.Chips)

	if counts.Chips == 0 {
		fmt.Println("PASS: Stock depleted to 0")
	} else {
		fmt.Printf("FAIL: Expected stock 0, got %d\n", counts.Chips)
	}
}
