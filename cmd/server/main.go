package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/vending-machine/internal/adapter/handler"
	"github.com/rl1809/vending-machine/internal/adapter/handler/rpc"
	"github.com/rl1809/vending-machine/internal/adapter/storage"
	"github.com/rl1809/vending-machine/internal/config"
	"github.com/rl1809/vending-machine/internal/core/service"
	"github.com/rl1809/vending-machine/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		store     port.InventoryStore
		movements port.MovementRepository
		closers   []func()
	)

	store = storage.NewMemoryAdapter()

	if cfg.UsesMySQL() {
		db := openMySQL(ctx, cfg.MySQLDSN)
		closers = append(closers, func() { db.Close() })

		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.Migrate(ctx); err != nil {
			log.Fatalf("failed to migrate mysql: %v", err)
		}
		movements = mysqlAdapter
		if cfg.Backend == config.BackendMySQL {
			store = mysqlAdapter
		}
	}

	if cfg.Backend == config.BackendRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		log.Println("connected to redis")
		closers = append(closers, func() { rdb.Close() })

		store = storage.NewRedisAdapter(rdb)
	}
	log.Printf("using %s store, mysql journal=%t", cfg.Backend, cfg.UsesMySQL())

	// Movements are only queued when MySQL can persist them
	vendingService := service.NewVendingService(store, cfg.JournalQueueSize())

	if cfg.Bootstrap.Enabled() {
		bootstrap(ctx, vendingService, cfg.Bootstrap)
	}

	// Start worker pool
	var wg sync.WaitGroup
	if queue := vendingService.GetMovementQueue(); queue != nil && movements != nil {
		for i := 0; i < cfg.WorkerCount; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				service.RunMovementWorker(id, queue, movements)
			}(i)
		}
		log.Printf("started %d workers", cfg.WorkerCount)
	}

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	rpc.RegisterVendingMachineServer(grpcServer, handler.NewGRPCHandler(vendingService))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("gRPC server error: %v", err)
		}
	}()

	// Initialize HTTP server
	mux := http.NewServeMux()
	handler.NewHTTPHandler(vendingService).Register(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Println("gRPC server stopped")

	// Close movement queue and wait for workers
	vendingService.Close()
	wg.Wait()
	log.Println("workers stopped")

	for _, closeFn := range closers {
		closeFn()
	}
	log.Println("connections closed")
}

func openMySQL(ctx context.Context, dsn string) *sql.DB {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")
	return db
}

func bootstrap(ctx context.Context, svc *service.VendingService, b config.Bootstrap) {
	_, err := svc.Instantiate(ctx, b.Owner, service.InstantiateMsg{
		Chocolate: b.Chocolate,
		Water:     b.Water,
		Chips:     b.Chips,
	})
	switch {
	case err == nil:
		log.Printf("instantiated machine for %s: chocolate=%d water=%d chips=%d", b.Owner, b.Chocolate, b.Water, b.Chips)
	case errors.Is(err, service.ErrAlreadyInitialized):
		log.Println("machine already instantiated, skipping bootstrap")
	default:
		log.Fatalf("failed to bootstrap machine: %v", err)
	}
}
