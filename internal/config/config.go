package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

type Config struct {
	HTTPAddr    string `env:"VENDING_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr    string `env:"VENDING_GRPC_ADDR" envDefault:":50051"`
	Backend     string `env:"VENDING_STORE_BACKEND" envDefault:"redis"`
	MySQLDSN    string `env:"VENDING_MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/vending?parseTime=true"`
	RedisAddr   string `env:"VENDING_REDIS_ADDR" envDefault:"localhost:6379"`
	WorkerCount int    `env:"VENDING_WORKER_COUNT" envDefault:"10"`
	QueueSize   int    `env:"VENDING_QUEUE_SIZE" envDefault:"10000"`

	// JournalMySQL writes movements to MySQL even when the record lives elsewhere.
	JournalMySQL bool `env:"VENDING_JOURNAL_MYSQL" envDefault:"false"`

	// Bootstrap instantiates the machine at startup when the store is empty.
	Bootstrap Bootstrap `envPrefix:"VENDING_BOOTSTRAP_"`
}

type Bootstrap struct {
	Owner     string `env:"OWNER"`
	Chocolate uint32 `env:"CHOCOLATE"`
	Water     uint32 `env:"WATER"`
	Chips     uint32 `env:"CHIPS"`
}

func (b Bootstrap) Enabled() bool {
	return b.Owner != ""
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UsesMySQL reports whether a MySQL connection is needed.
func (c Config) UsesMySQL() bool {
	return c.Backend == BackendMySQL || c.JournalMySQL
}

// JournalQueueSize is the movement queue size to use. It is zero, which
// disables the journal, unless movements have a MySQL table to go to.
func (c Config) JournalQueueSize() int {
	if !c.UsesMySQL() {
		return 0
	}
	return c.QueueSize
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis, BackendMySQL:
	default:
		return fmt.Errorf("unknown store backend %q", c.Backend)
	}
	if c.WorkerCount < 0 {
		return fmt.Errorf("worker count must not be negative, got %d", c.WorkerCount)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("queue size must not be negative, got %d", c.QueueSize)
	}
	return nil
}
