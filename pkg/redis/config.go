package redis

import "time"

// Mode selects how the client connects to Redis.
type Mode string

const (
	// Standalone connects to a single Redis instance.
	Standalone Mode = "standalone"
	// Cluster connects to a Redis cluster.
	Cluster Mode = "cluster"
)

// Config is the Redis client configuration.
type Config struct {
	Addrs    []string `env:"ADDRS" envSeparator:"," envDefault:"localhost:6379"`
	Username string   `env:"USERNAME"`
	Password string   `env:"PASSWORD"`
	DB       int      `env:"DB" envDefault:"0"`
	Mode     Mode     `env:"MODE" envDefault:"standalone"`

	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	PoolSize        int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns    int           `env:"MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"30m"`
	PoolTimeout     time.Duration `env:"POOL_TIMEOUT" envDefault:"5s"`
	MaxRetries      int           `env:"MAX_RETRIES" envDefault:"3"`
	MinRetryBackoff time.Duration `env:"MIN_RETRY_BACKOFF" envDefault:"8ms"`
	MaxRetryBackoff time.Duration `env:"MAX_RETRY_BACKOFF" envDefault:"512ms"`
}
