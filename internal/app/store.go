package app

import (
	"context"
	"fmt"
	"net/url"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/inbox/internal/config"
	"github.com/MrSnakeDoc/inbox/internal/connect"
	"github.com/MrSnakeDoc/inbox/internal/logger"
	"github.com/MrSnakeDoc/inbox/internal/redis"
	"github.com/MrSnakeDoc/inbox/internal/render"
	"github.com/MrSnakeDoc/inbox/internal/store"
	"github.com/MrSnakeDoc/inbox/internal/store/memory"
	"github.com/MrSnakeDoc/inbox/internal/store/postgres"
	redisstore "github.com/MrSnakeDoc/inbox/internal/store/redis"
	"github.com/MrSnakeDoc/inbox/internal/store/sqlite"
	"github.com/MrSnakeDoc/inbox/internal/utils"
)

// Stores bundles the record store with the optional redis client behind its
// cache so both can be closed together.
type Stores struct {
	Records *store.Records
	Redis   *goredis.Client
}

// Close releases the redis client and the backend.
func (s *Stores) Close(log logger.Logger) {
	if s.Redis != nil {
		utils.MustClose(s.Redis, "redis", log)
	}
	utils.MustClose(s.Records, "record store", log)
}

// OpenStores opens the configured backend, waits for it to answer, applies
// the schema and attaches the redis cache when INBOX_REDIS_ADDR is set.
func OpenStores(ctx context.Context, cfg *config.Config, log logger.Logger) (*Stores, error) {
	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	err = connect.WaitReady(ctx, backend.Ping, connect.Options{
		Name:          cfg.DBDriver,
		Addr:          redactDSN(cfg),
		Timeout:       cfg.DBConnectTimeout,
		RetryInterval: cfg.DBRetryInterval,
		MaxWait:       cfg.DBMaxWait,
		PingTimeout:   cfg.DBPingTimeout,
		WarnThreshold: 3,
	}, log)
	if err != nil {
		utils.Close(backend)
		return nil, err
	}

	if err := backend.Migrate(ctx); err != nil {
		utils.Close(backend)
		return nil, fmt.Errorf("migrate %s: %w", cfg.DBDriver, err)
	}
	log.Info("record store ready", logger.String("driver", cfg.DBDriver))

	opts := []store.Option{}
	var client *goredis.Client
	if cfg.RedisAddr != "" {
		client, err = redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.DBConnectTimeout,
			RetryInterval:  cfg.DBRetryInterval,
			MaxWait:        cfg.DBMaxWait,
			PingTimeout:    cfg.DBPingTimeout,
			WarnThreshold:  3,
		}, log)
		if err != nil {
			utils.Close(backend)
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		opts = append(opts, store.WithCache(redisstore.NewCache(client, cfg.CacheTTL)))
		log.Info("redis record cache enabled", logger.Duration("ttl", cfg.CacheTTL))
	} else {
		log.Debug("redis record cache disabled")
	}

	records := store.NewRecords(backend, render.New(cfg.DescriptionMax), log, opts...)
	return &Stores{Records: records, Redis: client}, nil
}

func openBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.DBDSN)
	case config.DriverPostgres:
		return postgres.Open(cfg.DBDSN)
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
}

// redactDSN returns a DSN safe to log.
func redactDSN(cfg *config.Config) string {
	if cfg.DBDriver != config.DriverPostgres {
		return cfg.DBDSN
	}
	u, err := url.Parse(cfg.DBDSN)
	if err != nil || u.Host == "" {
		return "postgres"
	}
	return u.Redacted()
}
