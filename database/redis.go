package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"codelens/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis parses REDIS_URL and checks the server answers.
func ConnectRedis(cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to redis successfully", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}
