package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config is filled from REDIS_URL and REDIS_{READ,WRITE,DIAL}_TIMEOUT
// (seconds). Redis is only needed by the report and assist commands, so the
// URL is optional here and checked when a client is built.
type Config struct {
	URL          string `split_words:"true"`
	ReadTimeout  int    `split_words:"true" default:"3"`
	WriteTimeout int    `split_words:"true" default:"3"`
	DialTimeout  int    `split_words:"true" default:"5"`
}

var ErrNoURL = errors.New("redis: REDIS_URL is not set")

// Options parses the URL and applies the configured timeouts.
func (r Config) Options() (*redis.Options, error) {
	if r.URL == "" {
		return nil, ErrNoURL
	}
	opts, err := redis.ParseURL(r.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	if r.ReadTimeout > 0 {
		opts.ReadTimeout = time.Duration(r.ReadTimeout) * time.Second
	}
	if r.WriteTimeout > 0 {
		opts.WriteTimeout = time.Duration(r.WriteTimeout) * time.Second
	}
	if r.DialTimeout > 0 {
		opts.DialTimeout = time.Duration(r.DialTimeout) * time.Second
	}
	return opts, nil
}

// New connects and pings. The client is closed again when the ping fails.
func (r Config) New(ctx context.Context) (*redis.Client, error) {
	opts, err := r.Options()
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return client, nil
}
