package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/wastewise/wastewise-core/internal/core/error"
	logx "github.com/wastewise/wastewise-core/pkg/logger"
)

type StoreConfig struct {
	KeyPrefix    string        `envconfig:"REPORT_KEY_PREFIX" default:"wastewise:report"`
	TTL          time.Duration `envconfig:"REPORT_TTL" default:"24h"`
	StreamMaxLen int64         `envconfig:"REPORT_STREAM_MAX_LEN" default:"500"`
}

const snapshotField = "snapshot"

// Store keeps the most recent snapshot under <prefix>:latest and every
// published snapshot in the <prefix>:stream stream.
type Store struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
	maxLen int64
}

func NewStore(rdb redis.Cmdable, cfg StoreConfig) *Store {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "wastewise:report"
	}
	return &Store{rdb: rdb, prefix: prefix, ttl: cfg.TTL, maxLen: cfg.StreamMaxLen}
}

func (s *Store) latestKey() string {
	return s.prefix + ":latest"
}

func (s *Store) streamKey() string {
	return s.prefix + ":stream"
}

// Publish stores snap as the latest snapshot and appends it to the stream in
// one MULTI/EXEC. It returns the stream entry ID.
func (s *Store) Publish(ctx context.Context, snap *Snapshot) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("publish: nil snapshot")
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	var add *redis.StringCmd
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.latestKey(), b, s.ttl)
		args := &redis.XAddArgs{
			Stream: s.streamKey(),
			Values: map[string]any{snapshotField: string(b)},
		}
		if s.maxLen > 0 {
			args.MaxLen = s.maxLen
			args.Approx = true
		}
		add = pipe.XAdd(ctx, args)
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("key", s.latestKey()).Msg("failed to publish report snapshot")
		return "", errx.WrapRedis(err)
	}

	logx.Info().Str("snapshot_id", snap.ID).Str("entry_id", add.Val()).Msg("report snapshot published")
	return add.Val(), nil
}

// Latest returns the most recently published snapshot. A missing or expired
// key is a 404 AppError.
func (s *Store) Latest(ctx context.Context) (*Snapshot, error) {
	raw, err := s.rdb.Get(ctx, s.latestKey()).Bytes()
	if err != nil {
		if err != redis.Nil {
			logx.Error().Err(err).Str("key", s.latestKey()).Msg("failed to load latest report snapshot")
		}
		return nil, errx.WrapRedis(err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// History returns up to n snapshots, newest first.
func (s *Store) History(ctx context.Context, n int64) ([]*Snapshot, error) {
	if n <= 0 {
		return []*Snapshot{}, nil
	}

	entries, err := s.rdb.XRevRangeN(ctx, s.streamKey(), "+", "-", n).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", s.streamKey()).Msg("failed to read report stream")
		return nil, errx.WrapRedis(err)
	}

	out := make([]*Snapshot, 0, len(entries))
	for _, e := range entries {
		v, ok := e.Values[snapshotField].(string)
		if !ok {
			logx.Warn().Str("entry_id", e.ID).Msg("report stream entry without snapshot field")
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal([]byte(v), &snap); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot %s: %w", e.ID, err)
		}
		out = append(out, &snap)
	}
	return out, nil
}
