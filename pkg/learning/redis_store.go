package learning

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrModelNotFound is returned when no model is published under a name
var ErrModelNotFound = errors.New("model not found")

// RedisConfig holds Redis model store configuration
type RedisConfig struct {
	RedisURL    string `json:"redis_url" yaml:"redis_url" toml:"redis_url"`
	KeyPrefix   string `json:"key_prefix" yaml:"key_prefix" toml:"key_prefix"`
	DatabaseNum int    `json:"database_num" yaml:"database_num" toml:"database_num"`
	BatchSize   int    `json:"batch_size" yaml:"batch_size" toml:"batch_size"`
}

// DefaultRedisConfig returns default Redis configuration
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		RedisURL:    "redis://localhost:6379",
		KeyPrefix:   "mbayes",
		DatabaseNum: 0,
		BatchSize:   500,
	}
}

// RedisStore publishes fitted models to Redis so other hosts can classify
// without retraining. A model named n is laid out as:
//
//	<prefix>:model:<n>           hash  alpha, vocab_size, total_records, classes, last_trained
//	<prefix>:model:<n>:class:<i> hash  label, count, probability
//	<prefix>:model:<n>:words:<i> hash  word -> count
type RedisStore struct {
	client *redis.Client
	config *RedisConfig
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, config *RedisConfig) (*RedisStore, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	opt.DB = config.DatabaseNum
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis connection failed: %w", err)
	}

	return &RedisStore{client: client, config: config}, nil
}

// Close closes the Redis connection
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

// Publish replaces the model stored under name with nb
func (rs *RedisStore) Publish(ctx context.Context, name string, nb *NaiveBayes) error {
	stale, err := rs.modelKeys(ctx, name)
	if err != nil && !errors.Is(err, ErrModelNotFound) {
		return err
	}

	s := nb.Snapshot()
	pipe := rs.client.TxPipeline()
	if len(stale) > 0 {
		pipe.Del(ctx, stale...)
	}

	for i, c := range s.Classes {
		pipe.HSet(ctx, rs.classKey(name, i),
			"label", c.Label,
			"count", c.Count,
			"probability", formatFloat(c.Probability),
		)

		words := make([]interface{}, 0, 2*rs.batchSize())
		for _, wc := range c.Words {
			words = append(words, wc.Word, wc.Count)
			if len(words) >= 2*rs.batchSize() {
				pipe.HSet(ctx, rs.wordsKey(name, i), words...)
				words = words[:0:0]
			}
		}
		if len(words) > 0 {
			pipe.HSet(ctx, rs.wordsKey(name, i), words...)
		}
	}

	pipe.HSet(ctx, rs.modelKey(name),
		"alpha", formatFloat(s.Alpha),
		"vocab_size", s.VocabSize,
		"total_records", s.TotalRecords,
		"classes", len(s.Classes),
		"last_trained", s.LastTrained.Unix(),
	)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish model %q: %w", name, err)
	}
	return nil
}

// Fetch rebuilds the model stored under name. Word order inside a class is
// not kept by Redis and comes back sorted alphabetically.
func (rs *RedisStore) Fetch(ctx context.Context, name string) (*NaiveBayes, error) {
	meta, err := rs.client.HGetAll(ctx, rs.modelKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read model %q: %w", name, err)
	}
	if len(meta) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrModelNotFound, name)
	}

	s := &Snapshot{}
	var classes int
	var lastTrained int64
	for field, dst := range map[string]interface{}{
		"alpha":         &s.Alpha,
		"vocab_size":    &s.VocabSize,
		"total_records": &s.TotalRecords,
		"classes":       &classes,
		"last_trained":  &lastTrained,
	} {
		if err := parseField(meta, field, dst); err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
	}
	s.LastTrained = time.Unix(lastTrained, 0)

	pipe := rs.client.Pipeline()
	classCmds := make([]*redis.MapStringStringCmd, classes)
	wordCmds := make([]*redis.MapStringStringCmd, classes)
	for i := 0; i < classes; i++ {
		classCmds[i] = pipe.HGetAll(ctx, rs.classKey(name, i))
		wordCmds[i] = pipe.HGetAll(ctx, rs.wordsKey(name, i))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to read classes of model %q: %w", name, err)
	}

	s.Classes = make([]ClassSnapshot, classes)
	for i := 0; i < classes; i++ {
		fields := classCmds[i].Val()
		c := ClassSnapshot{Label: fields["label"]}
		if err := parseField(fields, "count", &c.Count); err != nil {
			return nil, fmt.Errorf("model %q class %d: %w", name, i, err)
		}
		if err := parseField(fields, "probability", &c.Probability); err != nil {
			return nil, fmt.Errorf("model %q class %d: %w", name, i, err)
		}

		words := wordCmds[i].Val()
		c.Words = make([]WordCount, 0, len(words))
		for word, raw := range words {
			count, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("model %q class %d word %q: %w", name, i, word, err)
			}
			c.Words = append(c.Words, WordCount{Word: word, Count: count})
		}
		sort.Slice(c.Words, func(a, b int) bool { return c.Words[a].Word < c.Words[b].Word })
		s.Classes[i] = c
	}

	return FromSnapshot(s)
}

// Delete removes the model stored under name
func (rs *RedisStore) Delete(ctx context.Context, name string) error {
	keys, err := rs.modelKeys(ctx, name)
	if err != nil {
		return err
	}
	if err := rs.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete model %q: %w", name, err)
	}
	return nil
}

// modelKeys lists every key of the model currently stored under name
func (rs *RedisStore) modelKeys(ctx context.Context, name string) ([]string, error) {
	raw, err := rs.client.HGet(ctx, rs.modelKey(name), "classes").Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", ErrModelNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model %q: %w", name, err)
	}
	classes, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("model %q: invalid class count %q", name, raw)
	}

	keys := []string{rs.modelKey(name)}
	for i := 0; i < classes; i++ {
		keys = append(keys, rs.classKey(name, i), rs.wordsKey(name, i))
	}
	return keys, nil
}

// Helper methods
func (rs *RedisStore) modelKey(name string) string {
	return fmt.Sprintf("%s:model:%s", rs.config.KeyPrefix, name)
}

func (rs *RedisStore) classKey(name string, i int) string {
	return fmt.Sprintf("%s:class:%d", rs.modelKey(name), i)
}

func (rs *RedisStore) wordsKey(name string, i int) string {
	return fmt.Sprintf("%s:words:%d", rs.modelKey(name), i)
}

func (rs *RedisStore) batchSize() int {
	if rs.config.BatchSize > 0 {
		return rs.config.BatchSize
	}
	return 500
}

func parseField(fields map[string]string, name string, dst interface{}) error {
	raw, ok := fields[name]
	if !ok {
		return fmt.Errorf("missing field %q", name)
	}
	var err error
	switch v := dst.(type) {
	case *int:
		*v, err = strconv.Atoi(raw)
	case *int64:
		*v, err = strconv.ParseInt(raw, 10, 64)
	case *float64:
		*v, err = strconv.ParseFloat(raw, 64)
	default:
		return fmt.Errorf("unsupported field type %T", dst)
	}
	if err != nil {
		return fmt.Errorf("invalid field %q: %w", name, err)
	}
	return nil
}
