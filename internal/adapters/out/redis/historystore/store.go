// Package historystore keeps cached test history in Redis so that it
// survives console restarts and is shared between console instances.
package historystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"labconsole/internal/core/domain/model/history"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "labconsole:history"
	DefaultTTL    = 12 * time.Hour

	scanCount = 100
)

var _ ports.HistoryStore = (*Store)(nil)

type entryDTO struct {
	OrderDate   time.Time `json:"orderDate"`
	ResultValue string    `json:"resultValue"`
	ResultUnit  string    `json:"resultUnit"`
	ResultFlag  string    `json:"resultFlag"`
}

// Store is a ports.HistoryStore on top of Redis. Each row is one string key
// holding the JSON encoded series; a scope is a key prefix.
type Store struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL bounds how long an entry lives. Zero keeps entries until their
// scope is deleted.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

func NewStore(rdb redis.UniversalClient, opts ...Option) *Store {
	s := &Store{rdb: rdb, prefix: DefaultPrefix, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect creates a client and verifies the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *Store) Get(ctx context.Context, scope string, orderTestID int64) (history.Series, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key(scope, orderTestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read history %s/%d: %w", scope, orderTestID, err)
	}

	var dtos []entryDTO
	if err = json.Unmarshal(raw, &dtos); err != nil {
		return nil, false, fmt.Errorf("decode history %s/%d: %w", scope, orderTestID, err)
	}

	series := make(history.Series, 0, len(dtos))
	for _, d := range dtos {
		series = append(series, history.Entry{
			OrderDate:   d.OrderDate,
			ResultValue: d.ResultValue,
			ResultUnit:  d.ResultUnit,
			ResultFlag:  laborder.ResultFlag(d.ResultFlag),
		})
	}
	return series, true, nil
}

func (s *Store) Put(ctx context.Context, scope string, orderTestID int64, series history.Series) error {
	dtos := make([]entryDTO, 0, len(series))
	for _, e := range series {
		dtos = append(dtos, entryDTO{
			OrderDate:   e.OrderDate,
			ResultValue: e.ResultValue,
			ResultUnit:  e.ResultUnit,
			ResultFlag:  e.ResultFlag.String(),
		})
	}

	raw, err := json.Marshal(dtos)
	if err != nil {
		return err
	}
	if err = s.rdb.Set(ctx, s.key(scope, orderTestID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("write history %s/%d: %w", scope, orderTestID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, scope string, orderTestID int64) error {
	return s.rdb.Del(ctx, s.key(scope, orderTestID)).Err()
}

// DeleteScope removes every key of scope. Keys are found with SCAN so the
// server is never blocked.
func (s *Store) DeleteScope(ctx context.Context, scope string) error {
	iter := s.rdb.Scan(ctx, 0, s.scopePrefix(scope)+"*", scanCount).Iterator()

	batch := make([]string, 0, scanCount)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanCount {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan history scope %s: %w", scope, err)
	}

	if len(batch) > 0 {
		return s.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

func (s *Store) scopePrefix(scope string) string {
	return s.prefix + ":" + scope + ":"
}

func (s *Store) key(scope string, orderTestID int64) string {
	return s.scopePrefix(scope) + strconv.FormatInt(orderTestID, 10)
}
