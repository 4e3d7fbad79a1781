package websearch

import (
	"context"
	"errors"
	"testing"
	"time"

	"research-crew/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSearcher struct {
	calls   int
	results []Result
	err     error
}

func (s *countingSearcher) Search(_ context.Context, _ string) ([]Result, error) {
	s.calls++
	return s.results, s.err
}

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestCachedSearcher_HitAfterMiss(t *testing.T) {
	rdb, mr := setupRedis(t)
	next := &countingSearcher{results: []Result{{Title: "Acme", Link: "https://acme.example"}}}
	cached := NewCachedSearcher(next, rdb, time.Hour, logger.NewTestLogger(t))

	first, err := cached.Search(context.Background(), "Acme  Co")
	require.NoError(t, err)
	second, err := cached.Search(context.Background(), "acme co")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("crew:search:acme co"))
	assert.Equal(t, time.Hour, mr.TTL("crew:search:acme co"))
}

func TestCachedSearcher_ErrorsAreNotCached(t *testing.T) {
	rdb, mr := setupRedis(t)
	next := &countingSearcher{err: errors.New("backend down")}
	cached := NewCachedSearcher(next, rdb, time.Hour, logger.NewNoOpLogger())

	_, err := cached.Search(context.Background(), "acme")
	require.Error(t, err)
	assert.False(t, mr.Exists("crew:search:acme"))
}

func TestCachedSearcher_RedisFailureFallsThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	next := &countingSearcher{results: []Result{{Title: "Acme"}}}
	cached := NewCachedSearcher(next, db, time.Minute, logger.NewNoOpLogger())

	mock.ExpectGet("crew:search:acme").SetErr(errors.New("connection refused"))
	mock.Regexp().ExpectSet("crew:search:acme", `.*`, time.Minute).SetErr(errors.New("connection refused"))

	results, err := cached.Search(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, []Result{{Title: "Acme"}}, results)
	assert.Equal(t, 1, next.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
