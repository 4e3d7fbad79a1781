package bootstrap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"research-crew/internal/common/config"
	commonerrors "research-crew/internal/common/errors"
	"research-crew/internal/common/logger"
	"research-crew/internal/tools"
	"research-crew/internal/tools/websearch"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	calls := 0
	err := RetryWithBackoff(func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "probe")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = RetryWithBackoff(func() error {
		calls++
		return fmt.Errorf("down")
	}, 2, time.Millisecond, log, "probe")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "probe failed after 2 attempts: down")
}

func TestSearcher_Unconfigured(t *testing.T) {
	cfg := &config.Config{}

	searcher, cleanup := Searcher(context.Background(), cfg, logger.NewTestLogger(t))
	defer cleanup()

	_, err := searcher.Search(context.Background(), "acme")
	se, ok := commonerrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeSearchNotConfigured, se.Code)
}

func TestSearcher_CacheEnabled(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Cache: config.CacheConfig{
			Enabled: true,
			TTL:     60,
			Redis:   config.RedisConfig{Address: mr.Addr()},
		},
	}

	searcher, cleanup := Searcher(context.Background(), cfg, logger.NewTestLogger(t))
	defer cleanup()

	_, cached := searcher.(*websearch.CachedSearcher)
	assert.True(t, cached)
}

func TestSearcher_CacheUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := &config.Config{
		Cache: config.CacheConfig{
			Enabled: true,
			Redis:   config.RedisConfig{Address: addr},
		},
	}

	searcher, cleanup := Searcher(context.Background(), cfg, logger.NewTestLogger(t))
	defer cleanup()

	_, cached := searcher.(*websearch.CachedSearcher)
	assert.False(t, cached)
}

func TestToolSetAndExecutor(t *testing.T) {
	log := logger.NewTestLogger(t)
	set, err := ToolSet(websearch.Unavailable(fmt.Errorf("offline")), log)
	require.NoError(t, err)
	assert.Equal(t, []string{
		tools.IDCommunicationOptimization,
		tools.IDKnowledgeBase,
		tools.IDMarketAnalysis,
		tools.IDSentimentAnalysis,
		tools.IDStrategicPlanning,
		tools.IDWebSearch,
	}, set.IDs())

	exec, err := Executor(&config.Config{}, set, log)
	require.NoError(t, err)
	assert.Equal(t, 5, exec.Pipeline().Len())

	_, err = Executor(&config.Config{Pipeline: config.PipelineConfig{ErrorPolicy: "ignore"}}, set, log)
	assert.Error(t, err)
}

func TestSinks_NothingEnabled(t *testing.T) {
	sinks, cleanup := Sinks(context.Background(), &config.Config{}, logger.NewTestLogger(t))
	defer cleanup()

	assert.Nil(t, sinks.Archive)
	assert.Nil(t, sinks.Index)
	assert.Nil(t, sinks.Notifier)
}

func TestMailer_SMTP(t *testing.T) {
	cfg := &config.Config{Mail: config.MailConfig{Transport: config.MailTransportSMTP}}

	mailer := Mailer(context.Background(), cfg, logger.NewTestLogger(t))
	require.NotNil(t, mailer)
	// incomplete settings fail closed instead of dialing
	assert.False(t, mailer.SendReport(context.Background(), "ceo@example.com", "Acme", "ts", "missing.txt"))
}
