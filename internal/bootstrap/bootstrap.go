// Package bootstrap wires configuration into the tool set, executor and
// report sinks shared by the research-crew CLI and the worker manager.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"research-crew/internal/common/aws"
	"research-crew/internal/common/config"
	"research-crew/internal/common/database"
	"research-crew/internal/common/logger"
	"research-crew/internal/crew"
	"research-crew/internal/report"
	"research-crew/internal/tools"
	"research-crew/internal/tools/communication"
	"research-crew/internal/tools/knowledge"
	"research-crew/internal/tools/market"
	"research-crew/internal/tools/sentiment"
	"research-crew/internal/tools/strategy"
	"research-crew/internal/tools/websearch"
	emailsend "research-crew/internal/workers/communication/email-send"
	reportnotify "research-crew/internal/workers/communication/report-notify"
)

// Cleanup releases whatever a constructor opened. It is never nil.
type Cleanup func()

func noCleanup() {}

// RetryWithBackoff runs operation until it succeeds, doubling the delay after
// each failed attempt.
func RetryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// Searcher returns the web-search backend. An unconfigured backend yields a
// searcher that fails every call, and a reachable Redis puts a cache in front.
func Searcher(ctx context.Context, cfg *config.Config, log logger.Logger) (websearch.Searcher, Cleanup) {
	var searcher websearch.Searcher
	httpSearcher, err := websearch.NewHTTPSearcher(cfg.Tools.WebSearch)
	if err != nil {
		log.Warn("web search unavailable", map[string]interface{}{"error": err.Error()})
		searcher = websearch.Unavailable(err)
	} else {
		searcher = httpSearcher
	}

	if !cfg.Cache.Enabled {
		return searcher, noCleanup
	}

	rdb, err := database.NewRedis(cfg.Cache.Redis)
	if err == nil {
		err = rdb.Ping(ctx)
	}
	if err != nil {
		log.Warn("search cache disabled", map[string]interface{}{"error": err.Error()})
		if rdb != nil {
			_ = rdb.Close()
		}
		return searcher, noCleanup
	}

	ttl := time.Duration(cfg.Cache.TTL) * time.Second
	return websearch.NewCachedSearcher(searcher, rdb.Client, ttl, log), func() { _ = rdb.Close() }
}

// ToolSet builds the six built-in tools around searcher.
func ToolSet(searcher websearch.Searcher, log logger.Logger) (*tools.Set, error) {
	return tools.NewSet(
		websearch.New(searcher, log),
		market.New(),
		sentiment.New(),
		strategy.New(),
		communication.New(),
		knowledge.New(),
	)
}

// Executor builds the default pipeline over set and an executor honoring
// pipeline.error_policy.
func Executor(cfg *config.Config, set *tools.Set, log logger.Logger, opts ...crew.Option) (*crew.Executor, error) {
	p, err := crew.BuildPipeline(crew.DefaultDefinition(set))
	if err != nil {
		return nil, err
	}
	return crew.NewExecutor(p, cfg.Pipeline.ErrorPolicy, log, opts...)
}

// OpenArchive connects to Postgres and makes sure the reports table exists.
func OpenArchive(ctx context.Context, cfg *config.Config, log logger.Logger) (*report.Archive, Cleanup, error) {
	pg, err := database.NewPostgres(cfg.Archive.Postgres)
	if err != nil {
		return nil, noCleanup, err
	}
	if err := pg.Ping(ctx); err != nil {
		_ = pg.Close()
		return nil, noCleanup, fmt.Errorf("postgres unreachable: %w", err)
	}

	archive := report.NewArchive(pg.DB, log)
	if err := archive.EnsureSchema(ctx); err != nil {
		_ = pg.Close()
		return nil, noCleanup, err
	}
	return archive, func() { _ = pg.Close() }, nil
}

func OpenIndex(cfg *config.Config, log logger.Logger) (*report.Index, error) {
	es, err := database.NewElasticsearch(cfg.Index.Elasticsearch)
	if err != nil {
		return nil, err
	}
	return report.NewIndex(es.Client, cfg.Index.Name, log), nil
}

// Notifier returns the SNS "report ready" publisher, or nil when disabled.
func Notifier(ctx context.Context, cfg *config.Config, log logger.Logger) (*reportnotify.Notifier, *aws.SNSClient, error) {
	ncfg := reportnotify.ConfigFromApp(cfg)
	if !ncfg.Enabled {
		return nil, nil, nil
	}
	client, err := aws.NewSNSClient(ctx, ncfg.AWSRegion)
	if err != nil {
		return nil, nil, err
	}
	return reportnotify.NewNotifier(client, ncfg.TopicARN, log), client, nil
}

// Sinks opens every enabled optional sink. A sink that cannot be opened is
// logged and left out.
func Sinks(ctx context.Context, cfg *config.Config, log logger.Logger) (report.Sinks, Cleanup) {
	var sinks report.Sinks
	cleanup := Cleanup(noCleanup)

	if cfg.Archive.Enabled {
		archive, closeArchive, err := OpenArchive(ctx, cfg, log)
		if err != nil {
			log.Warn("report archive disabled", map[string]interface{}{"error": err.Error()})
		} else {
			sinks.Archive = archive
			cleanup = closeArchive
		}
	}

	if cfg.Index.Enabled {
		index, err := OpenIndex(cfg, log)
		if err != nil {
			log.Warn("report index disabled", map[string]interface{}{"error": err.Error()})
		} else {
			sinks.Index = index
		}
	}

	notifier, _, err := Notifier(ctx, cfg, log)
	switch {
	case err != nil:
		log.Warn("report notifications disabled", map[string]interface{}{"error": err.Error()})
	case notifier != nil:
		sinks.Notifier = notifier
	}

	return sinks, cleanup
}

// MailTransport returns the SES transport when mail.transport is ses. It
// returns nil for SMTP, whose connections are opened per send.
func MailTransport(ctx context.Context, cfg *config.Config, log logger.Logger) emailsend.Transport {
	if cfg.Mail.Transport != config.MailTransportSES {
		return nil
	}
	client, err := aws.NewSESClient(ctx, cfg.AWS.Region)
	if err != nil {
		log.Warn("ses client unavailable", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return emailsend.NewSESTransport(client)
}

func Mailer(ctx context.Context, cfg *config.Config, log logger.Logger) *emailsend.Mailer {
	return emailsend.NewMailer(emailsend.ConfigFromApp(cfg), MailTransport(ctx, cfg, log), log)
}

// Logger builds the zap-backed logger from the logging section.
func Logger(cfg *config.Config) (logger.Logger, func(), error) {
	zl, err := logger.NewFromConfig(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return logger.NewZapAdapter(zl), func() { _ = zl.Sync() }, nil
}
