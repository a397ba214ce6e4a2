package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"channel_sync/internal/cache"
	"channel_sync/internal/config"
	"channel_sync/internal/domain"
	"channel_sync/internal/metrics"
	"channel_sync/internal/publisher"
	"channel_sync/internal/remote/counter"
	"channel_sync/internal/remote/gist"
	"channel_sync/internal/schema"
	"channel_sync/internal/service"
	"channel_sync/internal/storage/memory"
	"channel_sync/internal/storage/postgres"
	"channel_sync/internal/storage/redis"
)

// app holds the wired components shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	channel *service.ChannelService
	closers []func() error
}

func newApp(ctx context.Context, configPath string, withPublisher bool) (*app, error) {
	cfg, logger, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, metrics: metrics.New()}

	kv, err := a.openKV(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var pub service.Publisher
	if withPublisher && cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, rabbitMQ.Close)
		pub = rabbitMQ
	}

	codec := schema.NewCodec(schema.Defaults{
		ChannelDescription: cfg.Channel.DefaultDescription,
		CtaText:            cfg.Channel.DefaultCtaText,
	})

	gistClient := gist.NewClient(
		gist.WithAPIBaseURL(cfg.Remote.APIBaseURL),
		gist.WithFetchTimeout(cfg.Remote.FetchTimeout),
		gist.WithDescription(cfg.Remote.Description),
		gist.WithLogger(logger),
	)

	counterClient := counter.New(counter.Config{
		BaseURL:        cfg.Counter.BaseURL,
		Timeout:        cfg.Counter.Timeout,
		MaxAttempts:    cfg.Counter.Retry.MaxAttempts,
		InitialBackoff: cfg.Counter.Retry.InitialBackoff,
		MaxBackoff:     cfg.Counter.Retry.MaxBackoff,
	}, logger)

	a.channel = service.NewChannelService(
		gistClient,
		counterClient,
		cache.NewStore(kv, codec, logger),
		pub,
		codec,
		a.metrics,
		logger,
		service.Config{
			RawURL:              cfg.Remote.RawURL,
			Filename:            cfg.Remote.Filename,
			CounterPrefix:       cfg.Counter.Prefix,
			ExportPrefix:        cfg.Channel.ExportPrefix,
			LiveViewDelay:       cfg.Counter.LiveViewDelay,
			LiveViewConcurrency: cfg.Counter.Concurrency,
			NotificationLimit:   cfg.Channel.NotificationLimit,
			DefaultCredentials: domain.Credentials{
				Username: cfg.Admin.Username,
				Password: cfg.Admin.Password,
			},
		},
	)

	return a, nil
}

func (a *app) openKV(ctx context.Context) (cache.KV, error) {
	switch a.cfg.Cache.Driver {
	case "postgres":
		db, err := sqlx.Connect("postgres", a.cfg.Cache.Database.DSN())
		if err != nil {
			a.logger.Error("failed to connect to database", "error", err)
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		a.logger.Info("connected to database")
		return postgres.NewKVStore(db), nil

	case "redis":
		store, err := redis.New(ctx, redis.Config{
			Addr:      a.cfg.Cache.Redis.Addr,
			Password:  a.cfg.Cache.Redis.Password,
			DB:        a.cfg.Cache.Redis.DB,
			KeyPrefix: a.cfg.Cache.Redis.KeyPrefix,
		})
		if err != nil {
			a.logger.Error("failed to connect to redis", "error", err)
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		a.logger.Info("connected to redis", "addr", a.cfg.Cache.Redis.Addr)
		return store, nil
	}

	a.logger.Warn("using in-memory cache, local state is lost on exit")
	return memory.NewKVStore(), nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", "error", err)
		}
	}
	a.closers = nil
}
