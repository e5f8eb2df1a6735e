package bootstrap

import (
	"context"
	"fmt"

	"audio-eval-be/internal/config"
	"audio-eval-be/internal/controller"
	"audio-eval-be/internal/observability"
	"audio-eval-be/internal/pkg/logger"
	"audio-eval-be/internal/repository/contract"
	"audio-eval-be/internal/repository/feedback"
	"audio-eval-be/internal/repository/memory"
	"audio-eval-be/internal/repository/redisstore"
	"audio-eval-be/internal/service"
	"audio-eval-be/pkg/events"
	"audio-eval-be/pkg/formurl"
	pktNats "audio-eval-be/pkg/nats"
	"audio-eval-be/pkg/playlist"
	"audio-eval-be/pkg/session"
	"audio-eval-be/pkg/source"
	"audio-eval-be/pkg/source/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const (
	staticAudioPath = "/static/"
	proxyAudioPath  = "/audio/"
)

type Container struct {
	// Controllers
	PlaylistController   controller.IPlaylistController
	FeedbackController   controller.IFeedbackController
	AudioController      controller.IAudioController
	DiagnosticController controller.IDiagnosticController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger   logger.ILogger
	Registry *prometheus.Registry
	Source   source.Source

	// StaticDir is served under /static when the local provider is active.
	StaticDir string

	closers []func()
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics("audio_eval", registry)
	if err != nil {
		return nil, err
	}

	c := &Container{Logger: sysLogger, Registry: registry}

	// 2. Audio source
	src, err := factory.NewSource(context.Background(), factory.Options{
		Provider:        cfg.Source.Provider,
		Extensions:      cfg.Source.Extensions,
		Timeout:         cfg.Source.Timeout,
		LocalFolder:     cfg.Source.LocalFolder,
		BoxFolderID:     cfg.Source.BoxFolderID,
		BoxAccessToken:  cfg.Source.BoxAccessToken,
		BoxClientID:     cfg.Source.BoxClientID,
		BoxClientSecret: cfg.Source.BoxClientSecret,
		BoxEnterpriseID: cfg.Source.BoxEnterpriseID,
		DriveFolderID:   cfg.Source.DriveFolderID,
		DriveCredsFile:  cfg.Source.DriveCredsFile,
		DriveAPIKey:     cfg.Source.DriveAPIKey,
		CacheDuration:   cfg.Source.CacheDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("audio source: %w", err)
	}
	c.Source = src
	sysLogger.Info("Bootstrap", "Audio source ready", map[string]interface{}{
		"provider": src.Name(),
		"location": src.Location(),
	})

	audioBasePath := proxyAudioPath
	if cfg.Source.Provider == config.ProviderLocal {
		audioBasePath = staticAudioPath
		c.StaticDir = cfg.Source.LocalFolder
	}

	// 3. Session storage
	sessionRepo, err := c.newSessionRepository(cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	sessions := session.NewManager(sessionRepo)

	// 4. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var remote events.Publisher
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS unavailable, feedback events stay in-process", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			remote = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 5. Services
	forms := formurl.New(cfg.Form.URL, cfg.Form.FilenameEntry)
	sink := feedback.NewJSONFileSink(cfg.Feedback.FilePath)
	cycler := playlist.NewCycler(nil)

	publisherService := service.NewPublisherService(cfg.Feedback.Topic, pubSub, remote, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Feedback.Topic, sysLogger)

	playlistService := service.NewPlaylistService(src, sessions, cycler, forms, audioBasePath, metrics, sysLogger)
	feedbackService := service.NewFeedbackService(sink, sessions, publisherService, metrics, sysLogger)
	audioService := service.NewAudioService(src, metrics, sysLogger)
	diagnosticService := service.NewDiagnosticService(src, sessions, forms, sink, consumerService)

	// 6. Controllers
	c.PlaylistController = controller.NewPlaylistController(playlistService)
	c.FeedbackController = controller.NewFeedbackController(feedbackService)
	c.AudioController = controller.NewAudioController(audioService)
	c.DiagnosticController = controller.NewDiagnosticController(diagnosticService)
	c.ConsumerService = consumerService

	return c, nil
}

func (c *Container) newSessionRepository(cfg *config.Config, sysLogger logger.ILogger) (contract.SessionRepository, error) {
	if cfg.Session.Store != config.SessionStoreRedis {
		return memory.NewSessionRepository(cfg.Session.TTL), nil
	}

	opt, err := redis.ParseURL(cfg.Session.RedisURL)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{
			"error": err.Error(),
		})
		opt = &redis.Options{
			Addr: cfg.Session.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis session store: %w", err)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	sysLogger.Info("Bootstrap", "Using Redis session store", map[string]interface{}{
		"addr": opt.Addr,
	})
	return redisstore.NewSessionRepository(rdb, cfg.Session.TTL), nil
}

// Close releases connections in reverse order of creation and flushes logs.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
