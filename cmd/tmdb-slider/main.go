package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Saber4Dev/tmdb-slider/pkg/background"
	"github.com/Saber4Dev/tmdb-slider/pkg/cache"
	"github.com/Saber4Dev/tmdb-slider/pkg/settings"
	"github.com/Saber4Dev/tmdb-slider/pkg/slider"
	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

const (
	version = "0.1.0"
)

func main() {
	// Logger for parsing the config, the level and encoding are only known afterwards
	logger, err := newLogger("info", "console")
	if err != nil {
		panic(err.Error())
	}

	logger.Info("Parsing config...")
	config := parseConfig(logger)
	config.validate(logger)
	configJSON, err := json.Marshal(config)
	if err != nil {
		logger.Fatal("Couldn't marshal config to JSON", zap.Error(err))
	}

	configuredLogger, err := newLogger(config.LogLevel, config.LogEncoding)
	if err != nil {
		logger.Fatal("Couldn't create logger", zap.Error(err))
	}
	logger = configuredLogger
	defer logger.Sync()

	logger.Info("Parsed config", zap.String("config", string(configJSON)), zap.String("version", version))

	cache.RegisterTypes()
	fs := afero.NewOsFs()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Settings

	provider, err := settings.NewFileProvider(fs, config.SettingsPath, config.APIKey, logger)
	if err != nil {
		logger.Fatal("Couldn't load settings", zap.Error(err))
	}
	if provider.APIKey() == "" {
		logger.Warn("No TMDb API key configured, sliders will only show a hint until one is set")
	}

	// Cache

	backend, err := newCacheBackend(ctx, config, fs, logger)
	if err != nil {
		logger.Fatal("Couldn't set up cache", zap.Error(err), zap.String("cacheBackend", config.CacheBackend))
	}

	// Clients

	tmdbOpts := tmdb.NewClientOpts(config.BaseURLtmdb, config.Language, config.Timeout, config.CacheAge, config.SocksProxyAddr)
	tmdbClient, err := tmdb.NewClient(tmdbOpts, provider, backend.store, logger)
	if err != nil {
		logger.Fatal("Couldn't create TMDb client", zap.Error(err))
	}
	renderer := slider.NewRenderer(tmdbClient, provider, logger)
	bgService := background.NewService(tmdbClient, provider, logger)

	app := createApp(tmdbClient, backend, config.CacheBackend, renderer, bgService, logger)

	addr := config.BindAddr + ":" + strconv.Itoa(config.Port)
	stopping := false
	stoppingPtr := &stopping
	logger.Info("Starting server", zap.String("address", addr))
	go func() {
		if err := app.Listen(addr); err != nil {
			if !*stoppingPtr {
				logger.Fatal("Couldn't start server", zap.Error(err))
			} else {
				logger.Fatal("Error in app.Listen() during server shutdown (probably context deadline expired before the server could shutdown cleanly)", zap.Error(err))
			}
		}
	}()

	// Save cache to file every hour
	go func() {
		for {
			select {
			case <-time.After(time.Hour):
				backend.persist(fs, config.CachePath, logger)
			case <-ctx.Done():
				return
			}
		}
	}()

	// Print cache stats every hour
	go func() {
		// Don't run at the same time as the persistence
		select {
		case <-time.After(time.Minute):
		case <-ctx.Done():
			return
		}
		for {
			backend.logStats(ctx, config.CacheBackend, logger)
			select {
			case <-time.After(time.Hour):
			case <-ctx.Done():
				return
			}
		}
	}()

	// Settings reload and graceful shutdown

	c := make(chan os.Signal, 1)
	// Accept SIGHUP for reloading the settings, SIGINT (Ctrl+C) and SIGTERM (`docker stop`) for shutting down
	signal.Notify(c, syscall.SIGHUP, os.Interrupt, syscall.SIGTERM)
	for sig := range c {
		if sig == syscall.SIGHUP {
			logger.Info("Received signal, reloading settings...", zap.Stringer("signal", sig))
			if err := provider.Reload(); err != nil {
				logger.Error("Couldn't reload settings, keeping the previous ones", zap.Error(err))
			}
			continue
		}
		logger.Info("Received signal, shutting down...", zap.Stringer("signal", sig))
		break
	}
	*stoppingPtr = true
	cancel()

	if err := app.Shutdown(); err != nil {
		logger.Error("Error shutting down server", zap.Error(err))
	}
	logger.Info("Server shut down")

	if config.PurgeCacheOnShutdown {
		purgeCtx, purgeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := backend.store.Purge(purgeCtx, cache.KeyPrefix); err != nil {
			logger.Error("Couldn't purge cache", zap.Error(err))
		} else {
			logger.Info("Purged cache")
		}
		purgeCancel()
	}
	backend.persist(fs, config.CachePath, logger)
	if err := backend.close(); err != nil {
		logger.Error("Couldn't close cache", zap.Error(err))
	}
}

func createApp(tester connectionTester, backend *cacheBackend, backendName string, renderer *slider.Renderer, bgService *background.Service, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
		BodyLimit:             1 * 1000, // 1 KB, only GET requests are handled
	})

	// Middlewares

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET",
	}))
	app.Use(createLoggingMiddleware(logger))

	// Routes

	app.Get("/health", healthHandler)
	app.Get("/status", createStatusHandler(tester, backend, backendName, logger))

	app.Get("/background-settings", createBackgroundSettingsHandler(bgService))
	app.Get("/background/:category/:kind", createBackgroundHandler(bgService, logger))

	app.Get("/slider/:category", createSliderHandler(renderer, logger))
	app.Get("/shortcode/:tag", createShortcodeHandler(renderer, logger))

	return app
}

func newLogger(logLevel, logEncoding string) (*zap.Logger, error) {
	logConfig := zap.NewProductionConfig()
	logConfig.Encoding = logEncoding
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if logEncoding == "console" {
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("Couldn't parse log level: %w", err)
	}
	logConfig.Level = level
	return logConfig.Build()
}
