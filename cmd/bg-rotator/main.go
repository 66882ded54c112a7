package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Saber4Dev/tmdb-slider/pkg/background"
)

var (
	serviceURL = flag.String("serviceURL", "http://localhost:8080", "Base URL of the tmdb-slider service")
	elementID  = flag.String("elementID", "", `Element ID of the background, for example "tmdb--top-rated-tv-background". Takes precedence over category and type.`)
	category   = flag.String("category", "popular", `Background category. Can be "popular", "trending", "top-rated", "now-playing" (movies only) or "on-air" (TV shows only).`)
	kind       = flag.String("type", "movie", `Background type. Can be "movie" or "tv".`)
	interval   = flag.Duration("interval", 0, "Time between two images. If not set, the change interval from the service's background settings is used.")
	timeout    = flag.Duration("timeout", 5*time.Second, "Timeout for requests to the service")
)

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err.Error())
	}
	defer logger.Sync()

	var req background.Request
	if *elementID != "" {
		req, err = background.ParseElementID(*elementID)
	} else {
		req, err = background.ParseRequest(*category, *kind)
	}
	if err != nil {
		logger.Fatal("Invalid background request", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	source := background.NewSource(*serviceURL, *timeout)

	rotationInterval := *interval
	if rotationInterval <= 0 {
		bgSettings, err := source.Settings(ctx)
		if err != nil {
			logger.Warn("Couldn't fetch background settings, using the default interval", zap.Error(err))
		} else {
			rotationInterval = time.Duration(bgSettings.ChangeInterval) * time.Second
			logger.Info("Fetched background settings", zap.Int("changeInterval", bgSettings.ChangeInterval), zap.Bool("overlay", bgSettings.Overlay), zap.String("overlayColor", bgSettings.OverlayColor), zap.String("position", bgSettings.Position), zap.String("size", bgSettings.Size))
		}
	}

	rotator := background.NewRotator(source.FetchFunc(req), rotationInterval, logger)

	c := make(chan os.Signal, 1)
	// Accept SIGINT (Ctrl+C) and SIGTERM
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-c
		logger.Info("Received signal, stopping...", zap.Stringer("signal", sig))
		rotator.Stop()
	}()

	logger.Info("Starting background rotation", zap.String("path", req.Path()))
	err = rotator.Run(ctx, func(f background.Frame) {
		fields := []zap.Field{
			zap.Stringer("state", f.State),
			zap.Int("index", f.Index),
		}
		for i, layer := range f.Layers {
			prefix := "layerA"
			if i == 1 {
				prefix = "layerB"
			}
			fields = append(fields, zap.String(prefix, layer.Image.URL), zap.Bool(prefix+"Opaque", layer.Opaque))
		}
		logger.Info("Frame", fields...)
	})
	if err != nil {
		// The page would keep its static background
		logger.Fatal("Couldn't start background rotation", zap.Error(err))
	}
}
