package main

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Saber4Dev/tmdb-slider/pkg/background"
	"github.com/Saber4Dev/tmdb-slider/pkg/slider"
	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

// attributeNames are the query parameters that are passed to the renderer as slider attributes.
var attributeNames = []string{"type", "reverse", "stop_on_hover", "speed", "poster_width"}

type errorData struct {
	Status int `json:"status"`
}

type errorResponse struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Data    errorData `json:"data"`
}

type sliderResponse struct {
	Config  slider.Config  `json:"config"`
	Slides  []slider.Slide `json:"slides"`
	Message string         `json:"message,omitempty"`
}

func sendError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorResponse{
		Code:    code,
		Message: message,
		Data:    errorData{Status: status},
	})
}

func healthHandler(c *fiber.Ctx) error {
	return c.SendString("OK")
}

type connectionTester interface {
	TestConnection(ctx context.Context) error
}

func createStatusHandler(tester connectionTester, backend *cacheBackend, backendName string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		tmdbStatus := fiber.Map{}
		startTMDb := time.Now()
		if err := tester.TestConnection(c.Context()); err != nil {
			logger.Warn("TMDb connection test failed", zap.Error(err))
			tmdbStatus["err"] = slider.Message(err)
		} else {
			tmdbStatus["res"] = "OK"
		}
		tmdbStatus["duration"] = strconv.FormatInt(time.Since(startTMDb).Milliseconds(), 10) + "ms"

		return c.JSON(fiber.Map{
			"tmdb": tmdbStatus,
			"cache": fiber.Map{
				"backend": backendName,
				"items":   backend.itemCount(c.Context()),
			},
			"duration": strconv.FormatInt(time.Since(start).Milliseconds(), 10) + "ms",
		})
	}
}

func createBackgroundHandler(service *background.Service, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := background.ParseRequest(c.Params("category"), c.Params("kind"))
		if err != nil {
			return sendError(c, fiber.StatusBadRequest, "tmdb_invalid_request", err.Error())
		}

		images, err := service.Images(c.Context(), req)
		if err != nil {
			var (
				configErr   *tmdb.ConfigError
				emptyErr    *slider.EmptyError
				notFoundErr *tmdb.NotFoundError
			)
			switch {
			case errors.As(err, &configErr):
				return sendError(c, fiber.StatusBadRequest, "tmdb_no_api_key", err.Error())
			case errors.As(err, &emptyErr), errors.As(err, &notFoundErr):
				return sendError(c, fiber.StatusNotFound, "tmdb_empty", err.Error())
			}
			logger.Warn("Couldn't create background set", zap.Error(err), zap.String("path", req.Path()))
			return sendError(c, fiber.StatusBadGateway, "tmdb_upstream_error", slider.Message(err))
		}
		return c.JSON(images)
	}
}

func createBackgroundSettingsHandler(service *background.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(service.Settings())
	}
}

func createSliderHandler(renderer *slider.Renderer, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category, ok := slider.ParseCategory(c.Params("category"))
		if !ok {
			return sendError(c, fiber.StatusNotFound, "tmdb_unknown_slider", "Unknown slider: "+c.Params("category"))
		}
		res := renderer.Render(c.Context(), category, slider.ParseAttributes(queryAttributes(c)))
		return sendSlider(c, res, logger)
	}
}

func createShortcodeHandler(renderer *slider.Renderer, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, ok := renderer.RenderShortcode(c.Context(), c.Params("tag"), queryAttributes(c))
		if !ok {
			return sendError(c, fiber.StatusNotFound, "tmdb_unknown_slider", "Unknown shortcode: "+c.Params("tag"))
		}
		return sendSlider(c, res, logger)
	}
}

// sendSlider responds with 200 even if rendering failed, the message replaces the slider.
func sendSlider(c *fiber.Ctx, res slider.Result, logger *zap.Logger) error {
	slides := res.Slides
	if slides == nil {
		slides = []slider.Slide{}
	}
	if res.Err != nil {
		logger.Info("Couldn't render slider", zap.Error(res.Err), zap.Stringer("category", res.Config.Category))
	}
	return c.JSON(sliderResponse{
		Config:  res.Config,
		Slides:  slides,
		Message: slider.Message(res.Err),
	})
}

func queryAttributes(c *fiber.Ctx) map[string]string {
	attrs := map[string]string{}
	for _, name := range attributeNames {
		if val := c.Query(name); val != "" {
			attrs[name] = val
		}
	}
	return attrs
}
