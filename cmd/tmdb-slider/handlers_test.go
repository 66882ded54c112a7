package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Saber4Dev/tmdb-slider/pkg/background"
	"github.com/Saber4Dev/tmdb-slider/pkg/cache"
	"github.com/Saber4Dev/tmdb-slider/pkg/settings"
	"github.com/Saber4Dev/tmdb-slider/pkg/slider"
	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

const popularMovies = `{"page":1,"results":[
	{"id":1,"title":"First","poster_path":"/p1.jpg","backdrop_path":"/b1.jpg","vote_average":8.26},
	{"id":2,"title":"Second","poster_path":"/p2.jpg","backdrop_path":null,"vote_average":6},
	{"id":3,"title":"Third","poster_path":"/p3.jpg","backdrop_path":"/b3.jpg","vote_average":7.1}
]}`

func tmdbStub(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/3/movie/popular":
		fmt.Fprint(w, popularMovies)
	case "/3/tv/top_rated":
		fmt.Fprint(w, `{"page":1,"results":[]}`)
	case "/3/movie/now_playing":
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"status_code":11,"status_message":"Internal error: Something went wrong, contact TMDb."}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"status_code":34,"status_message":"The resource you requested could not be found."}`)
	}
}

func newTestApp(t *testing.T, stored settings.Settings, logger *zap.Logger) *fiber.App {
	server := httptest.NewServer(http.HandlerFunc(tmdbStub))
	t.Cleanup(server.Close)

	provider := settings.NewStatic(stored)
	memory := cache.NewMemoryStore(0)
	backend := &cacheBackend{store: memory, memory: memory}
	opts := tmdb.DefaultClientOpts
	opts.BaseURL = server.URL + "/3/"
	opts.Timeout = time.Second
	client, err := tmdb.NewClient(opts, provider, memory, logger)
	require.NoError(t, err)

	renderer := slider.NewRenderer(client, provider, logger)
	bgService := background.NewService(client, provider, logger)
	return createApp(client, backend, "memory", renderer, bgService, logger)
}

func storedWithKey() settings.Settings {
	stored := settings.Default()
	stored.APIKey = "123"
	return stored
}

func get(t *testing.T, app *fiber.App, target string) (int, []byte) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	res, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := ioutil.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestHealthHandler(t *testing.T) {
	app := newTestApp(t, storedWithKey(), zap.NewNop())
	status, body := get(t, app, "/health")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "OK", string(body))
}

func TestStatusHandler(t *testing.T) {
	app := newTestApp(t, storedWithKey(), zap.NewNop())
	status, body := get(t, app, "/status")
	require.Equal(t, fiber.StatusOK, status)

	var res struct {
		TMDb  map[string]string `json:"tmdb"`
		Cache struct {
			Backend string `json:"backend"`
			Items   int    `json:"items"`
		} `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	require.Equal(t, "OK", res.TMDb["res"])
	require.Equal(t, "memory", res.Cache.Backend)
	// The connection test is never cached
	require.Equal(t, 0, res.Cache.Items)
}

func TestStatusHandlerWithoutKey(t *testing.T) {
	app := newTestApp(t, settings.Default(), zap.NewNop())
	status, body := get(t, app, "/status")
	require.Equal(t, fiber.StatusOK, status)
	require.Contains(t, string(body), "TMDb Slider: API key not configured.")
}

func TestBackgroundHandler(t *testing.T) {
	app := newTestApp(t, storedWithKey(), zap.NewNop())

	status, body := get(t, app, "/background/popular/movie")
	require.Equal(t, fiber.StatusOK, status)
	var images []background.Image
	require.NoError(t, json.Unmarshal(body, &images))
	require.Equal(t, []background.Image{
		{URL: "https://image.tmdb.org/t/p/w1280/b1.jpg", Title: "First"},
		{URL: "https://image.tmdb.org/t/p/w1280/b3.jpg", Title: "Third"},
	}, images)

	tests := []struct {
		target     string
		expStatus  int
		expCode    string
		expMessage string
	}{
		{"/background/now-playing/tv", fiber.StatusBadRequest, "tmdb_invalid_request", `Category "now-playing" is only available for movies`},
		{"/background/upcoming/movie", fiber.StatusBadRequest, "tmdb_invalid_request", `Invalid category: "upcoming"`},
		{"/background/popular/person", fiber.StatusBadRequest, "tmdb_invalid_request", `Invalid type: "person"`},
		{"/background/top-rated/tv", fiber.StatusNotFound, "tmdb_empty", "No TV shows found."},
		{"/background/now-playing/movie", fiber.StatusBadGateway, "tmdb_upstream_error", "TMDb API error (Status: 500): Internal error: Something went wrong, contact TMDb."},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			status, body := get(t, app, tc.target)
			require.Equal(t, tc.expStatus, status)
			var res errorResponse
			require.NoError(t, json.Unmarshal(body, &res))
			require.Equal(t, errorResponse{
				Code:    tc.expCode,
				Message: tc.expMessage,
				Data:    errorData{Status: tc.expStatus},
			}, res)
		})
	}
}

func TestBackgroundHandlerWithoutKey(t *testing.T) {
	app := newTestApp(t, settings.Default(), zap.NewNop())
	status, body := get(t, app, "/background/popular/movie")
	require.Equal(t, fiber.StatusBadRequest, status)
	var res errorResponse
	require.NoError(t, json.Unmarshal(body, &res))
	require.Equal(t, "tmdb_no_api_key", res.Code)
	require.Equal(t, "TMDb API key is not configured.", res.Message)
}

func TestBackgroundSettingsHandler(t *testing.T) {
	stored := storedWithKey()
	stored.Background.ChangeInterval = 8
	stored.Background.Overlay = true
	app := newTestApp(t, stored, zap.NewNop())

	status, body := get(t, app, "/background-settings")
	require.Equal(t, fiber.StatusOK, status)
	require.JSONEq(t, `{"changeInterval":8,"overlay":true,"overlayColor":"#000000","position":"center","size":"cover"}`, string(body))
}

type sliderResponseJSON struct {
	Config struct {
		Category    string `json:"category"`
		Kind        string `json:"kind"`
		Speed       int    `json:"speed"`
		PosterWidth int    `json:"posterWidth"`
		ImageField  string `json:"imageField"`
	} `json:"config"`
	Slides []struct {
		ImageURL string `json:"imageURL"`
		LinkURL  string `json:"linkURL"`
		Title    string `json:"title"`
		Rating   string `json:"rating"`
		Kind     string `json:"kind"`
	} `json:"slides"`
	Message string `json:"message"`
}

func TestSliderHandler(t *testing.T) {
	app := newTestApp(t, storedWithKey(), zap.NewNop())

	status, body := get(t, app, "/slider/popular?poster_width=180&speed=abc")
	require.Equal(t, fiber.StatusOK, status)
	var res sliderResponseJSON
	require.NoError(t, json.Unmarshal(body, &res))
	require.Empty(t, res.Message)
	require.Equal(t, "popular", res.Config.Category)
	require.Equal(t, "movie", res.Config.Kind)
	require.Equal(t, 180, res.Config.PosterWidth)
	require.Equal(t, settings.DefaultRowSliderSpeed, res.Config.Speed)
	require.Len(t, res.Slides, 6)
	require.Equal(t, res.Slides[0], res.Slides[3])
	require.Equal(t, "https://image.tmdb.org/t/p/w500/p1.jpg", res.Slides[0].ImageURL)
	require.Equal(t, "https://www.themoviedb.org/movie/1", res.Slides[0].LinkURL)
	require.Equal(t, "8.3", res.Slides[0].Rating)

	// Upstream errors are shown inline
	status, body = get(t, app, "/slider/now-playing")
	require.Equal(t, fiber.StatusOK, status)
	res = sliderResponseJSON{}
	require.NoError(t, json.Unmarshal(body, &res))
	require.Empty(t, res.Slides)
	require.Equal(t, "TMDb API error (Status: 500): Internal error: Something went wrong, contact TMDb.", res.Message)

	status, _ = get(t, app, "/slider/upcoming")
	require.Equal(t, fiber.StatusNotFound, status)
}

func TestShortcodeHandler(t *testing.T) {
	app := newTestApp(t, storedWithKey(), zap.NewNop())

	status, body := get(t, app, "/shortcode/tmdb_movie_popular_slider")
	require.Equal(t, fiber.StatusOK, status)
	var res sliderResponseJSON
	require.NoError(t, json.Unmarshal(body, &res))
	require.Len(t, res.Slides, 6)

	// The hero slider has its own speed setting. The stub doesn't know the trending list.
	status, body = get(t, app, "/shortcode/tmdb_hero_slider")
	require.Equal(t, fiber.StatusOK, status)
	res = sliderResponseJSON{}
	require.NoError(t, json.Unmarshal(body, &res))
	require.Equal(t, settings.DefaultHeroSliderSpeed, res.Config.Speed)
	require.Equal(t, "backdrop", res.Config.ImageField)
	require.Equal(t, "TMDb API error (Status: 404): The resource you requested could not be found.", res.Message)

	status, _ = get(t, app, "/shortcode/tmdb_upcoming_slider")
	require.Equal(t, fiber.StatusNotFound, status)
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := newTestApp(t, storedWithKey(), zap.New(core))

	status, _ := get(t, app, "/background/upcoming/movie")
	require.Equal(t, fiber.StatusBadRequest, status)

	entries := logs.FilterMessage("Handled request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "/background/upcoming/movie", fields["path"])
	require.Equal(t, int64(fiber.StatusBadRequest), fields["status"])
}
