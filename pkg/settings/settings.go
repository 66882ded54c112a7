package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
)

// Default values for settings that aren't stored
const (
	DefaultRowSliderSpeed  = 60
	DefaultHeroSliderSpeed = 50
	DefaultPosterWidth     = 220
	DefaultPosterGap       = 20

	DefaultChangeInterval  = 5
	DefaultOverlayColor    = "#000000"
	DefaultPosition        = "center"
	DefaultSize            = "cover"
	DefaultBackgroundLimit = 20
)

// SliderToggles are the per-slider settings.
type SliderToggles struct {
	Enabled     bool `json:"enabled"`
	Reverse     bool `json:"reverse"`
	StopOnHover bool `json:"stopOnHover"`
}

// Sliders groups the toggles of all slider categories.
type Sliders struct {
	Hero       SliderToggles `json:"hero"`
	Popular    SliderToggles `json:"popular"`
	TopRated   SliderToggles `json:"topRated"`
	NowPlaying SliderToggles `json:"nowPlaying"`
	Sports     SliderToggles `json:"sports"`
}

// Background contains the display options of the rotating backgrounds.
// They're independent of the slider settings.
type Background struct {
	// In seconds
	ChangeInterval int    `json:"changeInterval"`
	Overlay        bool   `json:"overlay"`
	OverlayColor   string `json:"overlayColor"`
	Position       string `json:"position"`
	Size           string `json:"size"`
	// Max number of images per background set
	Limit int `json:"-"`
}

// Settings are the stored settings with defaults filled in.
// Numeric values that are stored but invalid are 0, which consumers treat as "not set".
type Settings struct {
	APIKey              string
	RowSliderSpeed      int
	HeroSliderSpeed     int
	PosterWidth         int
	PosterGap           int
	ShowPlayIcon        bool
	ShowRating          bool
	ShowNames           bool
	MakePosterClickable bool
	Sliders             Sliders
	SportsKeywords      string
	Background          Background
}

// Default returns the settings that apply when nothing is stored.
func Default() Settings {
	toggles := SliderToggles{
		Enabled:     true,
		Reverse:     false,
		StopOnHover: true,
	}
	return Settings{
		RowSliderSpeed:      DefaultRowSliderSpeed,
		HeroSliderSpeed:     DefaultHeroSliderSpeed,
		PosterWidth:         DefaultPosterWidth,
		PosterGap:           DefaultPosterGap,
		ShowPlayIcon:        true,
		ShowRating:          true,
		ShowNames:           true,
		MakePosterClickable: true,
		Sliders: Sliders{
			Hero:       toggles,
			Popular:    toggles,
			TopRated:   toggles,
			NowPlaying: toggles,
			Sports:     toggles,
		},
		Background: Background{
			ChangeInterval: DefaultChangeInterval,
			OverlayColor:   DefaultOverlayColor,
			Position:       DefaultPosition,
			Size:           DefaultSize,
			Limit:          DefaultBackgroundLimit,
		},
	}
}

// Parse reads a JSON object with the stored option names, for example {"api_key":"...","row_slider_speed":"45"}.
// Values can be numbers, numeric strings or booleans. Missing options keep their default.
func Parse(data []byte) (Settings, error) {
	if !gjson.ValidBytes(data) {
		return Settings{}, fmt.Errorf("Couldn't parse settings: invalid JSON")
	}
	blob := gjson.ParseBytes(data)
	if !blob.IsObject() {
		return Settings{}, fmt.Errorf("Couldn't parse settings: not a JSON object")
	}

	s := Default()
	readString(blob, "api_key", &s.APIKey)
	readInt(blob, "row_slider_speed", &s.RowSliderSpeed)
	readInt(blob, "hero_slider_speed", &s.HeroSliderSpeed)
	readInt(blob, "poster_width", &s.PosterWidth)
	readInt(blob, "poster_gap", &s.PosterGap)
	readBool(blob, "show_play_icon", &s.ShowPlayIcon)
	readBool(blob, "show_rating", &s.ShowRating)
	readBool(blob, "show_names", &s.ShowNames)
	readBool(blob, "make_poster_clickable", &s.MakePosterClickable)
	readToggles(blob, "hero", &s.Sliders.Hero)
	readToggles(blob, "popular", &s.Sliders.Popular)
	readToggles(blob, "top_rated", &s.Sliders.TopRated)
	readToggles(blob, "now_playing", &s.Sliders.NowPlaying)
	readToggles(blob, "sports", &s.Sliders.Sports)
	readString(blob, "sports_keywords", &s.SportsKeywords)

	readInt(blob, "bg_change_interval", &s.Background.ChangeInterval)
	readBool(blob, "bg_overlay", &s.Background.Overlay)
	readString(blob, "bg_overlay_color", &s.Background.OverlayColor)
	readString(blob, "bg_position", &s.Background.Position)
	readString(blob, "bg_size", &s.Background.Size)
	readInt(blob, "bg_limit", &s.Background.Limit)
	if s.Background.ChangeInterval <= 0 {
		s.Background.ChangeInterval = DefaultChangeInterval
	}
	if s.Background.OverlayColor == "" {
		s.Background.OverlayColor = DefaultOverlayColor
	}
	if s.Background.Position == "" {
		s.Background.Position = DefaultPosition
	}
	if s.Background.Size == "" {
		s.Background.Size = DefaultSize
	}
	if s.Background.Limit <= 0 {
		s.Background.Limit = DefaultBackgroundLimit
	}

	return s, nil
}

// ParseTOML reads a TOML document with the same option names as Parse.
func ParseTOML(data []byte) (Settings, error) {
	m := map[string]interface{}{}
	if err := toml.Unmarshal(data, &m); err != nil {
		return Settings{}, fmt.Errorf("Couldn't parse TOML settings: %v", err)
	}
	jsonData, err := json.Marshal(m)
	if err != nil {
		return Settings{}, fmt.Errorf("Couldn't convert TOML settings to JSON: %v", err)
	}
	return Parse(jsonData)
}

func readToggles(blob gjson.Result, slider string, t *SliderToggles) {
	readBool(blob, "enable_"+slider+"_slider", &t.Enabled)
	readBool(blob, "reverse_"+slider+"_slider", &t.Reverse)
	readBool(blob, "stop_on_hover_"+slider+"_slider", &t.StopOnHover)
}

func readString(blob gjson.Result, key string, target *string) {
	if v := blob.Get(key); v.Exists() {
		*target = strings.TrimSpace(v.String())
	}
}

// readInt stores the absolute value, unparseable values lead to 0.
func readInt(blob gjson.Result, key string, target *int) {
	if v := blob.Get(key); v.Exists() {
		i := int(v.Int())
		if i < 0 {
			i = -i
		}
		*target = i
	}
}

// readBool treats every value that's a non-zero integer (or true) as true.
func readBool(blob gjson.Result, key string, target *bool) {
	if v := blob.Get(key); v.Exists() {
		*target = v.Int() != 0
	}
}
