package slider

import (
	"strconv"
	"strings"

	"github.com/Saber4Dev/tmdb-slider/pkg/settings"
	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

// Overrides are the raw attribute values of one slider invocation.
// An empty or invalid value means "unspecified".
type Overrides struct {
	Type        string
	Reverse     string
	StopOnHover string
	Speed       string
	PosterWidth string
}

// ParseAttributes reads the attributes "type", "reverse", "stop_on_hover", "speed" and "poster_width".
// Attribute names are case-insensitive, unknown attributes are ignored.
func ParseAttributes(attrs map[string]string) Overrides {
	o := Overrides{}
	for k, v := range attrs {
		switch strings.ToLower(k) {
		case "type":
			o.Type = v
		case "reverse":
			o.Reverse = v
		case "stop_on_hover":
			o.StopOnHover = v
		case "speed":
			o.Speed = v
		case "poster_width":
			o.PosterWidth = v
		}
	}
	return o
}

// Config is the fully resolved configuration of one slider invocation.
type Config struct {
	Category     Category   `json:"category"`
	Kind         tmdb.Kind  `json:"kind"`
	Enabled      bool       `json:"enabled"`
	Reverse      bool       `json:"reverse"`
	StopOnHover  bool       `json:"stopOnHover"`
	Speed        int        `json:"speed"`
	PosterWidth  int        `json:"posterWidth"`
	PosterGap    int        `json:"posterGap"`
	ShowPlayIcon bool       `json:"showPlayIcon"`
	ShowRating   bool       `json:"showRating"`
	ShowNames    bool       `json:"showNames"`
	Clickable    bool       `json:"clickable"`
	Limit        int        `json:"limit"`
	ImageField   ImageField `json:"imageField"`
}

// Resolve merges the overrides with the stored settings, field by field.
// A valid override wins over the stored setting, which wins over the built-in default.
func Resolve(o Overrides, stored settings.Settings, category Category) Config {
	toggles := category.toggles(stored)

	kind, ok := tmdb.ParseKind(o.Type)
	if !ok {
		kind = category.DefaultKind()
	}
	reverse, ok := parseBool(o.Reverse)
	if !ok {
		reverse = toggles.Reverse
	}
	stopOnHover, ok := parseBool(o.StopOnHover)
	if !ok {
		stopOnHover = toggles.StopOnHover
	}

	storedSpeed, fallbackSpeed := stored.RowSliderSpeed, settings.DefaultRowSliderSpeed
	if category == Hero {
		storedSpeed, fallbackSpeed = stored.HeroSliderSpeed, settings.DefaultHeroSliderSpeed
	}

	return Config{
		Category:     category,
		Kind:         kind,
		Enabled:      toggles.Enabled,
		Reverse:      reverse,
		StopOnHover:  stopOnHover,
		Speed:        resolveInt(o.Speed, storedSpeed, fallbackSpeed),
		PosterWidth:  resolveInt(o.PosterWidth, stored.PosterWidth, settings.DefaultPosterWidth),
		PosterGap:    resolveInt("", stored.PosterGap, settings.DefaultPosterGap),
		ShowPlayIcon: stored.ShowPlayIcon,
		ShowRating:   stored.ShowRating,
		ShowNames:    stored.ShowNames,
		Clickable:    stored.MakePosterClickable,
		Limit:        category.Limit(),
		ImageField:   category.ImageField(),
	}
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "1", "true":
		return true, true
	case "off", "no", "0", "false":
		return false, true
	}
	return false, false
}

func resolveInt(override string, stored, fallback int) int {
	if i, ok := parsePositiveInt(override); ok {
		return i
	}
	if stored > 0 {
		return stored
	}
	return fallback
}

// parsePositiveInt only accepts plain digits, so signs, decimals and units are invalid.
func parsePositiveInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return 0, false
	}
	return i, true
}
