package slider

import (
	"strings"

	"github.com/Saber4Dev/tmdb-slider/pkg/settings"
	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

// Category determines which catalog list a slider shows.
type Category int

const (
	Hero Category = iota
	Popular
	TopRated
	NowPlaying
	Sports
)

// Categories contains all categories, in display order.
var Categories = []Category{Hero, Popular, TopRated, NowPlaying, Sports}

// ParseCategory parses the route names "hero", "popular", "top-rated", "now-playing" and "sports".
// Underscores are accepted instead of dashes.
func ParseCategory(s string) (Category, bool) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for _, c := range Categories {
		if c.String() == s {
			return c, true
		}
	}
	return Hero, false
}

func (c Category) String() string {
	switch c {
	case Popular:
		return "popular"
	case TopRated:
		return "top-rated"
	case NowPlaying:
		return "now-playing"
	case Sports:
		return "sports"
	}
	return "hero"
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// DefaultKind is the kind that's used when no valid kind is requested.
// Sports sliders show TV shows, all others movies.
func (c Category) DefaultKind() tmdb.Kind {
	if c == Sports {
		return tmdb.TV
	}
	return tmdb.Movie
}

// Limit is the number of items that are fetched for the category.
func (c Category) Limit() int {
	if c == Hero {
		return 10
	}
	return 20
}

// ImageField is the image that's required for an item to be shown.
func (c Category) ImageField() ImageField {
	if c == Hero {
		return Backdrop
	}
	return Poster
}

func (c Category) toggles(s settings.Settings) settings.SliderToggles {
	switch c {
	case Popular:
		return s.Sliders.Popular
	case TopRated:
		return s.Sliders.TopRated
	case NowPlaying:
		return s.Sliders.NowPlaying
	case Sports:
		return s.Sliders.Sports
	}
	return s.Sliders.Hero
}

// ImageField is the image of a catalog item that a slider shows.
type ImageField int

const (
	Poster ImageField = iota
	Backdrop
)

func (f ImageField) String() string {
	if f == Backdrop {
		return "backdrop"
	}
	return "poster"
}

// MarshalText implements encoding.TextMarshaler.
func (f ImageField) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f ImageField) path(item tmdb.Item) string {
	if f == Backdrop {
		return item.BackdropPath
	}
	return item.PosterPath
}

func (f ImageField) size() string {
	if f == Backdrop {
		return tmdb.SizeBackdrop
	}
	return tmdb.SizePoster
}
