package background

import (
	"fmt"
	"regexp"

	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

// Category is the catalog list a background set is taken from.
type Category int

const (
	Popular Category = iota
	Trending
	TopRated
	NowPlaying
	OnAir
)

var categoryNames = map[string]Category{
	"popular":     Popular,
	"trending":    Trending,
	"top-rated":   TopRated,
	"now-playing": NowPlaying,
	"on-air":      OnAir,
}

func (c Category) String() string {
	for name, category := range categoryNames {
		if category == c {
			return name
		}
	}
	return "popular"
}

// Request identifies a background set.
type Request struct {
	Category Category
	Kind     tmdb.Kind
}

// RequestError signals an invalid category/kind pair.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// ParseRequest validates the category and kind of a background request.
// "now-playing" is only valid for movies and "on-air" only for TV shows.
func ParseRequest(category, kind string) (Request, error) {
	c, ok := categoryNames[category]
	if !ok {
		return Request{}, &RequestError{Message: fmt.Sprintf("Invalid category: %q", category)}
	}
	var k tmdb.Kind
	switch kind {
	case "movie":
		k = tmdb.Movie
	case "tv":
		k = tmdb.TV
	default:
		return Request{}, &RequestError{Message: fmt.Sprintf("Invalid type: %q", kind)}
	}
	if c == NowPlaying && k != tmdb.Movie {
		return Request{}, &RequestError{Message: `Category "now-playing" is only available for movies`}
	}
	if c == OnAir && k != tmdb.TV {
		return Request{}, &RequestError{Message: `Category "on-air" is only available for TV shows`}
	}
	return Request{Category: c, Kind: k}, nil
}

var elementIDpattern = regexp.MustCompile(`^tmdb--(.+?)-(movie|tv)-background$`)

// ParseElementID parses element IDs like "tmdb--top-rated-tv-background", which is how a page requests a background set.
func ParseElementID(id string) (Request, error) {
	match := elementIDpattern.FindStringSubmatch(id)
	if match == nil {
		return Request{}, &RequestError{Message: fmt.Sprintf("Invalid background element ID: %q", id)}
	}
	return ParseRequest(match[1], match[2])
}

// Path returns the path of the background JSON endpoint for the request.
func (r Request) Path() string {
	return "/background/" + r.Category.String() + "/" + r.Kind.String()
}
