package tmdb

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the content kind of a catalog item.
type Kind int

const (
	Movie Kind = iota
	TV
	// Any is only meaningful for trending lists, which can mix movies and TV shows.
	// All other endpoints treat it as Movie.
	Any
)

// ParseKind parses "movie" or "tv", case-insensitive and ignoring surrounding whitespace.
// The boolean return value signals if the token was recognized.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return Movie, true
	case "tv":
		return TV, true
	}
	return Movie, false
}

func (k Kind) String() string {
	switch k {
	case TV:
		return "tv"
	case Any:
		return "all"
	}
	return "movie"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// path is the path segment for all endpoints except trending.
func (k Kind) path() string {
	if k == TV {
		return "tv"
	}
	return "movie"
}

func (k Kind) plural() string {
	switch k {
	case TV:
		return "TV shows"
	case Any:
		return "items"
	}
	return "movies"
}

// Item is a movie or TV show as returned in TMDb's "results" lists.
type Item struct {
	ID           int64
	Title        string
	Name         string
	PosterPath   string
	BackdropPath string
	// Nil if the upstream item has no "vote_average"
	Rating *float64
	Kind   Kind
}

// DisplayTitle returns the title for movies or the name for TV shows, or an empty string if both are missing.
func (i Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

// FormattedRating returns the rating with exactly one decimal place, "0.0" if missing.
// Halves round away from zero.
func (i Item) FormattedRating() string {
	if i.Rating == nil {
		return "0.0"
	}
	return strconv.FormatFloat(math.Round(*i.Rating*10)/10, 'f', 1, 64)
}

// ParseKeywords splits a comma-separated list of keyword IDs, trimming whitespace and dropping empty elements.
func ParseKeywords(s string) []string {
	var result []string
	for _, keyword := range strings.Split(s, ",") {
		keyword = strings.TrimSpace(keyword)
		if keyword != "" {
			result = append(result, keyword)
		}
	}
	return result
}
