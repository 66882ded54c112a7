package slider

import (
	"errors"

	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

// EmptyReason is the reason for an EmptyError.
type EmptyReason int

const (
	NoResults EmptyReason = iota + 1
	NoImages
)

// EmptyError signals that there's nothing to show.
type EmptyError struct {
	Reason EmptyReason
	Field  ImageField
	Kind   tmdb.Kind
}

func (e *EmptyError) Error() string {
	what := "movies"
	if e.Kind == tmdb.TV {
		what = "TV shows"
	}
	if e.Reason == NoImages {
		if e.Field == Poster {
			return "No items with posters found."
		}
		return "No " + what + " with backdrops found."
	}
	return "No " + what + " found."
}

// DisabledError signals that the slider category is disabled in the settings.
type DisabledError struct {
	Category Category
}

func (e *DisabledError) Error() string {
	return "This slider is disabled in TMDB Slider settings."
}

// Message returns the single-line message that's shown instead of a slider.
// Unexpected errors lead to a generic message, so their details never reach the page.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		configErr    *tmdb.ConfigError
		disabledErr  *DisabledError
		emptyErr     *EmptyError
		notFoundErr  *tmdb.NotFoundError
		transportErr *tmdb.TransportError
		upstreamErr  *tmdb.UpstreamError
		parseErr     *tmdb.ParseError
	)
	switch {
	case errors.As(err, &configErr):
		if configErr.Reason == tmdb.MissingKeywords {
			return "TMDB Slider: Please set Sports keyword IDs in settings for this slider."
		}
		return "TMDb Slider: API key not configured."
	case errors.As(err, &disabledErr):
		return disabledErr.Error()
	case errors.As(err, &emptyErr):
		return emptyErr.Error()
	case errors.As(err, &notFoundErr):
		return notFoundErr.Error()
	case errors.As(err, &transportErr):
		return "TMDb Slider: Couldn't reach TMDb, please try again later."
	case errors.As(err, &upstreamErr):
		return upstreamErr.Error()
	case errors.As(err, &parseErr):
		return parseErr.Error()
	}
	return "TMDb Slider: Couldn't load this slider."
}
