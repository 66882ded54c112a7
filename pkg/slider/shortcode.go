package slider

import (
	"sort"

	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

// Shortcode is a registered slider tag.
type Shortcode struct {
	Category Category
	// Only used if KindFixed is true
	Kind      tmdb.Kind
	KindFixed bool
}

var shortcodes = map[string]Shortcode{
	"tmdb_hero_slider":        {Category: Hero},
	"tmdb_popular_slider":     {Category: Popular},
	"tmdb_top_rated_slider":   {Category: TopRated},
	"tmdb_now_playing_slider": {Category: NowPlaying},
	"tmdb_sports_slider":      {Category: Sports},

	"tmdb_movie_hero_slider":        {Category: Hero, Kind: tmdb.Movie, KindFixed: true},
	"tmdb_movie_popular_slider":     {Category: Popular, Kind: tmdb.Movie, KindFixed: true},
	"tmdb_movie_top_rated_slider":   {Category: TopRated, Kind: tmdb.Movie, KindFixed: true},
	"tmdb_movie_now_playing_slider": {Category: NowPlaying, Kind: tmdb.Movie, KindFixed: true},

	"tmdb_tv_hero_slider":      {Category: Hero, Kind: tmdb.TV, KindFixed: true},
	"tmdb_tv_popular_slider":   {Category: Popular, Kind: tmdb.TV, KindFixed: true},
	"tmdb_tv_top_rated_slider": {Category: TopRated, Kind: tmdb.TV, KindFixed: true},
	"tmdb_tv_on_air_slider":    {Category: NowPlaying, Kind: tmdb.TV, KindFixed: true},
}

// LookupShortcode returns the registered shortcode for the tag.
func LookupShortcode(tag string) (Shortcode, bool) {
	sc, ok := shortcodes[tag]
	return sc, ok
}

// ShortcodeTags returns all registered tags, sorted.
func ShortcodeTags() []string {
	tags := make([]string, 0, len(shortcodes))
	for tag := range shortcodes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Apply sets the shortcode's kind, unless the overrides already contain a valid one.
func (sc Shortcode) Apply(o Overrides) Overrides {
	if !sc.KindFixed {
		return o
	}
	if _, ok := tmdb.ParseKind(o.Type); !ok {
		o.Type = sc.Kind.String()
	}
	return o
}
