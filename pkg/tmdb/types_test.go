package tmdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in    string
		exp   Kind
		expOK bool
	}{
		{"movie", Movie, true},
		{" TV ", TV, true},
		{"Movie", Movie, true},
		{"all", Movie, false},
		{"", Movie, false},
		{"series", Movie, false},
	}
	for _, tc := range tests {
		kind, ok := ParseKind(tc.in)
		require.Equal(t, tc.exp, kind, tc.in)
		require.Equal(t, tc.expOK, ok, tc.in)
	}
}

func TestDisplayTitle(t *testing.T) {
	require.Equal(t, "Title", Item{Title: "Title", Name: "Name"}.DisplayTitle())
	require.Equal(t, "Name", Item{Name: "Name"}.DisplayTitle())
	require.Equal(t, "", Item{}.DisplayTitle())
}

func TestFormattedRating(t *testing.T) {
	tests := []struct {
		rating float64
		exp    string
	}{
		{6.96, "7.0"},
		{0, "0.0"},
		{7.25, "7.3"},
		{7.35, "7.4"},
		{8.45, "8.5"},
		{8.449, "8.4"},
		{10, "10.0"},
	}
	for _, tc := range tests {
		r := tc.rating
		require.Equal(t, tc.exp, Item{Rating: &r}.FormattedRating(), "rating %v", tc.rating)
	}
	require.Equal(t, "0.0", Item{}.FormattedRating())
}

func TestParseKeywords(t *testing.T) {
	require.Equal(t, []string{"6075", "180547"}, ParseKeywords(" 6075 ,, 180547,"))
	require.Empty(t, ParseKeywords(" , "))
}

func TestURLs(t *testing.T) {
	require.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", ImageURL("/abc.jpg", SizePoster))
	require.Equal(t, "https://image.tmdb.org/t/p/w1280/abc.jpg", ImageURL("/abc.jpg", SizeBackdrop))
	require.Equal(t, "", ImageURL("", SizePoster))
	require.Equal(t, "https://www.themoviedb.org/movie/550", ItemURL(550, Movie))
	require.Equal(t, "https://www.themoviedb.org/tv/1399", ItemURL(1399, TV))
}
