package tmdb

import "strconv"

const (
	ImageBaseURL   = "https://image.tmdb.org/t/p/"
	WebsiteBaseURL = "https://www.themoviedb.org/"
)

// Image sizes as supported by TMDb's image CDN
const (
	SizeBackdrop = "w1280"
	SizePoster   = "w500"
)

// ImageURL returns the absolute URL of an image. An empty path leads to an empty string.
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return ImageBaseURL + size + path
}

// ItemURL returns the URL of an item's page on the TMDb website.
func ItemURL(id int64, kind Kind) string {
	return WebsiteBaseURL + kind.path() + "/" + strconv.FormatInt(id, 10)
}
