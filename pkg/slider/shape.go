package slider

import (
	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

// Slide contains exactly what the render consumer needs for one item.
type Slide struct {
	ImageURL string    `json:"imageURL"`
	LinkURL  string    `json:"linkURL"`
	Title    string    `json:"title"`
	Rating   string    `json:"rating"`
	Kind     tmdb.Kind `json:"kind"`
}

// Shape turns catalog items into a loop list.
// Items without the required image are dropped and the remaining slides are repeated once,
// so that slide i and slide i+n are identical for the n qualifying items.
// limit caps the input in upstream order, a limit <= 0 means no cap.
func Shape(items []tmdb.Item, field ImageField, limit int) ([]Slide, error) {
	if len(items) == 0 {
		return nil, &EmptyError{Reason: NoResults, Field: field}
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	slides := make([]Slide, 0, 2*len(items))
	for _, item := range items {
		path := field.path(item)
		if path == "" {
			continue
		}
		slides = append(slides, Slide{
			ImageURL: tmdb.ImageURL(path, field.size()),
			LinkURL:  tmdb.ItemURL(item.ID, item.Kind),
			Title:    item.DisplayTitle(),
			Rating:   item.FormattedRating(),
			Kind:     item.Kind,
		})
	}
	if len(slides) == 0 {
		return nil, &EmptyError{Reason: NoImages, Field: field, Kind: items[0].Kind}
	}

	return append(slides, slides...), nil
}
