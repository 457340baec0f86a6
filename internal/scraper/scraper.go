package scraper

import "context"

// TitleFetcher looks up the page title of a URL.
// It is used to label entries whose display text is just the URL.
type TitleFetcher interface {
	// FetchTitle returns the trimmed <title> of the page. An empty title is
	// not an error.
	FetchTitle(ctx context.Context, url string) (string, error)
}
