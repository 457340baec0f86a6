package domain

import "strings"

// ExtractedURL is one link discovered in pasted content.
type ExtractedURL struct {
	// ID is generated at extraction time and never reused.
	ID string `json:"id"`

	// URL is the raw URL string as found in the content.
	URL string `json:"url"`

	// DisplayText is the human-readable label. It defaults to URL.
	DisplayText string `json:"displayText"`

	// IsValid reports whether URL passed validation. Anchor-sourced entries
	// are always valid; bare text matches carry their validation result.
	IsValid bool `json:"isValid"`

	// OriginalIndex is the zero-based first-encounter position within one
	// extraction result.
	OriginalIndex int `json:"originalIndex"`
}

// ParsedContent is the full output of one extraction call.
type ParsedContent struct {
	// OriginalHTML is the sanitized markup of the input.
	OriginalHTML string `json:"originalHtml"`

	// ExtractedURLs holds the unique links in discovery order.
	ExtractedURLs []ExtractedURL `json:"extractedUrls"`
}

// WithDisplayText returns a copy of u labelled with text. Blank text falls
// back to the URL itself.
func (u ExtractedURL) WithDisplayText(text string) ExtractedURL {
	text = strings.TrimSpace(text)
	if text == "" {
		text = u.URL
	}
	u.DisplayText = text
	return u
}

// HasLabel reports whether the entry carries a label other than its URL.
func (u ExtractedURL) HasLabel() bool {
	return u.DisplayText != "" && u.DisplayText != u.URL
}
