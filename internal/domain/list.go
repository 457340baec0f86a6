package domain

import "strings"

// DefaultSeparator joins URLs when a list is copied as text.
const DefaultSeparator = "\n"

// Remove returns a new list without the entry identified by id.
func Remove(list []ExtractedURL, id string) []ExtractedURL {
	out := make([]ExtractedURL, 0, len(list))
	for _, u := range list {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

// CopyText joins the URLs of list with sep, or DefaultSeparator when sep is empty.
func CopyText(list []ExtractedURL, sep string) string {
	if len(list) == 0 {
		return ""
	}
	if sep == "" {
		sep = DefaultSeparator
	}
	urls := make([]string, len(list))
	for i, u := range list {
		urls[i] = u.URL
	}
	return strings.Join(urls, sep)
}

// Openable returns the valid entries of list in order.
func Openable(list []ExtractedURL) []ExtractedURL {
	var out []ExtractedURL
	for _, u := range list {
		if u.IsValid {
			out = append(out, u)
		}
	}
	return out
}
