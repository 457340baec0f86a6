package parser

import "regexp"

// bareURLRegex matches http(s) URLs written as plain text: host, optional
// port, then an optional path with query and fragment.
var bareURLRegex = regexp.MustCompile(`(?i)https?://[-\w.]+(?::[0-9]+)?(?:/[\w/_.]*(?:\?[\w&=%.]*)?(?:#[\w.]*)?)?`)

// ScanPlainText returns the unique URL-shaped substrings of text in order of
// first appearance. It does not validate them.
func ScanPlainText(text string) []string {
	if text == "" {
		return nil
	}

	matches := bareURLRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		urls = append(urls, m)
	}
	return urls
}
