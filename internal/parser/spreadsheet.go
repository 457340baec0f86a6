package parser

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"linksift/internal/domain"
)

// Markers present in clipboard markup copied from Google Sheets.
const (
	sheetsOriginMarker = "google-sheets-html-origin"
	sheetsRootMarker   = "data-sheets-root"
)

var (
	hrefAttrRegex   = regexp.MustCompile(`(?i)href="([^"]+)"`)
	anchorTextRegex = regexp.MustCompile(`(?i)<a[^>]*href="([^"]+)"[^>]*>([^<]*)<`)
)

func isSpreadsheetContent(content string) bool {
	return strings.Contains(content, sheetsOriginMarker) || strings.Contains(content, sheetsRootMarker)
}

// newUnwrapPolicy builds the permissive pass used on spreadsheet markup.
// Spreadsheets nest their tables inside custom wrapper elements, which the
// flattening sanitizer would turn into plain text along with every anchor
// inside. This policy drops unknown wrappers but keeps their children, and
// drops script and style bodies entirely.
//
// hrefs pass through untouched; the sanitizer validates them afterwards.
func newUnwrapPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	for tag := range allowedTags {
		p.AllowElements(tag.String())
	}
	p.AllowAttrs("href").OnElements("a")
	p.AllowElementsContent(unwrapKeepContent...)
	return p
}

// unwrapKeepContent lists elements whose text bluemonday skips by default
// but which the flattening sanitizer keeps as visible text.
var unwrapKeepContent = []string{
	"frame", "frameset", "iframe", "noembed", "noframes", "noscript", "nostyle", "object", "title",
}

// extractDirect is the recovery strategy for spreadsheet markup that yields
// no anchors through the tree. It pattern-matches href attributes in the raw
// content and pairs them with adjacent anchor text. Nesting is not checked.
// The returned markup is the sanitized one, never raw.
func (p *Parser) extractDirect(raw, sanitized string) domain.ParsedContent {
	labels := make(map[string]string)
	for _, m := range anchorTextRegex.FindAllStringSubmatch(raw, -1) {
		url := html.UnescapeString(m[1])
		text := strings.TrimSpace(html.UnescapeString(m[2]))
		if _, ok := labels[url]; !ok && text != "" {
			labels[url] = text
		}
	}

	matches := hrefAttrRegex.FindAllStringSubmatch(raw, -1)
	p.log.WithField("href_count", len(matches)).Debug("Direct extraction matches")

	set := newURLSet(p.newID)
	for _, m := range matches {
		url := html.UnescapeString(m[1])
		if set.has(url) {
			continue
		}
		if !ValidateURL(url) {
			p.log.WithField("href", url).Debug("Skipping invalid href")
			continue
		}
		text, ok := labels[url]
		if !ok {
			text = url
		}
		set.add(url, text, true)
	}

	return domain.ParsedContent{
		OriginalHTML:  sanitized,
		ExtractedURLs: set.list(),
	}
}
