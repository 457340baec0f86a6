// Package parser extracts hyperlinks from pasted rich-text or HTML content.
//
// Content is sanitized through a tree walk (an allow-list of tags, anchors
// restricted to safe schemes and rewritten to open in a new tab), anchors are
// read from the sanitized tree, bare URLs are picked up from its text, and
// repeated links are merged into one entry per URL.
package parser

import (
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"linksift/internal/domain"
)

// ErrParse is returned when the HTML tree cannot be built at all.
var ErrParse = errors.New("failed to parse content")

// Parser runs the extraction pipeline. A Parser holds no per-call state and
// is safe for concurrent use.
type Parser struct {
	log    logrus.FieldLogger
	newID  func() string
	unwrap *bluemonday.Policy
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger routes debug tracing to logger. A nil logger keeps the default.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Parser) {
		if logger == nil {
			return
		}
		p.log = logger.WithField("component", "parser")
	}
}

// WithIDGenerator replaces the entry ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(p *Parser) {
		p.newID = gen
	}
}

// New creates a Parser. Without WithLogger all tracing is discarded.
func New(opts ...Option) *Parser {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	p := &Parser{
		log:    silent,
		newID:  newURLID,
		unwrap: newUnwrapPolicy(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func newURLID() string {
	return "url-" + uuid.NewString()
}

var defaultParser = New()

// ParseHyperlinkedContent extracts links from content with a default Parser.
// A content that cannot be parsed at all yields an empty result.
func ParseHyperlinkedContent(content string) domain.ParsedContent {
	result, err := defaultParser.Parse(content)
	if err != nil {
		return emptyResult()
	}
	return result
}

// Parse sanitizes content and returns the sanitized markup together with
// every unique link found in it. Anchors come first in document order,
// followed by bare URLs that no anchor already produced.
//
// Hostile or malformed input degrades to fewer links. The only error is
// ErrParse, when the tree cannot be constructed.
func (p *Parser) Parse(content string) (domain.ParsedContent, error) {
	if content == "" {
		return emptyResult(), nil
	}

	spreadsheet := isSpreadsheetContent(content)
	input := content
	if spreadsheet {
		p.log.Debug("Spreadsheet markup detected, unwrapping before sanitization")
		input = p.unwrap.Sanitize(content)
	}

	nodes, err := sanitizeFragment(input)
	if err != nil {
		return domain.ParsedContent{}, err
	}
	sanitized, err := render(nodes)
	if err != nil {
		return domain.ParsedContent{}, errors.Join(ErrParse, err)
	}

	doc := goquery.NewDocumentFromNode(fragmentRoot(nodes))
	anchors := doc.Find("a[href]")
	p.log.WithField("anchor_count", anchors.Length()).Debug("Anchors found in sanitized content")

	if anchors.Length() == 0 && spreadsheet {
		p.log.Debug("No anchors after sanitization, using direct pattern extraction")
		return p.extractDirect(content, sanitized), nil
	}

	set := newURLSet(p.newID)
	anchors.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := a.Text()
		if text == "" {
			text = href
		}
		if !ValidateURL(href) {
			p.log.WithField("href", href).Debug("Skipping invalid anchor")
			return
		}
		if added, upgraded := set.merge(href, strings.TrimSpace(text)); !added && !upgraded {
			p.log.WithField("url", href).Debug("Skipping duplicate anchor")
		}
	})

	for _, u := range ScanPlainText(plainText(nodes)) {
		if set.has(u) {
			continue
		}
		set.add(u, u, ValidateURL(u))
	}

	return domain.ParsedContent{
		OriginalHTML:  sanitized,
		ExtractedURLs: set.list(),
	}, nil
}

func emptyResult() domain.ParsedContent {
	return domain.ParsedContent{ExtractedURLs: []domain.ExtractedURL{}}
}

// fragmentRoot attaches detached nodes to a synthetic div so they can be
// queried as one tree.
func fragmentRoot(nodes []*html.Node) *html.Node {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root
}
