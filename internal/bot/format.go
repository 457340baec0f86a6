package bot

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/go-telegram/bot/models"
	"golang.org/x/net/html"

	"linksift/internal/domain"
	"linksift/internal/service"
)

// maxMessageLength is Telegram's limit for one message, in UTF-16 code units.
const maxMessageLength = 4096

var errUsage = errors.New("invalid command arguments")

// messageHTML rebuilds the markup of a message: text_link entities become
// anchors and everything else is escaped text. Entity offsets count UTF-16
// code units.
func messageHTML(text string, entities []models.MessageEntity) string {
	var links []models.MessageEntity
	for _, e := range entities {
		if e.Type == models.MessageEntityTypeTextLink && e.URL != "" && e.Length > 0 {
			links = append(links, e)
		}
	}
	if len(links) == 0 {
		return html.EscapeString(text)
	}
	sort.SliceStable(links, func(i, j int) bool { return links[i].Offset < links[j].Offset })

	units := utf16.Encode([]rune(text))
	segment := func(from, to int) string {
		return html.EscapeString(string(utf16.Decode(units[from:to])))
	}

	var sb strings.Builder
	pos := 0
	for _, e := range links {
		end := e.Offset + e.Length
		// Nested or out-of-range entities are left as plain text.
		if e.Offset < pos || end > len(units) {
			continue
		}
		sb.WriteString(segment(pos, e.Offset))
		fmt.Fprintf(&sb, `<a href="%s">%s</a>`, html.EscapeString(e.URL), segment(e.Offset, end))
		pos = end
	}
	sb.WriteString(segment(pos, len(units)))
	return sb.String()
}

// formatEntry renders "N. label - url", or "N. url" for unlabelled links.
func formatEntry(position int, u domain.ExtractedURL) string {
	line := fmt.Sprintf("%d. ", position)
	if u.HasLabel() {
		line += u.DisplayText + " - "
	}
	line += u.URL
	if !u.IsValid {
		line += " (invalid)"
	}
	return line
}

func formatList(list []domain.ExtractedURL) string {
	lines := make([]string, len(list))
	for i, u := range list {
		lines[i] = formatEntry(i+1, u)
	}
	return strings.Join(lines, "\n")
}

func formatGroups(groups []service.SiteGroup) string {
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%s (%d)", g.Site, len(g.Links))
		for _, u := range g.Links {
			sb.WriteString("\n  ")
			sb.WriteString(u.URL)
		}
	}
	return sb.String()
}

// chunkMessage splits text on line boundaries into pieces of at most limit
// UTF-16 code units. Lines longer than limit are cut.
func chunkMessage(text string, limit int) []string {
	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for _, piece := range splitLong(line, limit) {
			n := utf16Len(piece)
			sep := 0
			if curLen > 0 {
				sep = 1
			}
			if curLen+sep+n > limit {
				flush()
				sep = 0
			}
			if sep == 1 {
				cur.WriteByte('\n')
			}
			cur.WriteString(piece)
			curLen += sep + n
		}
	}
	flush()

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

func splitLong(line string, limit int) []string {
	if utf16Len(line) <= limit {
		return []string{line}
	}
	var out []string
	var cur []rune
	n := 0
	for _, r := range line {
		w := utf16.RuneLen(r)
		if n+w > limit {
			out = append(out, string(cur))
			cur, n = cur[:0], 0
		}
		cur = append(cur, r)
		n += w
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// commandArgs strips the leading "/command" or "/command@bot" token.
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i:])
}

// parsePosition reads "N rest" where N is a 1-based list position.
func parsePosition(args string) (int, string, error) {
	head, rest := args, ""
	if i := strings.IndexFunc(args, unicode.IsSpace); i >= 0 {
		head, rest = args[:i], strings.TrimSpace(args[i:])
	}
	n, err := strconv.Atoi(head)
	if err != nil || n < 1 {
		return 0, "", errUsage
	}
	return n, rest, nil
}
