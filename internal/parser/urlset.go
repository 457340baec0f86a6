package parser

import "linksift/internal/domain"

// urlSet is the dedup map of one extraction call. Entries keep insertion
// order, so OriginalIndex is always the entry's position.
type urlSet struct {
	newID   func() string
	entries []domain.ExtractedURL
	byURL   map[string]int
}

func newURLSet(newID func() string) *urlSet {
	return &urlSet{newID: newID, byURL: make(map[string]int)}
}

func (s *urlSet) has(url string) bool {
	_, ok := s.byURL[url]
	return ok
}

// add appends a new entry. url must not be present yet.
func (s *urlSet) add(url, text string, valid bool) {
	s.byURL[url] = len(s.entries)
	s.entries = append(s.entries, domain.ExtractedURL{
		ID:            s.newID(),
		URL:           url,
		DisplayText:   text,
		IsValid:       valid,
		OriginalIndex: len(s.entries),
	})
}

// merge records a valid anchor. A repeated URL only takes the new label when
// it upgrades an empty or URL-equal label to real text; labels never downgrade.
func (s *urlSet) merge(url, text string) (added, upgraded bool) {
	i, ok := s.byURL[url]
	if !ok {
		s.add(url, text, true)
		return true, false
	}

	current := s.entries[i].DisplayText
	if text != "" && text != url && (current == "" || current == url) {
		s.entries[i].DisplayText = text
		return false, true
	}
	return false, false
}

// list returns the entries in discovery order, never nil.
func (s *urlSet) list() []domain.ExtractedURL {
	out := make([]domain.ExtractedURL, len(s.entries))
	copy(out, s.entries)
	return out
}
