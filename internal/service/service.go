// Package service applies limits, error translation and persistence around
// the link extraction engine. The bot and the CLI both go through it.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"linksift/internal/apperrors"
	"linksift/internal/domain"
	"linksift/internal/parser"
	"linksift/internal/scraper"
	"linksift/internal/storage"
)

// ErrNoStorage is returned by list operations when no repository is configured.
var ErrNoStorage = errors.New("no repository configured")

// Extractor turns pasted content into a link list.
type Extractor interface {
	Parse(content string) (domain.ParsedContent, error)
}

// Limits bounds a single extraction request.
type Limits struct {
	MaxContentLength int
	MaxURLCount      int
}

// Service coordinates extraction and the per-user list.
type Service struct {
	parser Extractor
	repo   storage.Repository
	titles scraper.TitleFetcher
	limits Limits
	log    logrus.FieldLogger
}

// New creates a Service. repo and titles may be nil.
func New(p Extractor, repo storage.Repository, titles scraper.TitleFetcher, limits Limits, logger logrus.FieldLogger) *Service {
	return &Service{
		parser: p,
		repo:   repo,
		titles: titles,
		limits: limits,
		log:    logger.WithField("component", "service"),
	}
}

// Extract runs the engine on content and, for a non-zero userID, stores the
// result as the user's current list.
func (s *Service) Extract(ctx context.Context, userID int64, content string) (domain.ParsedContent, error) {
	log := s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"content_length": len(content),
	})

	if s.limits.MaxContentLength > 0 && len(content) > s.limits.MaxContentLength {
		log.Warn("Content exceeds size limit")
		return domain.ParsedContent{}, apperrors.ContentTooLarge(len(content), s.limits.MaxContentLength)
	}

	if strings.TrimSpace(content) == "" {
		return domain.ParsedContent{OriginalHTML: "", ExtractedURLs: []domain.ExtractedURL{}}, nil
	}

	result, err := s.parse(content)
	if err != nil {
		log.WithError(err).Error("Extraction failed")
		return domain.ParsedContent{}, apperrors.Parsing(err)
	}

	count := len(result.ExtractedURLs)
	if s.limits.MaxURLCount > 0 && count > s.limits.MaxURLCount {
		log.WithField("url_count", count).Warn("Too many URLs in content")
		return domain.ParsedContent{}, apperrors.TooManyURLs(count, s.limits.MaxURLCount)
	}

	if s.repo != nil && userID != 0 {
		if err := s.repo.ReplaceList(ctx, userID, result.ExtractedURLs); err != nil {
			return domain.ParsedContent{}, apperrors.Internal(err)
		}
	}

	log.WithField("url_count", count).Info("Content extracted")
	return result, nil
}

// parse calls the engine, turning a panic into an error.
func (s *Service) parse(content string) (result domain.ParsedContent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", parser.ErrParse, r)
		}
	}()
	return s.parser.Parse(content)
}

// List returns the user's stored list.
func (s *Service) List(ctx context.Context, userID int64) ([]domain.ExtractedURL, error) {
	if s.repo == nil {
		return nil, apperrors.Internal(ErrNoStorage)
	}
	list, err := s.repo.GetList(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

// at resolves a 1-based position in the user's list.
func (s *Service) at(ctx context.Context, userID int64, position int) (domain.ExtractedURL, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return domain.ExtractedURL{}, err
	}
	if position < 1 || position > len(list) {
		return domain.ExtractedURL{}, apperrors.NotFound(fmt.Sprintf("Link %d", position))
	}
	return list[position-1], nil
}

// Rename sets the label of the entry at position. Blank text resets the
// label to the URL.
func (s *Service) Rename(ctx context.Context, userID int64, position int, text string) (domain.ExtractedURL, error) {
	link, err := s.at(ctx, userID, position)
	if err != nil {
		return domain.ExtractedURL{}, err
	}

	link = link.WithDisplayText(text)
	if err := s.repo.UpdateLink(ctx, userID, link); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ExtractedURL{}, apperrors.NotFound(fmt.Sprintf("Link %d", position))
		}
		return domain.ExtractedURL{}, apperrors.Internal(err)
	}
	return link, nil
}

// Remove deletes the entry at position and returns it.
func (s *Service) Remove(ctx context.Context, userID int64, position int) (domain.ExtractedURL, error) {
	link, err := s.at(ctx, userID, position)
	if err != nil {
		return domain.ExtractedURL{}, err
	}
	if err := s.repo.DeleteLink(ctx, userID, link.ID); err != nil {
		return domain.ExtractedURL{}, apperrors.Internal(err)
	}
	return link, nil
}

// Clear drops the user's list.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	if s.repo == nil {
		return apperrors.Internal(ErrNoStorage)
	}
	if err := s.repo.Clear(ctx, userID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// FetchTitles labels unlabelled web links of the user's list with their page
// titles. It returns how many entries were updated.
func (s *Service) FetchTitles(ctx context.Context, userID int64) (int, error) {
	if s.titles == nil {
		return 0, nil
	}
	list, err := s.List(ctx, userID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, link := range list {
		if err := ctx.Err(); err != nil {
			return updated, apperrors.Network(err)
		}
		if !link.IsValid || link.HasLabel() || !isWebURL(link.URL) {
			continue
		}

		log := s.log.WithFields(logrus.Fields{"user_id": userID, "url": link.URL})
		title, err := s.titles.FetchTitle(ctx, link.URL)
		if err != nil {
			log.WithError(err).Warn("Skipping link, title fetch failed")
			continue
		}
		if strings.TrimSpace(title) == "" {
			continue
		}

		if err := s.repo.UpdateLink(ctx, userID, link.WithDisplayText(title)); err != nil {
			log.WithError(err).Warn("Skipping link, update failed")
			continue
		}
		updated++
	}
	return updated, nil
}

func isWebURL(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
