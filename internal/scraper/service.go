package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// ErrBrowserNotFound is returned when no Chromium binary can be located.
var ErrBrowserNotFound = errors.New("rod browser dependency not found")

// RodScraper implements TitleFetcher with a headless browser driven by rod.
type RodScraper struct {
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewRodScraper creates a scraper that gives each page at most timeout to load.
func NewRodScraper(logger logrus.FieldLogger, timeout time.Duration) *RodScraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RodScraper{
		log:     logger.WithField("component", "scraper"),
		timeout: timeout,
	}
}

// Available reports whether a browser binary is installed.
func Available() bool {
	_, ok := launcher.LookPath()
	return ok
}

// FetchTitle launches a browser, loads url and reads its title.
func (s *RodScraper) FetchTitle(ctx context.Context, url string) (title string, err error) {
	log := s.log.WithField("url", url)
	log.Debug("Fetching page title")

	path, exists := launcher.LookPath()
	if !exists {
		log.Error("Cannot find browser executable for rod")
		return "", ErrBrowserNotFound
	}

	l := launcher.New().Bin(path).Context(ctx)
	defer l.Cleanup()
	u, err := l.Launch()
	if err != nil {
		log.WithError(err).Error("Failed to launch browser")
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err = browser.Connect(); err != nil {
		log.WithError(err).Error("Failed to connect to rod browser")
		return "", fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.WithError(closeErr).Error("Error closing rod browser instance")
			if err == nil {
				err = fmt.Errorf("error closing browser: %w", closeErr)
			}
		}
	}()

	pageCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	page, err := browser.Context(pageCtx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		log.WithError(err).Error("Failed to create rod page")
		return "", fmt.Errorf("failed to create page: %w", err)
	}

	if err = page.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			log.WithError(pageCtx.Err()).Warn("Title fetch timed out")
			return "", fmt.Errorf("fetching title timed out for %s: %w", url, pageCtx.Err())
		}
		log.WithError(err).Error("Failed to wait for page load")
		return "", fmt.Errorf("failed waiting for page load: %w", err)
	}

	info, err := page.Info()
	if err != nil {
		log.WithError(err).Error("Failed to read page info")
		return "", fmt.Errorf("failed to read page info: %w", err)
	}

	title = strings.Join(strings.Fields(info.Title), " ")
	log.WithField("title", title).Debug("Title fetched")
	return title, nil
}
