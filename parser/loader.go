package parser

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/playwright-community/playwright-go"

	"krisha_importer/config"
)

// Session owns one browser automation stack. Close is idempotent and safe
// on a nil receiver so callers can defer it unconditionally.
type Session interface {
	Close()
}

// RenderedPage is the fully rendered HTML of a listing page plus the
// browser session that produced it. The caller owns the session and must
// close it once done extracting.
type RenderedPage struct {
	HTML    string
	Session Session
}

type browserSession struct {
	page    playwright.Page
	browser playwright.Browser
	pw      *playwright.Playwright
}

func (s *browserSession) Close() {
	if s == nil {
		return
	}
	if s.page != nil {
		s.page.Close()
		s.page = nil
	}
	if s.browser != nil {
		s.browser.Close()
		s.browser = nil
	}
	if s.pw != nil {
		s.pw.Stop()
		s.pw = nil
	}
}

// PageLoader fetches listing pages through a headless browser so that
// client-side rendered content is present in the returned HTML.
type PageLoader struct {
	cfg *config.SourceConfig
}

func NewPageLoader(cfg *config.SourceConfig) *PageLoader {
	return &PageLoader{cfg: cfg}
}

// Load navigates to url and returns the rendered HTML once the marker
// element has appeared. On any failure the browser session is closed before
// the error is returned; on success ownership of the session transfers to
// the caller.
func (l *PageLoader) Load(ctx context.Context, rawURL string) (*RenderedPage, error) {
	if err := l.validateURL(rawURL); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: start playwright: %v", ErrLoadFailed, err)
	}

	sess := &browserSession{pw: pw}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.cfg.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-dev-shm-usage",
		},
	})
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("%w: launch browser: %v", ErrLoadFailed, err)
	}
	sess.browser = browser

	page, err := browser.NewPage()
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("%w: create page: %v", ErrLoadFailed, err)
	}
	sess.page = page

	// Rendering only needs the page's own script; skipping heavy
	// subresources cuts load time roughly in half.
	blocked := make(map[string]bool, len(l.cfg.BlockedResources))
	for _, rt := range l.cfg.BlockedResources {
		blocked[rt] = true
	}
	if err := page.Route("**/*", func(route playwright.Route) {
		if blocked[route.Request().ResourceType()] {
			route.Abort()
			return
		}
		route.Continue()
	}); err != nil {
		sess.Close()
		return nil, fmt.Errorf("%w: set up request routing: %v", ErrLoadFailed, err)
	}

	log.Printf("Loading page: %s", rawURL)

	if _, err := page.Goto(rawURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(l.cfg.NavTimeoutMS)),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		sess.Close()
		return nil, l.classify(err, rawURL)
	}

	if err := page.Locator(l.cfg.MarkerSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(float64(l.cfg.MarkerTimeoutMS)),
	}); err != nil {
		sess.Close()
		return nil, l.classify(err, rawURL)
	}

	html, err := page.Content()
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("%w: read page content: %v", ErrLoadFailed, err)
	}

	return &RenderedPage{HTML: html, Session: sess}, nil
}

func (l *PageLoader) validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrUnsupportedSource, rawURL)
	}
	host := strings.ToLower(u.Hostname())
	domain := strings.ToLower(l.cfg.Domain)
	if host != domain && !strings.HasSuffix(host, "."+domain) {
		return fmt.Errorf("%w: %s", ErrUnsupportedSource, rawURL)
	}
	return nil
}

func (l *PageLoader) classify(err error, rawURL string) error {
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return fmt.Errorf("%w: %s", ErrLoadTimeout, rawURL)
	}
	return fmt.Errorf("%w: %s: %v", ErrLoadFailed, rawURL, err)
}
