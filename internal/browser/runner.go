// Package browser implements the scraper's fetch/extract capability with
// headless Chromium via Playwright.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/StanGar30/freelance-bot-ai/internal/scraper"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// field extraction is bounded so an absent node never stalls a scrape
const extractTimeoutMs = 1000

// Runner owns the Playwright driver for the process lifetime.
type Runner struct {
	pw  *playwright.Playwright
	log *zap.Logger
}

func NewRunner(log *zap.Logger) (*Runner, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	return &Runner{pw: pw, log: log}, nil
}

func (r *Runner) Stop() error {
	return r.pw.Stop()
}

// Acquire launches a fresh headless browser for one source scrape. The
// returned fetcher must be closed when the scrape finishes.
func (r *Runner) Acquire(ctx context.Context) (scraper.Fetcher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			"--window-size=1920,1080",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("create browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}

	return &session{browser: browser, page: page}, nil
}

type session struct {
	browser playwright.Browser
	page    playwright.Page
}

// Fetch navigates to the listing URL, waits for the job element selector to
// appear within timeout and returns the matched elements.
func (s *session) Fetch(ctx context.Context, pageURL, selector string, timeout time.Duration) ([]scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms := playwright.Float(float64(timeout.Milliseconds()))

	if _, err := s.page.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   ms,
	}); err != nil {
		return nil, fmt.Errorf("goto %s: %w", pageURL, err)
	}

	root := s.page.Locator(selector)
	if err := root.First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: ms,
	}); err != nil {
		return nil, fmt.Errorf("wait for %q: %w", selector, err)
	}

	cards, err := root.All()
	if err != nil {
		return nil, fmt.Errorf("collect %q: %w", selector, err)
	}

	elements := make([]scraper.Element, 0, len(cards))
	for _, card := range cards {
		elements = append(elements, &element{card: card})
	}
	return elements, nil
}

func (s *session) Close() {
	s.page.Close()
	s.browser.Close()
}

type element struct {
	card playwright.Locator
}

func (e *element) Text(selector string) (string, bool) {
	target := e.card.Locator(selector).First()
	if count, err := target.Count(); err != nil || count == 0 {
		return "", false
	}
	text, err := target.TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(extractTimeoutMs),
	})
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(text), true
}

func (e *element) Attr(selector, name string) (string, bool) {
	target := e.card.Locator(selector).First()
	if count, err := target.Count(); err != nil || count == 0 {
		return "", false
	}
	value, err := target.GetAttribute(name)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}
