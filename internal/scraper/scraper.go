// Package scraper turns a source descriptor into normalized job postings.
// One generic algorithm driven by per-source locator tables; the actual page
// fetching sits behind the Fetcher interface.
package scraper

import (
	"context"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/StanGar30/freelance-bot-ai/internal/job"
	"github.com/StanGar30/freelance-bot-ai/internal/source"
)

// Scrape policy. Timeouts are randomized to desynchronize load against the
// target site; pages are paced to stay polite.
const (
	maxPages = 2

	fetchTimeoutMin = 5 * time.Second
	fetchTimeoutMax = 60 * time.Second

	pagePauseMin = 3 * time.Second
	pagePauseMax = 7 * time.Second
)

// Sentinels for fields whose locator is absent on a job element.
const (
	noTitle       = "no title"
	noDescription = "no description"
	noPrice       = "price unspecified"
	noDate        = "date unspecified"
)

// Element is one job card on a listing page. Both accessors distinguish
// "locator absent" (ok == false) from "found but empty".
type Element interface {
	Text(selector string) (string, bool)
	Attr(selector, name string) (string, bool)
}

// Fetcher loads a listing page and returns its job elements once the element
// selector is present, failing after the given timeout.
type Fetcher interface {
	Fetch(ctx context.Context, url, selector string, timeout time.Duration) ([]Element, error)
	Close()
}

// Pool hands out one fetcher per source scrape. The browser capability is
// scarce; acquisition failure is a recoverable per-source error.
type Pool interface {
	Acquire(ctx context.Context) (Fetcher, error)
}

type Scraper struct {
	pool Pool
	log  *zap.Logger

	fetchTimeoutMin time.Duration
	fetchTimeoutMax time.Duration
	pagePauseMin    time.Duration
	pagePauseMax    time.Duration
}

func New(pool Pool, log *zap.Logger) *Scraper {
	return &Scraper{
		pool:            pool,
		log:             log,
		fetchTimeoutMin: fetchTimeoutMin,
		fetchTimeoutMax: fetchTimeoutMax,
		pagePauseMin:    pagePauseMin,
		pagePauseMax:    pagePauseMax,
	}
}

// Scrape paginates one source and returns its postings in page order, then
// element order within a page. Postings priced below minPrice are dropped.
// Failures never propagate: the result degrades to whatever pages and
// elements succeeded.
func (s *Scraper) Scrape(ctx context.Context, src source.Descriptor, minPrice int) []job.Posting {
	fetcher, err := s.pool.Acquire(ctx)
	if err != nil {
		s.log.Warn("browser unavailable for source",
			zap.String("source", src.Name),
			zap.Error(err),
		)
		return nil
	}
	defer fetcher.Close()

	origin := src.Origin()

	var postings []job.Posting
	for page := 1; page <= maxPages; page++ {
		if ctx.Err() != nil {
			return postings
		}

		timeout := randomDuration(s.fetchTimeoutMin, s.fetchTimeoutMax)
		elements, err := fetcher.Fetch(ctx, src.PageURL(page), src.Selector, timeout)
		if err != nil {
			s.log.Warn("page fetch failed",
				zap.String("source", src.Name),
				zap.Int("page", page),
				zap.Error(err),
			)
			return postings
		}

		s.log.Info("job elements found",
			zap.String("source", src.Name),
			zap.Int("page", page),
			zap.Int("count", len(elements)),
		)

		for _, el := range elements {
			p := extractPosting(el, src, origin, page)
			if p.Price < minPrice {
				continue
			}
			postings = append(postings, p)
		}

		if page < maxPages {
			if err := sleepCtx(ctx, randomDuration(s.pagePauseMin, s.pagePauseMax)); err != nil {
				return postings
			}
		}
	}

	return postings
}

// extractPosting reads the four fields independently; an absent locator
// yields the field's sentinel and never aborts the element.
func extractPosting(el Element, src source.Descriptor, origin string, page int) job.Posting {
	title, postingURL := noTitle, ""
	if t, ok := el.Text(src.TitleSelector); ok {
		title = t
		if href, ok := el.Attr(src.TitleSelector, "href"); ok {
			postingURL = href
		}
	}

	description := noDescription
	if d, ok := el.Text(src.DescriptionSelector); ok {
		description = d
	}

	priceText := noPrice
	if p, ok := el.Text(src.PriceSelector); ok {
		priceText = p
	}

	date := noDate
	if d, ok := el.Text(src.DateSelector); ok {
		date = d
	}

	return job.Posting{
		Source:      src.Name,
		Title:       title,
		Description: description,
		PriceText:   priceText,
		Price:       ParsePrice(priceText),
		Date:        date,
		URL:         ResolveURL(origin, postingURL),
		Page:        page,
	}
}

var digitRuns = regexp.MustCompile(`\d+`)

// ParsePrice concatenates the digit runs in raw price text and parses them as
// an integer. Text without digits yields 0.
func ParsePrice(text string) int {
	runs := digitRuns.FindAllString(text, -1)
	if len(runs) == 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.Join(runs, ""))
	if err != nil {
		return 0
	}
	return n
}

// ResolveURL prefixes relative posting links with the source origin
// (scheme+host).
func ResolveURL(origin, raw string) string {
	if raw == "" || strings.HasPrefix(raw, "http") {
		return raw
	}
	if strings.HasPrefix(raw, "/") {
		return origin + raw
	}
	return origin + "/" + raw
}

func randomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
