package job

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Posting is a single scraped job listing.
type Posting struct {
	Source      string
	Title       string
	Description string
	PriceText   string
	Price       int
	Date        string
	URL         string
	Page        int
}

// Identity is the key used to deduplicate postings per user.
// Comparable so it can live in a set.
type Identity struct {
	Source      string
	URL         string
	Title       string
	Description string
}

// Identity returns (source, URL). When the URL is empty it falls back to
// (source, normalized title, normalized description) so distinct untitled
// postings are not collapsed into one key.
func (p Posting) Identity() Identity {
	if p.URL != "" {
		return Identity{Source: p.Source, URL: p.URL}
	}
	return Identity{
		Source:      p.Source,
		Title:       normalizeText(p.Title),
		Description: normalizeText(p.Description),
	}
}

// Verdict is the parsed relevance assessment for one posting.
type Verdict struct {
	Score   int
	Reason  string
	Posting Posting
}

func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, str)
	if err != nil {
		result = str
	}
	return strings.Join(strings.Fields(strings.ToLower(result)), " ")
}
