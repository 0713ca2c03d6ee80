package telegram

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/StanGar30/freelance-bot-ai/internal/job"
)

const descriptionLimit = 500

// plain-text skill suggestion trigger, e.g. "search telegram bots" or
// "поиск парсинг сайтов"
var searchQueryPattern = regexp.MustCompile(`(?i)^(?:search|поиск)\s+(.+)$`)

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// formatVerdict builds the MarkdownV2 job card for a qualifying posting.
func formatVerdict(v job.Verdict) string {
	p := v.Posting

	description := p.Description
	if runes := []rune(description); len(runes) > descriptionLimit {
		description = string(runes[:descriptionLimit]) + "…"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💼 *%s*\n", escapeMarkdown(p.Title))
	fmt.Fprintf(&b, "%s\n", escapeMarkdown(description))
	fmt.Fprintf(&b, "💰 %s\n", escapeMarkdown(p.PriceText))
	fmt.Fprintf(&b, "📅 %s\n", escapeMarkdown(p.Date))
	fmt.Fprintf(&b, "🤖 Relevance: %d/10\n", v.Score)
	fmt.Fprintf(&b, "💬 %s\n", escapeMarkdown(v.Reason))
	fmt.Fprintf(&b, "🔖 Source: %s", escapeMarkdown(p.Source))
	return b.String()
}

// parseSkills splits a comma-separated skill list, dropping empty entries.
func parseSkills(args string) []string {
	parts := strings.Split(args, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			skills = append(skills, part)
		}
	}
	return skills
}

// searchQuery extracts the query from a "search ..." message, if present.
func searchQuery(text string) (string, bool) {
	m := searchQueryPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
