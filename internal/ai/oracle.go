package ai

import (
	"context"
	"fmt"
	"strings"
)

// Oracle is the interface for the language-scoring capability. Responses are
// opaque text; parsing is owned by the caller.
type Oracle interface {
	// ScoreRelevance asks the model how well one posting matches the skill
	// list. The response is expected to contain "Relevance:" and "Reason:"
	// lines, but no format is guaranteed.
	ScoreRelevance(ctx context.Context, skills []string, title, description, price string) (string, error)

	// ExtractSkills suggests key skills for a free-form search query.
	ExtractSkills(ctx context.Context, query string) (string, error)
}

// BuildRelevancePrompt creates the scoring prompt for a single posting.
func BuildRelevancePrompt(skills []string, title, description, price string) string {
	return fmt.Sprintf(`Please analyze this freelance job and determine how well it matches the following skills: %s.
Give the shortest possible answer, no more than 1 sentence.
Job:
Title: %s
Description: %s
Budget: %s

Give a relevance score from 0 to 10, where 10 is a perfect match for the skills, and explain your score.
Return the answer in the format:
Relevance: [score]
Reason: [explanation]`, strings.Join(skills, ", "), title, description, price)
}

// BuildSkillsPrompt creates the skill-extraction prompt for a search query.
func BuildSkillsPrompt(query string) string {
	return fmt.Sprintf(`The user is looking for freelance jobs with the query: %q
List 3-5 key skills that may be related to this query.
Give a very short answer in the form of a comma-separated list of skills, no more than 1 sentence.`, query)
}
