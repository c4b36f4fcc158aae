package news

import (
	"context"
	"strings"

	"github.com/inesalsa/politicool/internal/llm"
)

// summaryUnavailable replaces refused or empty summaries.
const summaryUnavailable = "Résumé non disponible. Veuillez lire l'article complet."

// introPrefixes are boilerplate openings models prepend despite being
// told not to. A summary starting with one is cut at its first colon.
var introPrefixes = []string{
	"voici un résumé",
	"voici le résumé",
	"voici une synthèse",
	"résumé de l'article",
	"résumé :",
	"en résumé",
}

// refusalMarkers flag a summary that is a refusal rather than content.
var refusalMarkers = []string{
	"je ne peux pas",
	"je ne suis pas en mesure",
	"désolé",
	"i cannot",
	"i can't",
	"as an ai",
}

// Summarize produces a short French summary of an article. Failures
// degrade to a fixed unavailable message, never an error: the feed
// must render with or without summaries.
func Summarize(ctx context.Context, provider llm.Provider, a *Article) string {
	text := a.Description
	if a.Content != "" {
		text = a.Content
	}
	if strings.TrimSpace(text) == "" {
		return summaryUnavailable
	}

	prompt := "Résume cet article de presse en 3 phrases maximum, en français, " +
		"sans introduction ni commentaire.\n\nTitre : " + a.Title + "\n\n" + text

	resp, err := provider.Generate(llm.WithPurpose(ctx, "summary"), llm.Request{
		Prompt:      prompt,
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		return summaryUnavailable
	}
	return cleanSummary(resp.Text)
}

// cleanSummary strips boilerplate intros and replaces refusals with
// the unavailable message.
func cleanSummary(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return summaryUnavailable
	}

	lower := strings.ToLower(s)
	for _, marker := range refusalMarkers {
		if strings.Contains(lower, marker) {
			return summaryUnavailable
		}
	}

	for _, prefix := range introPrefixes {
		if strings.HasPrefix(lower, prefix) {
			if i := strings.Index(s, ":"); i >= 0 && i < len(s)-1 {
				s = strings.TrimSpace(s[i+1:])
			}
			break
		}
	}

	if s == "" {
		return summaryUnavailable
	}
	return s
}
