package analysis

import (
	"fmt"
	"strings"
)

// Fallback reason strings surfaced in the minimal template.
const (
	reasonNoResponses  = "aucune réponse disponible"
	reasonTooFewValid  = "réponses valides insuffisantes"
	reasonGatherFailed = "données de réponse inaccessibles"
)

// Keyword sets scored by the heuristic generator. Occurrence counts
// over the lowercased answer text pick the closest template.
var (
	leftTerms   = []string{"social", "égalité", "solidarité", "public", "redistribution", "travailleur"}
	rightTerms  = []string{"sécurité", "économie", "entreprise", "tradition", "ordre", "mérite"}
	centerTerms = []string{"équilibre", "modéré", "pragmatique", "réforme", "dialogue"}
)

type partyTemplate struct {
	party       string
	orientation string
	values      string
	graphic     string
}

var (
	leftTemplate = partyTemplate{
		party:       "Parti Socialiste (PS)",
		orientation: "Centre-gauche - Sociale-démocrate",
		values:      "Justice sociale, égalité, solidarité, défense des services publics",
		graphic: `| Socialisme             ▓▓▓▓▓▓ | 60%
| Écologisme             ▓▓▓▓   | 40%
| Progressisme           ▓▓▓▓▓  | 50%
| Libéralisme économique ▓▓     | 20%`,
	}

	rightTemplate = partyTemplate{
		party:       "Les Républicains (LR)",
		orientation: "Centre-droit - Libéral-conservateur",
		values:      "Sécurité, autorité de l'État, libre entreprise, mérite",
		graphic: `| Conservatisme           ▓▓▓▓▓▓ | 60%
| Libéralisme économique  ▓▓▓▓▓  | 50%
| Nationalisme            ▓▓▓    | 30%
| Socialisme              ▓▓     | 20%`,
	}

	centerTemplate = partyTemplate{
		party:       "Renaissance (LREM)",
		orientation: "Centre - Libéral-progressiste",
		values:      "Équilibre, pragmatisme, réformisme, dialogue",
		graphic: `| Centrisme              ▓▓▓▓▓▓ | 60%
| Libéralisme            ▓▓▓▓▓  | 50%
| Progressisme           ▓▓▓▓   | 40%
| Conservatisme          ▓▓▓    | 30%`,
	}
)

// scoreKeywords sums substring occurrences of every term in text.
func scoreKeywords(text string, terms []string) int {
	score := 0
	for _, term := range terms {
		score += strings.Count(text, term)
	}
	return score
}

// chooseTemplate scores the three keyword sets over the answer lines.
// A strictly highest left or right score picks the matching template;
// every tie, and any centrist win, resolves to the centrist template.
func chooseTemplate(lines []string) partyTemplate {
	text := strings.ToLower(strings.Join(lines, "\n"))
	left := scoreKeywords(text, leftTerms)
	right := scoreKeywords(text, rightTerms)
	center := scoreKeywords(text, centerTerms)

	switch {
	case left > right && left > center:
		return leftTemplate
	case right > left && right > center:
		return rightTemplate
	default:
		return centerTemplate
	}
}

// heuristicAnalysis builds a full four-section analysis from keyword
// scoring alone, used when the generation service is unavailable or
// its reply unusable.
func heuristicAnalysis(lines []string) string {
	t := chooseTemplate(lines)

	n := 0
	for _, l := range lines {
		if l != historySeparator {
			n++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d. **%s**: %s\n\n", KindParty.Number(), KindParty.Header(), t.party)
	fmt.Fprintf(&b, "%d. **%s**: %s\n\n", KindOrientation.Number(), KindOrientation.Header(), t.orientation)
	fmt.Fprintf(&b, "%d. **%s**: %s\n\n", KindValues.Number(), KindValues.Header(), t.values)
	fmt.Fprintf(&b, "%d. **%s**:\n```\n%s\n```\n\n", KindGraphic.Number(), KindGraphic.Header(), t.graphic)
	fmt.Fprintf(&b, "Note: Analyse générée à partir de %d réponses.", n)
	return b.String()
}

// genericAnalysis is the last-resort template, used when no answer data
// could be gathered at all. Every section is a placeholder and the
// reason is carried verbatim.
func genericAnalysis(reason string) string {
	const placeholder = "Non disponible - répondez à plus de questions pour obtenir une analyse"

	var b strings.Builder
	fmt.Fprintf(&b, "%d. **%s**: %s\n\n", KindParty.Number(), KindParty.Header(), placeholder)
	fmt.Fprintf(&b, "%d. **%s**: %s\n\n", KindOrientation.Number(), KindOrientation.Header(), placeholder)
	fmt.Fprintf(&b, "%d. **%s**: %s\n\n", KindValues.Number(), KindValues.Header(), placeholder)
	fmt.Fprintf(&b, "%d. **%s**:\n```\n```\n\n", KindGraphic.Number(), KindGraphic.Header())
	fmt.Fprintf(&b, "Raison: %s", reason)
	return b.String()
}
