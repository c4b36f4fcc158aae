package analysis

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the generation instruction. The section list is
// fixed so the reply can be validated against it; previous, when
// non-empty, is the user's prior analysis and requests the fifth
// comparison section.
func buildPrompt(lines []string, previous string) string {
	var b strings.Builder

	b.WriteString("Tu es un analyste politique français. À partir des réponses ")
	b.WriteString("d'un utilisateur à un questionnaire d'opinion, rédige une analyse ")
	b.WriteString("en français structurée EXACTEMENT en sections numérotées, dans cet ordre :\n\n")

	fmt.Fprintf(&b, "%d. **%s**: le parti politique français le plus proche des opinions exprimées\n",
		KindParty.Number(), KindParty.Header())
	fmt.Fprintf(&b, "%d. **%s**: la position sur les axes gauche-droite et libéral-autoritaire\n",
		KindOrientation.Number(), KindOrientation.Header())
	fmt.Fprintf(&b, "%d. **%s**: les valeurs dominantes détectées dans les réponses\n",
		KindValues.Number(), KindValues.Header())
	fmt.Fprintf(&b, "%d. **%s**: un tableau de pourcentages par idéologie, entre balises ```, "+
		"au format : | Socialisme      ▓▓▓▓▓▓ | 60%%\n",
		KindGraphic.Number(), KindGraphic.Header())
	if previous != "" {
		fmt.Fprintf(&b, "%d. **%s**: l'évolution des opinions par rapport à l'analyse précédente fournie ci-dessous\n",
			KindEvolution.Number(), KindEvolution.Header())
	}

	b.WriteString("\nRéponses de l'utilisateur :\n")
	for _, l := range lines {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteString("\n")
	}

	if previous != "" {
		b.WriteString("\nAnalyse précédente :\n")
		b.WriteString(previous)
		b.WriteString("\n")
	}

	b.WriteString("\nNe renvoie que l'analyse, sans introduction ni conclusion.")
	return b.String()
}
