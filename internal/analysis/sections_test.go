package analysis

import (
	"strings"
	"testing"
)

const fullReply = `1. **Parti politique**: Parti Socialiste (PS) - aligné avec la justice sociale

2. **Orientation politique**: Centre-gauche - Sociale-démocrate

3. **Valeurs principales**: Solidarité, égalité, services publics

4. **Graphique ASCII**:
` + "```" + `
| Socialisme    ▓▓▓▓▓▓ | 60%
| Écologisme    ▓▓▓▓   | 40%
` + "```" + `
`

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Verdict
	}{
		{"full reply passes", fullReply, VerdictPass},
		{"empty reply", "   \n", VerdictFallback},
		{"error marker", "Erreur: le service est indisponible", VerdictFallback},
		{"english error marker", "An internal error occurred", VerdictFallback},
		{
			"one missing section",
			"1. **Parti politique**: PS\n\n2. **Orientation politique**: gauche\n\n4. **Graphique ASCII**:\n```\n```",
			VerdictRepair,
		},
		{
			"two missing sections",
			"1. **Parti politique**: PS\n\n2. **Orientation politique**: gauche",
			VerdictRepair,
		},
		{
			"three missing sections",
			"Voici mon avis sur le parti politique le plus proche.",
			VerdictFallback,
		},
		{"free text", "Je ne peux pas répondre à cette demande.", VerdictFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Evaluate(tt.text)
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRepairSplicesPlaceholdersBeforeContent(t *testing.T) {
	raw := "1. **Parti politique**: PS\n\n2. **Orientation politique**: gauche\n\n4. **Graphique ASCII**:\n```\n```"
	d := Parse(raw)

	missing := d.MissingRequired()
	if len(missing) != 1 || missing[0] != KindValues {
		t.Fatalf("missing = %v, want [KindValues]", missing)
	}

	repaired := d.Repair()
	for _, k := range requiredKinds {
		if !strings.Contains(repaired, k.Header()) {
			t.Errorf("repaired text lacks header %q", k.Header())
		}
	}
	if !strings.Contains(repaired, "3. **Valeurs principales**: Non disponible") {
		t.Errorf("placeholder not numbered and labeled:\n%s", repaired)
	}

	placeholder := strings.Index(repaired, "Valeurs principales")
	original := strings.Index(repaired, "Parti politique")
	if placeholder > original {
		t.Errorf("placeholder spliced after existing content")
	}
}

func TestRepairNumbersUnnumberedHeaders(t *testing.T) {
	raw := "**Parti politique**: PS\n\n**Orientation politique**: gauche\n\n**Graphique ASCII**:\n```\n```"
	d := Parse(raw)

	repaired := d.Repair()
	for _, want := range []string{
		"1. **Parti politique**",
		"2. **Orientation politique**",
		"3. **Valeurs principales**: Non disponible",
		"4. **Graphique ASCII**",
	} {
		if !strings.Contains(repaired, want) {
			t.Errorf("repaired text lacks %q:\n%s", want, repaired)
		}
	}
}

func TestRepairCorrectsWrongSequenceNumbers(t *testing.T) {
	raw := "2. **Parti politique**: PS\n\n3. **Orientation politique**: gauche\n\n1. **Graphique ASCII**:\n```\n```"
	d := Parse(raw)

	repaired := d.Repair()
	if !strings.Contains(repaired, "1. **Parti politique**") {
		t.Errorf("party header not renumbered:\n%s", repaired)
	}
	if !strings.Contains(repaired, "2. **Orientation politique**") {
		t.Errorf("orientation header not renumbered:\n%s", repaired)
	}
	if !strings.Contains(repaired, "4. **Graphique ASCII**") {
		t.Errorf("graphic header not renumbered:\n%s", repaired)
	}
}

func TestRepairPassThroughWhenComplete(t *testing.T) {
	d := Parse(fullReply)
	if got := d.Repair(); got != fullReply {
		t.Errorf("complete reply was modified by repair:\n%s", got)
	}
}

func TestEnsureGraphicFencesWrapsBody(t *testing.T) {
	raw := "1. **Parti politique**: PS\n\n2. **Orientation politique**: gauche\n\n" +
		"3. **Valeurs principales**: solidarité\n\n4. **Graphique ASCII**:\n" +
		"| Socialisme ▓▓▓ | 30%\n"

	got := ensureGraphicFences(raw)
	if strings.Count(got, "```") != 2 {
		t.Fatalf("want exactly one fenced block, got:\n%s", got)
	}
	open := strings.Index(got, "```")
	if strings.Index(got, "| Socialisme") < open {
		t.Errorf("graphic body not inside fences:\n%s", got)
	}
}

func TestEnsureGraphicFencesAppendsWhenHeaderAbsent(t *testing.T) {
	got := ensureGraphicFences("du texte sans graphique")
	if !strings.HasSuffix(got, "\n```\n```") {
		t.Errorf("expected appended empty fences, got:\n%s", got)
	}
}

func TestParseAcceptsUnaccentedEvolution(t *testing.T) {
	d := Parse("5. **Evolution d'opinion**: opinions stables")
	if !d.Has(KindEvolution) {
		t.Error("unaccented evolution header not recognized")
	}
}

func TestBodySpansToNextHeader(t *testing.T) {
	d := Parse(fullReply)
	body := d.Body(KindOrientation)
	if !strings.Contains(body, "Centre-gauche") {
		t.Errorf("orientation body = %q", body)
	}
	if strings.Contains(body, "Solidarité") {
		t.Errorf("orientation body leaks into next section: %q", body)
	}
}
