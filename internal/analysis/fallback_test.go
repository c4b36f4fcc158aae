package analysis

import (
	"strings"
	"testing"
)

func TestChooseTemplate(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			"left keywords dominate",
			[]string{
				"Services publics : il faut défendre le service public",
				"Fiscalité : plus de redistribution et de solidarité",
			},
			"Parti Socialiste (PS)",
		},
		{
			"right keywords dominate",
			[]string{
				"Sécurité : renforcer l'ordre et la sécurité",
				"Économie : soutenir l'entreprise et le mérite",
			},
			"Les Républicains (LR)",
		},
		{
			"centrist keywords dominate",
			[]string{
				"Réformes : avancer par le dialogue et l'équilibre",
				"Méthode : rester pragmatique et modéré",
			},
			"Renaissance (LREM)",
		},
		{
			"left-right tie resolves to center",
			[]string{
				"Santé : financement public",
				"Sécurité : plus de police",
			},
			"Renaissance (LREM)",
		},
		{
			"no keywords at all",
			[]string{"Divers : rien de particulier à signaler"},
			"Renaissance (LREM)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chooseTemplate(tt.lines)
			if got.party != tt.want {
				t.Errorf("party = %q, want %q", got.party, tt.want)
			}
		})
	}
}

func TestHeuristicAnalysisIsSchemaValid(t *testing.T) {
	lines := []string{
		"Fiscalité : plus de solidarité",
		"Travail : protéger les travailleurs",
		"Écoles : investir dans le public",
	}
	text := heuristicAnalysis(lines)

	verdict, d := Evaluate(text)
	if verdict != VerdictPass {
		t.Fatalf("heuristic output not schema-valid: verdict %v\n%s", verdict, text)
	}
	if missing := d.MissingRequired(); len(missing) != 0 {
		t.Errorf("heuristic output missing sections %v", missing)
	}
	if !strings.Contains(text, "Note: Analyse générée à partir de 3 réponses.") {
		t.Errorf("response count note missing:\n%s", text)
	}
	if strings.Count(text, "```") != 2 {
		t.Errorf("graphic not fenced exactly once:\n%s", text)
	}
}

func TestGenericAnalysisCarriesReason(t *testing.T) {
	text := genericAnalysis(reasonNoResponses)

	for _, k := range requiredKinds {
		if !strings.Contains(text, k.Header()) {
			t.Errorf("generic output lacks header %q", k.Header())
		}
	}
	if !strings.Contains(text, "Raison: aucune réponse disponible") {
		t.Errorf("reason line missing:\n%s", text)
	}
	if !strings.Contains(text, "Non disponible") {
		t.Errorf("placeholder text missing:\n%s", text)
	}
}
