package analysis

import "testing"

func TestExtractFields(t *testing.T) {
	text := `1. **Parti politique**: Les Républicains (LR) - proche des positions conservatrices

2. **Orientation politique**: Centre-droit - Libéral-conservateur

3. **Valeurs principales**: Sécurité, tradition, mérite

4. **Graphique ASCII**:
` + "```" + `
| Conservatisme           ▓▓▓▓▓▓ | 60%
| Libéralisme économique  ▓▓▓▓▓  | 50%
| Nationalisme            ▓▓▓    | 30%
| Socialisme              ▓      | 10%
` + "```" + `
`

	p := ExtractFields(text)

	if p.Party != "Les Républicains (LR)" {
		t.Errorf("party = %q", p.Party)
	}
	if p.Orientation != "Centre-droit" {
		t.Errorf("orientation = %q", p.Orientation)
	}
	if p.Conservatism == nil || *p.Conservatism != 60 {
		t.Errorf("conservatism = %v, want 60", p.Conservatism)
	}
	if p.EconomicLiberalism == nil || *p.EconomicLiberalism != 50 {
		t.Errorf("economic liberalism = %v, want 50", p.EconomicLiberalism)
	}
	if p.Nationalism == nil || *p.Nationalism != 30 {
		t.Errorf("nationalism = %v, want 30", p.Nationalism)
	}
	if p.Socialism == nil || *p.Socialism != 10 {
		t.Errorf("socialism = %v, want 10", p.Socialism)
	}
	if p.Communism != nil {
		t.Errorf("communism = %v, want nil for absent row", p.Communism)
	}
}

func TestExtractFieldsCapsPercentages(t *testing.T) {
	text := "4. **Graphique ASCII**:\n```\n| Populisme ▓▓▓ | 250%\n```"
	p := ExtractFields(text)
	if p.Populism == nil || *p.Populism != 100 {
		t.Errorf("populism = %v, want capped at 100", p.Populism)
	}
}

func TestExtractFieldsIgnoresUnknownIdeology(t *testing.T) {
	text := "4. **Graphique ASCII**:\n```\n| Monarchisme ▓▓▓ | 40%\n```"
	p := ExtractFields(text)
	if p.Conservatism != nil || p.Socialism != nil || p.Centrism != nil {
		t.Error("unknown ideology row should set nothing")
	}
}

func TestExtractFieldsToleratesMissingSections(t *testing.T) {
	p := ExtractFields("du texte libre sans aucune structure")
	if p.Party != "" || p.Orientation != "" {
		t.Errorf("expected empty fields, got party=%q orientation=%q", p.Party, p.Orientation)
	}
}

func TestPartyLabelCutsAtPeriod(t *testing.T) {
	got := partyLabel("**: Renaissance (LREM). Ce parti correspond le mieux")
	if got != "Renaissance (LREM)" {
		t.Errorf("partyLabel = %q", got)
	}
}
