package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/inesalsa/politicool/internal/store"
)

// orientationRe matches the axis label inside the orientation section.
// Compound labels are tried first so "Centre-gauche" does not collapse
// to "Centre"; "droite?" accepts both "centre-droit" and "droite".
var orientationRe = regexp.MustCompile(`(?i)(?:centre|extrême)[-\s]?(?:gauche|droite?)|gauche|droite|centre`)

// graphicRowRe matches one percentage row of the ASCII graphic, e.g.
// "| Socialisme      ▓▓▓▓▓▓ | 60%".
var graphicRowRe = regexp.MustCompile(`\|\s*([\p{L}][\p{L} '-]*?)\s*[▓░▒█]*\s*\|\s*(\d{1,3})\s*%`)

// ideologySetters maps the French ideology labels of the graphic to
// their profile fields, keyed lowercase.
var ideologySetters = map[string]func(p *store.Profile, v int){
	"conservatisme":           func(p *store.Profile, v int) { p.Conservatism = &v },
	"socialisme":              func(p *store.Profile, v int) { p.Socialism = &v },
	"libéralisme":             func(p *store.Profile, v int) { p.Liberalism = &v },
	"libéralisme économique":  func(p *store.Profile, v int) { p.EconomicLiberalism = &v },
	"communisme":              func(p *store.Profile, v int) { p.Communism = &v },
	"fascisme":                func(p *store.Profile, v int) { p.Fascism = &v },
	"progressisme":            func(p *store.Profile, v int) { p.Progressivism = &v },
	"nationalisme":            func(p *store.Profile, v int) { p.Nationalism = &v },
	"anarchisme":              func(p *store.Profile, v int) { p.Anarchism = &v },
	"écologisme":              func(p *store.Profile, v int) { p.Ecologism = &v },
	"populisme":               func(p *store.Profile, v int) { p.Populism = &v },
	"centrisme":               func(p *store.Profile, v int) { p.Centrism = &v },
}

// ExtractFields pulls the structured scalar fields out of an analysis
// text: party label, orientation label, and the ideology percentages of
// the graphic rows. Absent or unparseable parts stay zero-valued; the
// text itself remains the source of truth.
func ExtractFields(text string) store.Profile {
	var p store.Profile
	d := Parse(text)

	if body := d.Body(KindParty); body != "" {
		p.Party = partyLabel(body)
	}
	if body := d.Body(KindOrientation); body != "" {
		p.Orientation = strings.TrimSpace(orientationRe.FindString(body))
	}

	for _, m := range graphicRowRe.FindAllStringSubmatch(text, -1) {
		name := strings.ToLower(strings.TrimSpace(m[1]))
		set, ok := ideologySetters[name]
		if !ok {
			continue
		}
		v, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if v > 100 {
			v = 100
		}
		set(&p, v)
	}

	return p
}

// partyLabel extracts the party name from the party section body:
// first non-empty line, markdown and label punctuation stripped, cut
// at the first dash or period.
func partyLabel(body string) string {
	line := ""
	for _, l := range strings.Split(body, "\n") {
		l = strings.Trim(l, "*: \t")
		if l != "" {
			line = l
			break
		}
	}
	if i := strings.IndexAny(line, "-."); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
