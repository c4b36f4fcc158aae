package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// Kind enumerates the labeled sections of a generated analysis, in
// their required order. The first four are mandatory; the evolution
// section only appears when a prior analysis exists to compare with.
type Kind int

const (
	KindParty Kind = iota
	KindOrientation
	KindValues
	KindGraphic
	KindEvolution
)

var allKinds = []Kind{KindParty, KindOrientation, KindValues, KindGraphic, KindEvolution}

var requiredKinds = []Kind{KindParty, KindOrientation, KindValues, KindGraphic}

// Header returns the French section header.
func (k Kind) Header() string {
	switch k {
	case KindParty:
		return "Parti politique"
	case KindOrientation:
		return "Orientation politique"
	case KindValues:
		return "Valeurs principales"
	case KindGraphic:
		return "Graphique ASCII"
	case KindEvolution:
		return "Évolution d'opinion"
	}
	return ""
}

// Number is the 1-based position used in rendered headers.
func (k Kind) Number() int { return int(k) + 1 }

// aliases lists accepted spellings per kind, lowercased. Generated
// text frequently drops accents.
func (k Kind) aliases() []string {
	if k == KindEvolution {
		return []string{"évolution d'opinion", "evolution d'opinion"}
	}
	return []string{strings.ToLower(k.Header())}
}

// Document is the parsed form of a generated analysis: per-section
// presence plus header byte offsets into the raw text. Extraction runs
// once into this structure and repairs render back out of it, instead
// of mutating the raw string repeatedly.
type Document struct {
	Raw string

	present   [5]bool
	position  [5]int
	headerLen [5]int
}

// Parse locates the section headers of text, case-insensitively.
func Parse(text string) *Document {
	d := &Document{Raw: text}
	lower := strings.ToLower(text)
	for _, k := range allKinds {
		d.position[k] = -1
		for _, a := range k.aliases() {
			if i := strings.Index(lower, a); i >= 0 {
				d.present[k] = true
				d.position[k] = i
				d.headerLen[k] = len(a)
				break
			}
		}
	}
	return d
}

// Has reports whether section k was found.
func (d *Document) Has(k Kind) bool { return d.present[k] }

// MissingRequired returns the mandatory sections absent from the text,
// in section order.
func (d *Document) MissingRequired() []Kind {
	var missing []Kind
	for _, k := range requiredKinds {
		if !d.present[k] {
			missing = append(missing, k)
		}
	}
	return missing
}

// Body returns the text span of section k, from just after its header
// to the next located header or the end of the text. Empty when the
// section is absent.
func (d *Document) Body(k Kind) string {
	if !d.present[k] {
		return ""
	}
	start := d.position[k] + d.headerLen[k]
	end := len(d.Raw)
	for _, other := range allKinds {
		if p := d.position[other]; p > d.position[k] && p < end {
			end = p
		}
	}
	return d.Raw[start:end]
}

// Repair renders the analysis with every located header carrying its
// sequence number, any missing required sections spliced in as numbered
// "Non disponible" placeholders before the existing content, and the
// graphic block fenced. A document whose sections are already numbered,
// complete, and fenced comes back unchanged.
func (d *Document) Repair() string {
	out := d.renumbered()
	if missing := d.MissingRequired(); len(missing) > 0 {
		var b strings.Builder
		for _, k := range missing {
			fmt.Fprintf(&b, "%d. **%s**: Non disponible\n\n", k.Number(), k.Header())
		}
		out = b.String() + out
	}
	return ensureGraphicFences(out)
}

// renumbered rewrites each located header line to start with the
// section's sequence number, replacing any number already there.
// Headers are rewritten back to front so an insertion never shifts an
// offset still pending.
func (d *Document) renumbered() string {
	kinds := make([]Kind, 0, len(allKinds))
	for _, k := range allKinds {
		if d.present[k] {
			kinds = append(kinds, k)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return d.position[kinds[i]] > d.position[kinds[j]] })

	out := d.Raw
	for _, k := range kinds {
		lineStart := strings.LastIndexByte(out[:d.position[k]], '\n') + 1
		decoration := stripSequenceNumber(out[lineStart:d.position[k]])
		out = out[:lineStart] + fmt.Sprintf("%d. ", k.Number()) + decoration + out[d.position[k]:]
	}
	return out
}

// stripSequenceNumber drops a leading "N." or "N)" marker from the text
// between a line start and its header, keeping any markdown decoration.
func stripSequenceNumber(prefix string) string {
	s := strings.TrimLeft(prefix, " \t")
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return strings.TrimLeft(s[i+1:], " ")
	}
	return s
}

// ensureGraphicFences wraps the ASCII-graphic section body in ```
// delimiters when the text carries none. When the graphic header
// itself cannot be located, empty delimiters are appended so the
// stored text always holds a well-delimited block.
func ensureGraphicFences(text string) string {
	if strings.Contains(text, "```") {
		return text
	}

	d := Parse(text)
	if !d.present[KindGraphic] {
		return text + "\n```\n```"
	}

	headerStart := d.position[KindGraphic]
	lineEnd := strings.Index(text[headerStart:], "\n")
	if lineEnd < 0 {
		return text + "\n```\n```"
	}
	open := headerStart + lineEnd + 1

	end := len(text)
	for _, k := range allKinds {
		if p := d.position[k]; p > headerStart && p < end {
			end = p
		}
	}

	body := strings.TrimRight(text[open:end], "\n")
	return text[:open] + "```\n" + body + "\n```\n" + text[end:]
}

// Verdict classifies a raw generation reply.
type Verdict int

const (
	// VerdictPass accepts the reply as-is.
	VerdictPass Verdict = iota

	// VerdictRepair accepts the reply once placeholder sections are
	// spliced in (1 or 2 required sections missing).
	VerdictRepair

	// VerdictFallback rejects the reply outright: empty, carrying an
	// error marker, or missing more than 2 required sections.
	VerdictFallback
)

// Evaluate checks a reply against the section schema. The returned
// Document is nil on VerdictFallback.
func Evaluate(text string) (Verdict, *Document) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	if trimmed == "" || strings.Contains(lower, "erreur") || strings.Contains(lower, "error") {
		return VerdictFallback, nil
	}

	d := Parse(text)
	switch missing := len(d.MissingRequired()); {
	case missing > 2:
		return VerdictFallback, nil
	case missing > 0:
		return VerdictRepair, d
	default:
		return VerdictPass, d
	}
}
