package ingest

import "strings"

// extractJSON pulls the first JSON object out of a generation reply.
// Models wrap their output in markdown fences, prepend prose, or stop
// mid-object; fences and prose are stripped and a truncated object is
// auto-closed so the schema check gets a decodable candidate.
func extractJSON(text string) (string, bool) {
	s := strings.TrimSpace(text)

	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}

	start := strings.Index(s, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	out := strings.TrimRight(s[start:], " \t\n,")
	if inString {
		out += `"`
	}
	return out + strings.Repeat("}", depth), true
}
