package analysis

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/inesalsa/politicool/internal/store"
)

const (
	// historyLimit caps how many prior-round answers a follow-up
	// analysis may carry; beyond that the prompt gets too long for
	// little signal.
	historyLimit = 30

	historySeparator   = "--- HISTORIQUE DES RÉPONSES PRÉCÉDENTES ---"
	historyPrefix      = "ANCIEN - "
	skippedPlaceholder = "Question passée"

	lineSeparator = " : "

	// A line shorter than this cannot carry an actual answer.
	minLineRunes  = 10
	minValidLines = 2

	// Below this many answered questions, skipped ones are pulled in
	// as placeholders so the analysis has something to work with.
	skippedPullThreshold = 3
)

// gathered holds the formatted answer lines feeding the prompt. total
// counts every response row considered, including skips and history;
// zero total means the user never interacted with the quiz at all.
type gathered struct {
	lines    []string
	answered int
	total    int
}

// gatherInput collects the user's answers as "question : answer" lines.
// On a follow-up attempt, prior-round answers are appended after a
// separator, newest first, marked as old.
func gatherInput(ctx context.Context, responses store.ResponseRepo, userID uint, followUp bool) (*gathered, error) {
	answered, err := responses.ActiveByStatus(ctx, userID, store.StatusAnswered)
	if err != nil {
		return nil, err
	}

	g := &gathered{answered: len(answered), total: len(answered)}
	for _, r := range answered {
		g.lines = append(g.lines, r.Question.Text+lineSeparator+r.Text)
	}

	if len(answered) < skippedPullThreshold {
		skipped, err := responses.ActiveByStatus(ctx, userID, store.StatusSkipped)
		if err != nil {
			return nil, err
		}
		for _, r := range skipped {
			g.lines = append(g.lines, r.Question.Text+lineSeparator+skippedPlaceholder)
		}
		g.total += len(skipped)
	}

	if followUp {
		historical, err := responses.Historical(ctx, userID, historyLimit)
		if err != nil {
			return nil, err
		}
		if len(historical) > 0 {
			g.lines = append(g.lines, historySeparator)
			for _, r := range historical {
				g.lines = append(g.lines, historyPrefix+r.Question.Text+lineSeparator+r.Text)
			}
			g.total += len(historical)
		}
	}

	return g, nil
}

// validLines filters out lines too short to carry an answer or lacking
// the question/answer separator. The history separator line is kept so
// the prompt preserves the old/new split, but it does not count toward
// the valid-line quota.
func validLines(lines []string) (kept []string, count int) {
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t == historySeparator {
			kept = append(kept, t)
			continue
		}
		if utf8.RuneCountInString(t) > minLineRunes && strings.Contains(t, lineSeparator) {
			kept = append(kept, t)
			count++
		}
	}
	return kept, count
}
