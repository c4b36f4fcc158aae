package analysis

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/inesalsa/politicool/internal/llm"
	"github.com/inesalsa/politicool/internal/store"
)

func newTestService(t *testing.T) (*Service, *llm.MockProvider, *store.Store, uint) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	s, err := store.Open(dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	u := &store.User{Username: t.Name(), Email: t.Name() + "@example.org"}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	mock := llm.NewMockProvider()
	svc := NewService(mock, s.Responses(), s.Profiles(), zap.NewNop())
	return svc, mock, s, u.ID
}

// answer seeds a question and an active answered response for it.
func answer(t *testing.T, s *store.Store, userID uint, question, text string) {
	t.Helper()
	ctx := context.Background()
	q := &store.Question{Text: question, Category: "Économie", Valid: true}
	if err := s.Questions().Create(ctx, q); err != nil {
		t.Fatalf("seed question: %v", err)
	}
	if err := s.Responses().Save(ctx, userID, q.ID, text, store.StatusAnswered); err != nil {
		t.Fatalf("seed response: %v", err)
	}
}

func TestSynthesizePassThrough(t *testing.T) {
	svc, mock, s, userID := newTestService(t)
	ctx := context.Background()

	answer(t, s, userID, "Services publics", "il faut les renforcer partout")
	answer(t, s, userID, "Fiscalité", "plus de redistribution")
	mock.AddResponse(llm.MockResponse{Text: fullReply})

	out := svc.Synthesize(ctx, userID, false)

	if out.Source != SourceModel {
		t.Fatalf("source = %q, want model", out.Source)
	}
	if out.Text != fullReply {
		t.Errorf("well-formed reply was modified:\n%s", out.Text)
	}
	if !out.Saved {
		t.Error("profile not saved")
	}
	if out.Profile.Party != "Parti Socialiste (PS)" {
		t.Errorf("extracted party = %q", out.Profile.Party)
	}
	if out.Profile.Socialism == nil || *out.Profile.Socialism != 60 {
		t.Errorf("extracted socialism = %v, want 60", out.Profile.Socialism)
	}

	current, err := s.Profiles().Current(ctx, userID)
	if err != nil {
		t.Fatalf("current profile: %v", err)
	}
	if current == nil || current.Text != fullReply {
		t.Errorf("stored profile does not match returned text")
	}
}

func TestSynthesizeRepairsPartialReply(t *testing.T) {
	svc, mock, s, userID := newTestService(t)

	answer(t, s, userID, "Services publics", "il faut les renforcer partout")
	answer(t, s, userID, "Fiscalité", "plus de redistribution")
	mock.AddResponse(llm.MockResponse{Text: "1. **Parti politique**: PS\n\n" +
		"2. **Orientation politique**: Centre-gauche\n\n" +
		"4. **Graphique ASCII**:\n```\n| Socialisme ▓▓▓ | 30%\n```"})

	out := svc.Synthesize(context.Background(), userID, false)

	if out.Source != SourceRepaired {
		t.Fatalf("source = %q, want repaired", out.Source)
	}
	for _, k := range requiredKinds {
		if !strings.Contains(out.Text, k.Header()) {
			t.Errorf("repaired text lacks header %q", k.Header())
		}
	}
	if !strings.Contains(out.Text, "3. **Valeurs principales**: Non disponible") {
		t.Errorf("missing placeholder section:\n%s", out.Text)
	}
}

func TestSynthesizeFallsBackOnUnusableReply(t *testing.T) {
	svc, mock, s, userID := newTestService(t)

	answer(t, s, userID, "Services publics", "défendre le service public")
	answer(t, s, userID, "Travail", "protéger la solidarité")
	mock.AddResponse(llm.MockResponse{Text: "Je ne peux pas générer cette analyse."})

	out := svc.Synthesize(context.Background(), userID, false)

	if out.Source != SourceHeuristic {
		t.Fatalf("source = %q, want heuristic", out.Source)
	}
	if strings.Contains(out.Text, "Je ne peux pas") {
		t.Errorf("raw reply leaked into fallback output:\n%s", out.Text)
	}
	if !strings.Contains(out.Text, "Parti Socialiste (PS)") {
		t.Errorf("left-leaning answers should pick the PS template:\n%s", out.Text)
	}
}

func TestSynthesizeFallsBackWhenProviderUnreachable(t *testing.T) {
	// The empty mock queue behaves like an unreachable service.
	svc, mock, s, userID := newTestService(t)

	answer(t, s, userID, "Santé", "financement public")
	answer(t, s, userID, "Sécurité", "plus de police")

	out := svc.Synthesize(context.Background(), userID, false)

	if out.Source != SourceHeuristic {
		t.Fatalf("source = %q, want heuristic", out.Source)
	}
	// One left term and one right term: the tie resolves to the
	// centrist template.
	if !strings.Contains(out.Text, "Renaissance (LREM)") {
		t.Errorf("balanced answers should pick the centrist template:\n%s", out.Text)
	}
	if mock.CallCount() != 1 {
		t.Errorf("call count = %d, want exactly one attempt", mock.CallCount())
	}
	if !out.Saved {
		t.Error("fallback profile not saved")
	}
}

func TestSynthesizeGenericWithoutAnyResponses(t *testing.T) {
	svc, mock, _, userID := newTestService(t)

	out := svc.Synthesize(context.Background(), userID, false)

	if out.Source != SourceGeneric {
		t.Fatalf("source = %q, want generic", out.Source)
	}
	if mock.CallCount() != 0 {
		t.Errorf("generation service called despite empty answer set")
	}
	if !strings.Contains(out.Text, "Raison: aucune réponse disponible") {
		t.Errorf("reason line missing:\n%s", out.Text)
	}
}

func TestSynthesizeGenericWhenLinesTooShort(t *testing.T) {
	svc, mock, s, userID := newTestService(t)

	// Both lines fail the length gate once trimmed.
	answer(t, s, userID, "A", "b")
	answer(t, s, userID, "C", "d")

	out := svc.Synthesize(context.Background(), userID, false)

	if out.Source != SourceGeneric {
		t.Fatalf("source = %q, want generic", out.Source)
	}
	if mock.CallCount() != 0 {
		t.Errorf("generation service called despite invalid lines")
	}
	if !strings.Contains(out.Text, "Raison: réponses valides insuffisantes") {
		t.Errorf("reason line missing:\n%s", out.Text)
	}
}

func TestSynthesizeFollowUpIncludesHistory(t *testing.T) {
	svc, mock, s, userID := newTestService(t)
	ctx := context.Background()

	answer(t, s, userID, "Ancienne question", "ancienne réponse donnée")
	if _, err := s.Responses().DeactivateAll(ctx, userID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	answer(t, s, userID, "Services publics", "il faut les renforcer partout")
	answer(t, s, userID, "Fiscalité", "plus de redistribution")

	mock.AddResponse(llm.MockResponse{Text: fullReply})
	svc.Synthesize(ctx, userID, true)

	if mock.CallCount() != 1 {
		t.Fatalf("call count = %d", mock.CallCount())
	}
	prompt := mock.Calls[0].Prompt
	if !strings.Contains(prompt, historySeparator) {
		t.Errorf("history separator missing from prompt")
	}
	if !strings.Contains(prompt, historyPrefix+"Ancienne question") {
		t.Errorf("historical answer missing from prompt:\n%s", prompt)
	}
}

func TestSynthesizeFollowUpWithOnlyHistoricalAnswers(t *testing.T) {
	svc, mock, s, userID := newTestService(t)
	ctx := context.Background()

	// A full prior round, then a restart: nothing active remains.
	answer(t, s, userID, "Ancienne question", "ancienne réponse donnée")
	answer(t, s, userID, "Services publics", "il faut les renforcer partout")
	if _, err := s.Responses().DeactivateAll(ctx, userID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	mock.AddResponse(llm.MockResponse{Text: fullReply})
	out := svc.Synthesize(ctx, userID, true)

	if out.Source != SourceModel {
		t.Fatalf("source = %q, want model", out.Source)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("call count = %d, want 1", mock.CallCount())
	}
	prompt := mock.Calls[0].Prompt
	if !strings.Contains(prompt, historySeparator) {
		t.Errorf("history separator missing from prompt")
	}
	for _, q := range []string{"Ancienne question", "Services publics"} {
		if !strings.Contains(prompt, historyPrefix+q) {
			t.Errorf("historical answer %q missing from prompt:\n%s", q, prompt)
		}
	}
}

func TestSynthesizeFollowUpRequestsEvolutionSection(t *testing.T) {
	svc, mock, s, userID := newTestService(t)
	ctx := context.Background()

	// A prior profile exists from a first run.
	if err := s.Profiles().SaveNewCurrent(ctx, &store.Profile{UserID: userID, Text: "analyse précédente"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	answer(t, s, userID, "Services publics", "il faut les renforcer partout")
	answer(t, s, userID, "Fiscalité", "plus de redistribution")

	mock.AddResponse(llm.MockResponse{Text: fullReply})
	svc.Synthesize(ctx, userID, true)

	prompt := mock.Calls[0].Prompt
	if !strings.Contains(prompt, KindEvolution.Header()) {
		t.Errorf("evolution section not requested on follow-up:\n%s", prompt)
	}
	if !strings.Contains(prompt, "analyse précédente") {
		t.Errorf("prior analysis text missing from prompt")
	}
}

func TestSynthesizeReplacesCurrentProfile(t *testing.T) {
	svc, mock, s, userID := newTestService(t)
	ctx := context.Background()

	answer(t, s, userID, "Services publics", "il faut les renforcer partout")
	answer(t, s, userID, "Fiscalité", "plus de redistribution")

	mock.AddResponse(llm.MockResponse{Text: fullReply})
	mock.AddResponse(llm.MockResponse{Text: fullReply})

	svc.Synthesize(ctx, userID, false)
	svc.Synthesize(ctx, userID, false)

	all, err := s.Profiles().All(ctx, userID)
	if err != nil {
		t.Fatalf("all profiles: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("profile count = %d, want 2", len(all))
	}
	currents := 0
	for _, p := range all {
		if p.Current {
			currents++
		}
	}
	if currents != 1 {
		t.Errorf("current profiles = %d, want exactly 1", currents)
	}
}

func TestGatherPullsSkippedBelowThreshold(t *testing.T) {
	_, _, s, userID := newTestService(t)
	ctx := context.Background()

	answer(t, s, userID, "Fiscalité", "plus de redistribution")
	q := &store.Question{Text: "Question passée exprès", Category: "Justice", Valid: true}
	if err := s.Questions().Create(ctx, q); err != nil {
		t.Fatalf("seed question: %v", err)
	}
	if err := s.Responses().Save(ctx, userID, q.ID, "", store.StatusSkipped); err != nil {
		t.Fatalf("seed skip: %v", err)
	}

	g, err := gatherInput(ctx, s.Responses(), userID, false)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if g.total != 2 {
		t.Errorf("total = %d, want 2", g.total)
	}
	found := false
	for _, l := range g.lines {
		if strings.HasSuffix(l, lineSeparator+skippedPlaceholder) {
			found = true
		}
	}
	if !found {
		t.Errorf("skipped placeholder line missing: %v", g.lines)
	}
}
