package analysis

import (
	"context"

	"go.uber.org/zap"

	"github.com/inesalsa/politicool/internal/llm"
	"github.com/inesalsa/politicool/internal/store"
)

// Generation parameters for the analysis call. The external service is
// slow; the provider's own timeout bounds the call and a failed call is
// never retried, it falls back instead.
const (
	genTemperature = 0.3
	genMaxTokens   = 1500
	genTopP        = 0.9
)

// Source tells where the final analysis text came from.
type Source string

const (
	// SourceModel is an accepted generation reply, unmodified.
	SourceModel Source = "model"

	// SourceRepaired is a generation reply with placeholder sections
	// spliced in.
	SourceRepaired Source = "repaired"

	// SourceHeuristic is the keyword-scoring generator, used when the
	// service fails or its reply is unusable.
	SourceHeuristic Source = "heuristic"

	// SourceGeneric is the last-resort template, used when no answer
	// data exists.
	SourceGeneric Source = "generic"
)

// Outcome is the result of a synthesis run. Text is always usable
// analysis text; Saved is false when persisting it failed, in which
// case the in-memory text is still surfaced to the caller.
type Outcome struct {
	Text    string
	Source  Source
	Saved   bool
	Profile *store.Profile
}

// Service runs the profile synthesis pipeline: gather answers, gate on
// input quality, call the generation service, validate and repair the
// reply, fall back when needed, persist the result.
type Service struct {
	provider  llm.Provider
	responses store.ResponseRepo
	profiles  store.ProfileRepo
	log       *zap.Logger
}

// NewService wires a Service.
func NewService(provider llm.Provider, responses store.ResponseRepo, profiles store.ProfileRepo, log *zap.Logger) *Service {
	return &Service{provider: provider, responses: responses, profiles: profiles, log: log}
}

// Synthesize produces and persists a new current profile for the user.
// It never fails: every fault path, from an unreachable generation
// service to an empty answer set, degrades to a fallback generator so
// the returned text is always schema-valid.
func (s *Service) Synthesize(ctx context.Context, userID uint, followUp bool) *Outcome {
	g, err := gatherInput(ctx, s.responses, userID, followUp)
	if err != nil {
		s.log.Error("gathering responses failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return s.persist(ctx, userID, genericAnalysis(reasonGatherFailed), SourceGeneric)
	}
	if g.total == 0 {
		s.log.Info("no responses to analyze", zap.Uint("user_id", userID))
		return s.persist(ctx, userID, genericAnalysis(reasonNoResponses), SourceGeneric)
	}

	valid, validCount := validLines(g.lines)
	if validCount < minValidLines {
		s.log.Warn("too few valid response lines",
			zap.Uint("user_id", userID),
			zap.Int("lines", len(g.lines)),
			zap.Int("valid", validCount),
		)
		return s.persist(ctx, userID, genericAnalysis(reasonTooFewValid), SourceGeneric)
	}

	previous := ""
	if followUp {
		previous = s.previousAnalysis(ctx, userID)
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "analysis"), llm.Request{
		Prompt:      buildPrompt(valid, previous),
		Temperature: genTemperature,
		MaxTokens:   genMaxTokens,
		TopP:        genTopP,
	})
	if err != nil {
		s.log.Warn("generation failed, using heuristic analysis",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return s.persist(ctx, userID, heuristicAnalysis(valid), SourceHeuristic)
	}

	verdict, doc := Evaluate(resp.Text)
	switch verdict {
	case VerdictFallback:
		s.log.Warn("generated analysis unusable",
			zap.Uint("user_id", userID),
			zap.Int("response_chars", len(resp.Text)),
		)
		return s.persist(ctx, userID, heuristicAnalysis(valid), SourceHeuristic)

	case VerdictRepair:
		s.log.Info("generated analysis repaired",
			zap.Uint("user_id", userID),
			zap.Int("missing_sections", len(doc.MissingRequired())),
		)
		return s.persist(ctx, userID, doc.Repair(), SourceRepaired)

	default:
		return s.persist(ctx, userID, doc.Repair(), SourceModel)
	}
}

// persist extracts the structured fields, stores the profile as the
// new current one, and reports the outcome. A storage failure is
// logged and surfaced through Saved, never raised.
func (s *Service) persist(ctx context.Context, userID uint, text string, src Source) *Outcome {
	profile := ExtractFields(text)
	profile.UserID = userID
	profile.Text = text

	out := &Outcome{Text: text, Source: src, Profile: &profile}
	if err := s.profiles.SaveNewCurrent(ctx, &profile); err != nil {
		s.log.Error("profile save failed, returning unsaved analysis",
			zap.Uint("user_id", userID),
			zap.String("source", string(src)),
			zap.Error(err),
		)
		return out
	}
	out.Saved = true
	return out
}

// previousAnalysis returns the user's newest stored analysis text for
// the evolution comparison, or empty when there is none.
func (s *Service) previousAnalysis(ctx context.Context, userID uint) string {
	profiles, err := s.profiles.All(ctx, userID)
	if err != nil {
		s.log.Warn("loading prior profiles failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return ""
	}
	if len(profiles) == 0 {
		return ""
	}
	return profiles[0].Text
}
