package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"

	"github.com/inesalsa/politicool/internal/llm"
	"github.com/inesalsa/politicool/internal/quiz"
	"github.com/inesalsa/politicool/internal/store"
)

// questionSchema is the contract the generation reply must satisfy.
// The category whitelist is checked separately so the log can name the
// offending value.
const questionSchema = `{
	"type": "object",
	"required": ["categorie", "question"],
	"properties": {
		"categorie": {"type": "string", "minLength": 1},
		"question": {"type": "string", "minLength": 10}
	}
}`

// Dedup fragment bounds: a mid-question substring is compared instead
// of the full text, so rephrased endings still collide.
const (
	fragmentStart = 5
	fragmentEnd   = 35
)

// Outcome classifies what happened to one article.
type Outcome int

const (
	// OutcomeCreated means a new unvalidated question was stored.
	OutcomeCreated Outcome = iota

	// OutcomeDuplicate means a similar question already exists.
	OutcomeDuplicate

	// OutcomeRejected means the reply was unusable (no JSON, schema
	// violation, unknown category).
	OutcomeRejected
)

// Stats summarizes one ingestion run.
type Stats struct {
	Processed  int
	Created    int
	Duplicates int
	Rejected   int
}

type generatedQuestion struct {
	Categorie string `json:"categorie"`
	Question  string `json:"question"`
}

// Generator turns fetched news articles into candidate quiz questions.
// Created questions are unvalidated; an admin curates them before they
// can appear in a quiz.
type Generator struct {
	provider  llm.Provider
	questions store.QuestionRepo
	articles  store.ArticleRepo
	schema    *jsonschema.Schema
	log       *zap.Logger
}

// NewGenerator compiles the reply schema and wires a Generator.
func NewGenerator(provider llm.Provider, questions store.QuestionRepo, articles store.ArticleRepo, log *zap.Logger) (*Generator, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSchema))
	if err != nil {
		return nil, fmt.Errorf("parse question schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("question.json", doc); err != nil {
		return nil, fmt.Errorf("register question schema: %w", err)
	}
	schema, err := compiler.Compile("question.json")
	if err != nil {
		return nil, fmt.Errorf("compile question schema: %w", err)
	}

	return &Generator{
		provider:  provider,
		questions: questions,
		articles:  articles,
		schema:    schema,
		log:       log,
	}, nil
}

// Run processes up to limit articles that have no question yet.
func (g *Generator) Run(ctx context.Context, limit int) (Stats, error) {
	var stats Stats

	articles, err := g.articles.WithoutQuestions(ctx, limit)
	if err != nil {
		return stats, err
	}

	for _, a := range articles {
		outcome, err := g.ProcessArticle(ctx, a)
		if err != nil {
			return stats, err
		}
		stats.Processed++
		switch outcome {
		case OutcomeCreated:
			stats.Created++
		case OutcomeDuplicate:
			stats.Duplicates++
		case OutcomeRejected:
			stats.Rejected++
		}
	}

	g.log.Info("question ingestion run finished",
		zap.Int("processed", stats.Processed),
		zap.Int("created", stats.Created),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("rejected", stats.Rejected),
	)
	return stats, nil
}

// ProcessArticle asks the generation service for one opinion question
// about the article and stores it when it survives extraction, schema
// validation, the category whitelist, and deduplication. The returned
// error is non-nil only for storage failures; unusable replies come
// back as OutcomeRejected.
func (g *Generator) ProcessArticle(ctx context.Context, a store.Article) (Outcome, error) {
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, "question-gen"), llm.Request{
		Prompt:      buildQuestionPrompt(a),
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		g.log.Warn("question generation failed",
			zap.Uint("article_id", a.ID),
			zap.Error(err),
		)
		return OutcomeRejected, nil
	}

	candidate, ok := extractJSON(resp.Text)
	if !ok {
		g.log.Warn("no json object in reply", zap.Uint("article_id", a.ID))
		return OutcomeRejected, nil
	}

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(candidate))
	if err != nil {
		g.log.Warn("reply json undecodable", zap.Uint("article_id", a.ID), zap.Error(err))
		return OutcomeRejected, nil
	}
	if err := g.schema.Validate(inst); err != nil {
		g.log.Warn("reply failed schema validation", zap.Uint("article_id", a.ID), zap.Error(err))
		return OutcomeRejected, nil
	}

	var parsed generatedQuestion
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return OutcomeRejected, nil
	}

	idx := quiz.CategoryIndex(parsed.Categorie)
	if idx < 0 {
		g.log.Warn("generated category outside whitelist",
			zap.Uint("article_id", a.ID),
			zap.String("category", parsed.Categorie),
		)
		return OutcomeRejected, nil
	}

	similar, err := g.questions.FindSimilar(ctx, dedupFragment(parsed.Question))
	if err != nil {
		return OutcomeRejected, fmt.Errorf("dedup lookup: %w", err)
	}
	if similar != nil {
		return OutcomeDuplicate, nil
	}

	question := &store.Question{
		Text:      strings.TrimSpace(parsed.Question),
		Category:  quiz.Categories[idx],
		ArticleID: &a.ID,
	}
	if err := g.questions.Create(ctx, question); err != nil {
		return OutcomeRejected, fmt.Errorf("store question: %w", err)
	}

	g.log.Info("question created",
		zap.Uint("question_id", question.ID),
		zap.Uint("article_id", a.ID),
		zap.String("category", question.Category),
	)
	return OutcomeCreated, nil
}

func buildQuestionPrompt(a store.Article) string {
	var b strings.Builder
	b.WriteString("À partir de cet article de presse, génère UNE question d'opinion ")
	b.WriteString("politique en français, ouverte et neutre, à poser à un citoyen.\n\n")
	b.WriteString("Réponds UNIQUEMENT avec un objet JSON de la forme :\n")
	b.WriteString(`{"categorie": "...", "question": "..."}` + "\n\n")
	b.WriteString("La catégorie doit être l'une de : ")
	b.WriteString(strings.Join(quiz.Categories, ", "))
	b.WriteString(".\n\nTitre : ")
	b.WriteString(a.Title)
	if a.Content != "" {
		b.WriteString("\n\nContenu : ")
		b.WriteString(a.Content)
	}
	return b.String()
}

// dedupFragment normalizes a question and cuts the mid-text substring
// used for the similarity lookup.
func dedupFragment(question string) string {
	s := strings.ToLower(strings.TrimSpace(question))
	runes := []rune(s)
	if len(runes) <= fragmentStart {
		return s
	}
	end := fragmentEnd
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[fragmentStart:end])
}
