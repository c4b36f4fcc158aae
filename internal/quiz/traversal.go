package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inesalsa/politicool/internal/store"
)

// Batch sizing. A category page presents at most batchSize questions;
// when fewer than backfillThreshold never-seen questions remain, the
// selection backfills, first with up to historicalBackfill questions
// the user answered in a prior quiz round, then with anything left.
const (
	batchSize          = 5
	backfillThreshold  = 3
	historicalBackfill = 2
)

var (
	// ErrNoInput rejects a submission carrying neither answers nor a
	// pause/finish directive. The caller must retry with input.
	ErrNoInput = errors.New("submission carries no answers and no directive")

	// ErrUnknownCategory rejects a request for a category outside the
	// fixed list.
	ErrUnknownCategory = errors.New("unknown category")
)

// Directive steers traversal after a submission.
type Directive string

const (
	// DirectiveNext advances to the next category with questions.
	DirectiveNext Directive = "next"

	// DirectivePause saves progress and stops without completing.
	DirectivePause Directive = "pause"

	// DirectiveFinish short-circuits traversal and signals completion
	// regardless of remaining categories.
	DirectiveFinish Directive = "finish"
)

// Answer is one submitted response. An empty Text or an explicit Skip
// records the question as skipped rather than answered.
type Answer struct {
	QuestionID uint
	Text       string
	Skip       bool
}

// Submission carries the answers for the batch just presented plus a
// directive for what to do next.
type Submission struct {
	Answers   []Answer
	Directive Directive
}

// Batch is the next set of questions to present.
type Batch struct {
	Category  string
	Questions []store.Question
}

// Result is the outcome of a traversal step. Exactly one of Batch,
// Paused, or Completed is meaningful.
type Result struct {
	Batch     *Batch
	Paused    bool
	Completed bool

	// FollowUp reports whether this traversal is a second-or-later
	// quiz attempt. Completion handlers use it to include historical
	// answers in profile synthesis.
	FollowUp bool
}

// Controller walks a user through the category list, selecting question
// batches and persisting answers. It owns the durable per-user progress
// row; a paused traversal resumes on the same category with the
// exhausted-category set restored, surviving process restarts.
//
// The controller never mutates responses directly, it delegates every
// write to the response repository's idempotent save.
type Controller struct {
	responses store.ResponseRepo
	questions store.QuestionRepo
	profiles  store.ProfileRepo
	sessions  store.SessionRepo
	log       *zap.Logger
}

// NewController wires a Controller over the store repositories.
func NewController(
	responses store.ResponseRepo,
	questions store.QuestionRepo,
	profiles store.ProfileRepo,
	sessions store.SessionRepo,
	log *zap.Logger,
) *Controller {
	return &Controller{
		responses: responses,
		questions: questions,
		profiles:  profiles,
		sessions:  sessions,
		log:       log,
	}
}

// Start begins or resumes a traversal. With saved in-progress state the
// user lands back on the saved category; otherwise traversal starts at
// the first category. An empty catalog across all categories completes
// immediately rather than failing.
func (c *Controller) Start(ctx context.Context, userID uint) (*Result, error) {
	p, err := c.sessions.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &store.Progress{}
	}
	if !p.InProgress || !IsCategory(p.CurrentCategory) {
		p.CurrentCategory = Categories[0]
		p.Exhausted = nil
		p.InProgress = true
	}
	return c.present(ctx, userID, p)
}

// BatchFor returns a batch for one requested category, falling through
// to the next categories when it is exhausted.
func (c *Controller) BatchFor(ctx context.Context, userID uint, category string) (*Result, error) {
	if !IsCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	p, err := c.sessions.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &store.Progress{}
	}
	p.CurrentCategory = category
	p.InProgress = true
	return c.present(ctx, userID, p)
}

// Submit persists the answers of a submission and steers traversal per
// its directive. Every answer or skip is saved before the directive is
// acted on, so a pause never loses input.
func (c *Controller) Submit(ctx context.Context, userID uint, sub Submission) (*Result, error) {
	if len(sub.Answers) == 0 && sub.Directive != DirectivePause && sub.Directive != DirectiveFinish {
		return nil, ErrNoInput
	}

	for _, a := range sub.Answers {
		text, status := a.Text, store.StatusAnswered
		if a.Skip || strings.TrimSpace(a.Text) == "" {
			text, status = "", store.StatusSkipped
		}
		if err := c.responses.Save(ctx, userID, a.QuestionID, text, status); err != nil {
			return nil, fmt.Errorf("save response for question %d: %w", a.QuestionID, err)
		}
	}

	p, err := c.sessions.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &store.Progress{CurrentCategory: Categories[0], InProgress: true}
	}

	switch sub.Directive {
	case DirectivePause:
		p.InProgress = true
		if err := c.sessions.SaveProgress(ctx, userID, *p); err != nil {
			return nil, err
		}
		c.log.Info("quiz paused",
			zap.Uint("user_id", userID),
			zap.String("category", p.CurrentCategory),
		)
		return &Result{Paused: true, FollowUp: p.FollowUp}, nil

	case DirectiveFinish:
		return c.complete(ctx, userID, p)

	default:
		return c.advance(ctx, userID, p)
	}
}

// Restart deactivates the user's active responses, demotes the current
// profile, and flags the next traversal as a follow-up attempt.
func (c *Controller) Restart(ctx context.Context, userID uint) error {
	n, err := c.responses.DeactivateAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("deactivate responses: %w", err)
	}
	if err := c.profiles.DemoteCurrent(ctx, userID); err != nil {
		return err
	}
	if err := c.sessions.ClearProgress(ctx, userID, true); err != nil {
		return err
	}

	c.log.Info("quiz restarted",
		zap.Uint("user_id", userID),
		zap.Int64("responses_archived", n),
	)
	return nil
}

// advance moves past the current category and presents the next one
// with questions, wrapping round-robin.
func (c *Controller) advance(ctx context.Context, userID uint, p *store.Progress) (*Result, error) {
	idx := CategoryIndex(p.CurrentCategory)
	if idx < 0 {
		idx = 0
	}
	p.CurrentCategory = Categories[(idx+1)%len(Categories)]
	return c.present(ctx, userID, p)
}

// present scans categories round-robin starting at p.CurrentCategory,
// marking zero-yield categories exhausted, until one yields a batch or
// every category is exhausted (completion). Progress is persisted on
// success so the traversal survives interruption.
func (c *Controller) present(ctx context.Context, userID uint, p *store.Progress) (*Result, error) {
	start := CategoryIndex(p.CurrentCategory)
	if start < 0 {
		start = 0
	}
	exhausted := make(map[string]bool, len(p.Exhausted))
	for _, name := range p.Exhausted {
		exhausted[strings.ToLower(name)] = true
	}

	for scanned := 0; scanned < len(Categories); scanned++ {
		name := Categories[(start+scanned)%len(Categories)]
		if exhausted[strings.ToLower(name)] {
			continue
		}

		batch, err := c.selectBatch(ctx, userID, name, p.FollowUp)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			exhausted[strings.ToLower(name)] = true
			p.Exhausted = append(p.Exhausted, name)
			continue
		}

		p.CurrentCategory = name
		p.InProgress = true
		if err := c.sessions.SaveProgress(ctx, userID, *p); err != nil {
			return nil, err
		}

		c.log.Debug("batch selected",
			zap.Uint("user_id", userID),
			zap.String("category", name),
			zap.Int("questions", len(batch)),
		)
		return &Result{
			Batch:    &Batch{Category: name, Questions: batch},
			FollowUp: p.FollowUp,
		}, nil
	}

	return c.complete(ctx, userID, p)
}

// complete clears progress and signals completion. The follow-up flag
// survives in a fresh progress row so synthesis and later traversals
// still see it.
func (c *Controller) complete(ctx context.Context, userID uint, p *store.Progress) (*Result, error) {
	if err := c.sessions.ClearProgress(ctx, userID, p.FollowUp); err != nil {
		return nil, err
	}

	c.log.Info("quiz traversal complete",
		zap.Uint("user_id", userID),
		zap.Int("categories_exhausted", len(p.Exhausted)),
		zap.Bool("follow_up", p.FollowUp),
	)
	return &Result{Completed: true, FollowUp: p.FollowUp}, nil
}

// selectBatch picks up to batchSize questions for one category:
// never-seen questions newest-first, then (below the threshold, on a
// follow-up attempt) up to historicalBackfill previously answered
// questions in random order, then any remaining unanswered ones.
// Questions with an active response are always excluded.
func (c *Controller) selectBatch(ctx context.Context, userID uint, category string, followUp bool) ([]store.Question, error) {
	active, err := c.responses.Active(ctx, userID)
	if err != nil {
		return nil, err
	}
	exclude := make([]uint, 0, len(active))
	for _, r := range active {
		exclude = append(exclude, r.QuestionID)
	}

	var histIDs []uint
	if followUp {
		hist, err := c.responses.Historical(ctx, userID, 0)
		if err != nil {
			return nil, err
		}
		seen := idSet(exclude)
		for _, r := range hist {
			if !seen[r.QuestionID] {
				histIDs = append(histIDs, r.QuestionID)
			}
		}
	}

	fresh, err := c.questions.NewestValid(ctx, category, concat(exclude, histIDs), batchSize)
	if err != nil {
		return nil, err
	}
	batch := fresh

	if len(batch) < backfillThreshold && len(histIDs) > 0 {
		n := historicalBackfill
		if room := batchSize - len(batch); room < n {
			n = room
		}
		if n > 0 {
			prior, err := c.questions.RandomValid(ctx, category, exclude, histIDs, n)
			if err != nil {
				return nil, err
			}
			batch = append(batch, prior...)
		}
	}

	if len(batch) < backfillThreshold {
		picked := make([]uint, 0, len(batch))
		for _, q := range batch {
			picked = append(picked, q.ID)
		}
		rest, err := c.questions.RandomValid(ctx, category, concat(exclude, picked), nil, batchSize-len(batch))
		if err != nil {
			return nil, err
		}
		batch = append(batch, rest...)
	}

	return batch, nil
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func concat(a, b []uint) []uint {
	out := make([]uint, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
