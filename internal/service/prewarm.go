package service

import (
	"context"
	"log/slog"

	"github.com/prepdeck/backend/internal/domain/interview"
	"github.com/prepdeck/backend/internal/store"
	"github.com/prepdeck/backend/internal/worker"
)

// PrewarmSpec names one (role, category, difficulty) tuple to keep
// stocked with pregenerated questions.
type PrewarmSpec struct {
	Role       string
	Category   interview.Category
	Difficulty interview.Difficulty
	Count      int
}

type prewarmOutcome struct {
	spec PrewarmSpec
	err  error
}

// Prewarmer fills the pregenerated question bank in the background so
// common requests are served without a live provider call.
type Prewarmer struct {
	questions *QuestionService
	store     store.Store
	logger    *slog.Logger
	pool      *worker.Pool[prewarmOutcome]
}

func NewPrewarmer(ctx context.Context, qs *QuestionService, st store.Store, logger *slog.Logger, workers int) *Prewarmer {
	if workers <= 0 {
		workers = 2
	}
	p := &Prewarmer{
		questions: qs,
		store:     st,
		logger:    logger,
		pool:      worker.NewPool[prewarmOutcome](ctx, workers, 16),
	}
	go p.drain()
	return p
}

// Warm queues one generation job per spec. Jobs that cannot be queued
// (shutdown, full queue) are skipped; prewarming is best effort.
func (p *Prewarmer) Warm(specs []PrewarmSpec) {
	for _, spec := range specs {
		ok := p.pool.Submit(spec.Role+"/"+string(spec.Category), func(ctx context.Context) prewarmOutcome {
			return prewarmOutcome{spec: spec, err: p.fill(ctx, spec)}
		})
		if !ok {
			p.logger.Warn("prewarm job dropped", "role", spec.Role, "category", spec.Category)
		}
	}
}

func (p *Prewarmer) fill(ctx context.Context, spec PrewarmSpec) error {
	qs, err := p.questions.generateBatchForSpec(ctx, spec)
	if err != nil {
		return err
	}
	return p.store.SavePregenerated(ctx, spec.Role, spec.Category, spec.Difficulty, qs)
}

func (p *Prewarmer) drain() {
	for result := range p.pool.Results() {
		if result.Output.err != nil {
			p.logger.Warn("prewarm failed",
				"role", result.Output.spec.Role,
				"category", result.Output.spec.Category,
				"error", result.Output.err)
			continue
		}
		p.logger.Info("prewarm complete",
			"role", result.Output.spec.Role,
			"category", result.Output.spec.Category,
			"count", result.Output.spec.Count)
	}
}

// Stop cancels queued and in-flight prewarm jobs.
func (p *Prewarmer) Stop() {
	p.pool.Stop()
}

// generateBatchForSpec generates a batch directly, bypassing the bank
// so prewarming never consumes what it is trying to stock.
func (s *QuestionService) generateBatchForSpec(ctx context.Context, spec PrewarmSpec) ([]interview.Question, error) {
	userPrompt, err := s.prompts.Questions(spec.Role, spec.Category, spec.Difficulty, spec.Count, nil)
	if err != nil {
		return nil, err
	}
	return s.generateBatch(ctx, userPrompt, spec.Role, spec.Category, spec.Difficulty, spec.Count)
}
