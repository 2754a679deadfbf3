// Package generator turns an unreliable, loosely-structured AI completion
// into a guaranteed-valid set of multiple-choice questions. Every question it
// returns has exactly four options with the correct answer among them.
package generator

import (
	"context"
	"log/slog"

	"github.com/pavelanni/testprep/internal/llm/prompts"
	"github.com/pavelanni/testprep/internal/model"
)

// Completer is the outbound AI exchange used by the Generator.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator produces validated question sets from test configs.
type Generator struct {
	llm Completer
}

// New creates a Generator backed by the given completer.
func New(llm Completer) *Generator {
	return &Generator{llm: llm}
}

// Generate builds the domain prompt, runs one completion and validates the
// result. The returned slice holds between Floor and cfg.NumQuestions
// questions; a shorter-than-requested list means the AI under-delivered.
func (g *Generator) Generate(ctx context.Context, cfg model.TestConfig) ([]model.Question, error) {
	prompt, err := prompts.Build(cfg)
	if err != nil {
		return nil, err
	}

	raw, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	records, err := ExtractRecords(raw)
	if err != nil {
		return nil, err
	}

	questions, err := ValidateRecords(records, cfg.NumQuestions)
	if err != nil {
		return nil, err
	}

	if len(questions) < cfg.NumQuestions {
		slog.Info("AI under-delivered on question count",
			"requested", cfg.NumQuestions, "got", len(questions))
	}
	return questions, nil
}
