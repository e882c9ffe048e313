package llm

import (
	"chebyshev-board/internal/i18n"
	"chebyshev-board/internal/ports"
	"context"
	"sync/atomic"
)

// MockExplanationGenerator renders a fixed, translated template instead of calling
// a text-generation service. Used offline and in tests.
type MockExplanationGenerator struct {
	tr    *i18n.Translator
	calls atomic.Int64
}

func NewMockExplanationGenerator(tr *i18n.Translator) *MockExplanationGenerator {
	return &MockExplanationGenerator{tr: tr}
}

func (g *MockExplanationGenerator) Explain(ctx context.Context, req ports.ExplanationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	g.calls.Add(1)
	return g.tr.TranslateCount(req.Language, "mock.explanation", req.Steps, promptData(g.tr, req)), nil
}

// Calls returns how many explanations were generated.
func (g *MockExplanationGenerator) Calls() int { return int(g.calls.Load()) }
