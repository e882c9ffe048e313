package llm

import (
	"chebyshev-board/internal/i18n"
	"chebyshev-board/internal/ports"
)

// promptData is the template data shared by the prompt and mock messages.
// It carries only what the explanation cache is keyed on (plus the derived step
// count), so a cached text is valid for every movement sharing the key.
func promptData(tr *i18n.Translator, req ports.ExplanationRequest) map[string]any {
	m := req.Movement
	return map[string]any{
		"From":      m.From.String(),
		"To":        m.To.String(),
		"Direction": tr.DirectionLabel(req.Language, m.Direction),
		"Steps":     req.Steps,
	}
}

func buildPrompt(tr *i18n.Translator, req ports.ExplanationRequest) []chatMessage {
	data := promptData(tr, req)
	return []chatMessage{
		{Role: "system", Content: tr.Translate(req.Language, "prompt.system", nil)},
		{Role: "user", Content: tr.TranslateCount(req.Language, "prompt.user", req.Steps, data)},
	}
}
