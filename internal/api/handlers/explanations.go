package handlers

import (
	"chebyshev-board/internal/api/dto"
	"chebyshev-board/internal/domain"
	"chebyshev-board/internal/i18n"
	"chebyshev-board/internal/platform/logging"
	"chebyshev-board/internal/ports"
	"chebyshev-board/internal/services"
	"chebyshev-board/internal/validation"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type ExplanationHandler struct {
	Cache      ports.ExplanationCache
	Generator  ports.ExplanationGenerator
	Translator *i18n.Translator
	TTL        time.Duration
	// Maximum generator calls in flight per request.
	Concurrency int
}

// Explain returns a short justification for each movement, generated on a cache miss.
func (h *ExplanationHandler) Explain(w http.ResponseWriter, r *http.Request) {
	if h.Generator == nil {
		writeError(w, r, http.StatusServiceUnavailable, "explanations are disabled")
		return
	}

	var req dto.ExplanationsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	movements, details := parseMovements(req.Movements)
	if len(details) > 0 {
		writeError(w, r, http.StatusBadRequest, "invalid movements", details...)
		return
	}

	lang := requestLanguage(h.Translator, r, req.Language)

	explanations, err := services.ExplainMovements(r.Context(), services.ExplainMovementsRequest{
		Movements:   movements,
		Language:    lang,
		TTL:         h.TTL,
		Concurrency: h.Concurrency,
	}, h.Cache, h.Generator)
	if errors.Is(err, services.ErrGenerationFailed) {
		logging.WithComponent("api").ErrorContext(r.Context(), "generate explanations failed", "err", err)
		writeError(w, r, http.StatusBadGateway, "explanation service unavailable")
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "explain movements failed")
		return
	}

	res := dto.ExplanationsResponse{
		Language:     lang,
		Explanations: make([]dto.ExplanationResponse, 0, len(explanations)),
	}
	for _, e := range explanations {
		res.Explanations = append(res.Explanations, dto.ExplanationResponse{
			StepNumber: e.Movement.StepNumber,
			Text:       e.Text,
			Cached:     e.Cached,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// parseMovements converts request movements to domain values and collects every
// structural problem; direction consistency is checked by the service.
func parseMovements(in []dto.MovementRequest) ([]domain.Movement, []string) {
	if len(in) > validation.MaxWaypoints {
		return nil, []string{fmt.Sprintf("at most %d movements per request", validation.MaxWaypoints)}
	}

	var details []string
	out := make([]domain.Movement, 0, len(in))
	for i, m := range in {
		dir, err := domain.ParseDirection(m.Direction)
		if err != nil {
			details = append(details, fmt.Sprintf("movement %d: %v", i+1, err))
		}
		if m.StepNumber < 1 {
			details = append(details, fmt.Sprintf("movement %d: step_number must be positive", i+1))
		}
		if m.From.X < 0 || m.From.Y < 0 || m.To.X < 0 || m.To.Y < 0 {
			details = append(details, fmt.Sprintf("movement %d: coordinates must be non-negative", i+1))
		}

		out = append(out, domain.Movement{
			From:       fromPointJSON(m.From),
			To:         fromPointJSON(m.To),
			Direction:  dir,
			StepNumber: m.StepNumber,
		})
	}

	return out, details
}
