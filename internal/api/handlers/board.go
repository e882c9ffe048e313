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
	"net/http"
	"strings"
)

type BoardHandler struct {
	Store      ports.WaypointStore
	Translator *i18n.Translator
	// Side length of the square board; non-positive disables the bound check.
	BoardSize int
}

// Analyze validates a waypoint list and returns the minimum step count together
// with the per-step movements, direction labels translated to the request language.
func (h *BoardHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req dto.AnalyzeBoardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	waypoints, err := validation.ParseWaypoints(req.Waypoints)
	if err == nil {
		err = validation.CheckBounds(waypoints, h.BoardSize)
	}
	if err != nil {
		writeValidationError(w, r, err)
		return
	}

	analysis, err := services.AnalyzeBoard(r.Context(), services.AnalyzeBoardRequest{
		Session:   req.Session,
		Waypoints: waypoints,
	}, h.Store)
	if err != nil {
		writeServiceError(w, r, err, "analyze board failed")
		return
	}

	lang := requestLanguage(h.Translator, r, "")
	res := dto.AnalyzeBoardResponse{
		TotalSteps: analysis.TotalSteps,
		Language:   lang,
		Movements:  make([]dto.MovementResponse, 0, len(analysis.Movements)),
	}
	for _, m := range analysis.Movements {
		res.Movements = append(res.Movements, dto.MovementResponse{
			StepNumber:     m.StepNumber,
			From:           toPointJSON(m.From),
			To:             toPointJSON(m.To),
			Direction:      m.Direction.String(),
			DirectionLabel: h.Translator.DirectionLabel(lang, m.Direction),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Last returns the waypoint list most recently analyzed under ?session=.
func (h *BoardHandler) Last(w http.ResponseWriter, r *http.Request) {
	session := strings.TrimSpace(r.URL.Query().Get("session"))
	if session == "" {
		writeError(w, r, http.StatusBadRequest, "session is required")
		return
	}

	points, ok, err := services.LastWaypoints(r.Context(), session, h.Store)
	if err != nil {
		logging.WithComponent("api").ErrorContext(r.Context(), "load last waypoints failed",
			"session", session, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "no waypoints saved for session")
		return
	}

	res := dto.LastWaypointsResponse{Session: session, Waypoints: make([]dto.PointJSON, 0, len(points))}
	for _, p := range points {
		res.Waypoints = append(res.Waypoints, toPointJSON(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		writeError(w, r, http.StatusBadRequest, "invalid waypoints", verr.Details...)
		return
	}

	logging.WithComponent("api").ErrorContext(r.Context(), "validate waypoints failed", "err", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// writeServiceError maps domain failures to 422 and hides everything else behind a 500.
// The full error chain is only logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	log := logging.WithComponent("api")

	var merr *domain.MovementError
	var details []string
	if errors.As(err, &merr) {
		details = []string{merr.Detail()}
	}

	switch {
	case errors.Is(err, domain.ErrDegenerateMovement):
		log.InfoContext(r.Context(), logMsg, "err", err)
		writeError(w, r, http.StatusUnprocessableEntity, "zero-length movement between consecutive waypoints", details...)
	case errors.Is(err, domain.ErrDirectionMismatch):
		log.InfoContext(r.Context(), logMsg, "err", err)
		writeError(w, r, http.StatusUnprocessableEntity, "movement direction does not match its vector", details...)
	default:
		log.ErrorContext(r.Context(), logMsg, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
