package handlers

import (
	"chebyshev-board/internal/api/dto"
	"chebyshev-board/internal/domain"
	"chebyshev-board/internal/i18n"
	"chebyshev-board/internal/platform/logging"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes caps request bodies; 256 waypoints fit comfortably.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.WithComponent("api").ErrorContext(r.Context(), "encode failed",
			"method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, details ...string) {
	writeJSON(w, r, status, errorResponse{Error: msg, Details: details})
}

// decodeJSON reads exactly one JSON object into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body", jsonErrorDetail(err))
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	return true
}

// jsonErrorDetail describes a decode failure without the encoding/json wording.
func jsonErrorDetail(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("%s: unexpected %s", typeErr.Field, typeErr.Value)
		}
		return fmt.Sprintf("body: unexpected %s", typeErr.Value)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return "body is empty or truncated"
	default:
		return strings.TrimPrefix(err.Error(), "json: ")
	}
}

// requestLanguage resolves the response language: explicit value, then ?lang=,
// then Accept-Language, then the translator default.
func requestLanguage(tr *i18n.Translator, r *http.Request, explicit string) string {
	for _, candidate := range []string{explicit, r.URL.Query().Get("lang"), r.Header.Get("Accept-Language")} {
		if c := strings.TrimSpace(candidate); c != "" {
			return tr.Match(c)
		}
	}
	return tr.Default()
}

func toPointJSON(p domain.Point) dto.PointJSON { return dto.PointJSON{X: p.X, Y: p.Y} }

func fromPointJSON(p dto.PointJSON) domain.Point { return domain.Point{X: p.X, Y: p.Y} }

// NotFound and MethodNotAllowed keep router-level errors in the JSON error shape.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
