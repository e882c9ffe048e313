package handlers

import (
	"chebyshev-board/internal/api/dto"
	"chebyshev-board/internal/i18n"
	"net/http"
)

type LanguageHandler struct {
	Translator *i18n.Translator
}

func (h *LanguageHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.LanguagesResponse{
		Default:   h.Translator.Default(),
		Supported: h.Translator.Supported(),
	})
}
