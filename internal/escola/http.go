package escola

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/gestaolimpeza/supervisao/internal/auth"
	httpmiddleware "github.com/gestaolimpeza/supervisao/internal/http/middleware"
)

type lister interface {
	ListEscolas(ctx context.Context, sess *auth.Session) ([]Escola, error)
}

// Handler expõe a listagem de escolas.
type Handler struct {
	repo lister
}

func NewHandler(repo lister) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/escolas", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
		return
	}

	escolas, err := h.repo.ListEscolas(r.Context(), sess)
	if err != nil {
		log.Error().Err(err).Msg("escola handler error")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}
	if escolas == nil {
		escolas = []Escola{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"escolas": escolas})
}

// Helpers de resposta JSON compatíveis com o resto do projeto.
type successEnvelope struct {
	Data  any `json:"data"`
	Error any `json:"error"`
}

type errorEnvelope struct {
	Data  any            `json:"data"`
	Error *errorResponse `json:"error"`
}

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successEnvelope{Data: payload, Error: nil})
}

func writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Data: nil, Error: &errorResponse{Code: code, Message: message, Details: details}})
}
