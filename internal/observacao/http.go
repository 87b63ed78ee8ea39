package observacao

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gestaolimpeza/supervisao/internal/auth"
	httpmiddleware "github.com/gestaolimpeza/supervisao/internal/http/middleware"
	"github.com/gestaolimpeza/supervisao/internal/util"
)

// Handler orquestra as rotas do diário de observações.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/observacoes", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/filtros", h.handleFiltros)
		r.Post("/", h.handleCreate)
		r.Patch("/{id}", h.handleUpdate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sess := httpmiddleware.GetSession(ctx)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
		return
	}

	filtro := Filtro{Tipo: r.URL.Query().Get("tipo")}
	if raw := r.URL.Query().Get("escola"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "escola inválida", nil)
			return
		}
		filtro.EscolaID = &id
	}
	if raw := r.URL.Query().Get("funcionario"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "funcionário inválido", nil)
			return
		}
		filtro.FuncionarioID = &id
	}

	obs, err := h.service.Listar(ctx, sess, filtro)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if obs == nil {
		obs = []Observacao{}
	}

	logRequest(ctx, "GET /observacoes", sess.UserID, start)
	writeJSON(w, http.StatusOK, map[string]any{"observacoes": obs})
}

func (h *Handler) handleFiltros(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sess := httpmiddleware.GetSession(ctx)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
		return
	}

	opcoes, err := h.service.OpcoesDeFiltro(ctx, sess)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	logRequest(ctx, "GET /observacoes/filtros", sess.UserID, start)
	writeJSON(w, http.StatusOK, opcoes)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sess := httpmiddleware.GetSession(ctx)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
		return
	}

	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	criada, err := h.service.Criar(ctx, sess, input)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	logRequest(ctx, "POST /observacoes", sess.UserID, start)
	writeJSON(w, http.StatusCreated, map[string]any{"observacao": criada})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sess := httpmiddleware.GetSession(ctx)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "observação inválida", nil)
		return
	}

	var payload struct {
		Texto string `json:"texto"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	atualizada, err := h.service.AtualizarTexto(ctx, sess, id, payload.Texto)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	logRequest(ctx, "PATCH /observacoes", sess.UserID, start)
	writeJSON(w, http.StatusOK, map[string]any{"observacao": atualizada})
}

func handleDomainError(w http.ResponseWriter, err error) {
	var fields util.FieldErrors
	switch {
	case errors.As(err, &fields):
		writeError(w, http.StatusBadRequest, "VALIDATION", "dados inválidos", fields)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", ErrNotFound.Error(), nil)
	case errors.Is(err, auth.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
	default:
		writeInternalError(w, err)
	}
}

func writeInternalError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("observacao handler error")
	writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
}

func logRequest(ctx context.Context, label string, userID uuid.UUID, start time.Time) {
	logger := log.Ctx(ctx)
	if logger == nil {
		logger = &log.Logger
	}
	reqID := chimiddleware.GetReqID(ctx)
	logger.Info().Str("request_id", reqID).Str("user_id", userID.String()).Str("label", label).Dur("duration", time.Since(start)).Msg("observacao_request")
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
