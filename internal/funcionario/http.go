package funcionario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gestaolimpeza/supervisao/internal/auth"
	"github.com/gestaolimpeza/supervisao/internal/escola"
	httpmiddleware "github.com/gestaolimpeza/supervisao/internal/http/middleware"
	"github.com/gestaolimpeza/supervisao/internal/relatorio"
	"github.com/gestaolimpeza/supervisao/internal/util"
)

type escolaLister interface {
	ListEscolas(ctx context.Context, sess *auth.Session) ([]escola.Escola, error)
}

// Handler orquestra as rotas da supervisão de funcionários.
type Handler struct {
	service *Service
	escolas escolaLister
}

func NewHandler(service *Service, escolas escolaLister) *Handler {
	return &Handler{service: service, escolas: escolas}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/funcionarios", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/export", h.handleExport)
		r.Patch("/{id}", h.handleUpdate)
		r.Post("/{id}/situacao", h.handleToggle)
		r.Delete("/{id}", h.handleDelete)
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

	filtro := filtroFromQuery(r)
	pagina := 1
	if raw := r.URL.Query().Get("pagina"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "VALIDATION", "página inválida", nil)
			return
		}
		pagina = parsed
	}

	lista, err := h.service.Listar(ctx, sess, filtro, pagina)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if lista.Funcionarios == nil {
		lista.Funcionarios = []Funcionario{}
	}

	logRequest(ctx, "GET /funcionarios", sess.UserID, start)
	writeJSON(w, http.StatusOK, lista)
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

	criado, err := h.service.Criar(ctx, sess, input)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	logRequest(ctx, "POST /funcionarios", sess.UserID, start)
	writeJSON(w, http.StatusCreated, map[string]any{"funcionario": criado})
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
		writeError(w, http.StatusBadRequest, "VALIDATION", "funcionário inválido", nil)
		return
	}

	var input UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	atualizado, err := h.service.Atualizar(ctx, sess, id, input)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	logRequest(ctx, "PATCH /funcionarios", sess.UserID, start)
	writeJSON(w, http.StatusOK, map[string]any{"funcionario": atualizado})
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sess := httpmiddleware.GetSession(ctx)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "funcionário inválido", nil)
		return
	}

	atualizado, err := h.service.AlternarSituacao(ctx, sess, id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	logRequest(ctx, "POST /funcionarios/situacao", sess.UserID, start)
	writeJSON(w, http.StatusOK, map[string]any{"funcionario": atualizado})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sess := httpmiddleware.GetSession(ctx)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "funcionário inválido", nil)
		return
	}

	if err := h.service.Excluir(ctx, sess, id); err != nil {
		handleDomainError(w, err)
		return
	}

	logRequest(ctx, "DELETE /funcionarios", sess.UserID, start)
	writeJSON(w, http.StatusOK, map[string]string{"status": "EXCLUIDO"})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sess := httpmiddleware.GetSession(ctx)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
		return
	}

	filtro := filtroFromQuery(r)
	funcs, err := h.service.ListarFiltrados(ctx, sess, filtro)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	escolas, err := h.escolas.ListEscolas(ctx, sess)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	conteudo, err := relatorio.FuncionariosXLSX(ProjetarLinhas(funcs, escola.MapaNomes(escolas)))
	if err != nil {
		writeInternalError(w, err)
		return
	}

	logRequest(ctx, "GET /funcionarios/export", sess.UserID, start)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", relatorio.ArquivoSupervisao))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(conteudo)
}

// ProjetarLinhas converte funcionários em linhas de exibição, trocando ids
// por rótulos.
func ProjetarLinhas(funcs []Funcionario, nomesEscolas map[int]string) []relatorio.LinhaFuncionario {
	linhas := make([]relatorio.LinhaFuncionario, 0, len(funcs))
	for _, f := range funcs {
		nomeEscola, ok := nomesEscolas[f.EscolaID]
		if !ok {
			nomeEscola = fmt.Sprintf("ID %d", f.EscolaID)
		}
		linhas = append(linhas, relatorio.LinhaFuncionario{
			Nome:         f.Nome,
			CPF:          f.CPF,
			Escola:       nomeEscola,
			Cargo:        f.Cargo,
			Situacao:     f.Situacao,
			Supervisor:   f.UserEmail,
			CriadoEm:     f.CreatedAt,
			AtualizadoEm: f.UpdatedAt,
		})
	}
	return linhas
}

func filtroFromQuery(r *http.Request) Filtro {
	filtro := Filtro{
		Nome: r.URL.Query().Get("nome"),
		CPF:  r.URL.Query().Get("cpf"),
	}
	if raw := r.URL.Query().Get("escola"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			filtro.EscolaID = &id
		}
	}
	return filtro
}

func handleDomainError(w http.ResponseWriter, err error) {
	var fields util.FieldErrors
	switch {
	case errors.As(err, &fields):
		writeError(w, http.StatusBadRequest, "VALIDATION", "dados inválidos", fields)
	case errors.Is(err, ErrSemCampos):
		writeError(w, http.StatusBadRequest, "VALIDATION", ErrSemCampos.Error(), nil)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", ErrNotFound.Error(), nil)
	case errors.Is(err, auth.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
	default:
		writeInternalError(w, err)
	}
}

func writeInternalError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("funcionario handler error")
	writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
}

func logRequest(ctx context.Context, label string, userID uuid.UUID, start time.Time) {
	logger := log.Ctx(ctx)
	if logger == nil {
		logger = &log.Logger
	}
	reqID := chimiddleware.GetReqID(ctx)
	logger.Info().Str("request_id", reqID).Str("user_id", userID.String()).Str("label", label).Dur("duration", time.Since(start)).Msg("funcionario_request")
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
