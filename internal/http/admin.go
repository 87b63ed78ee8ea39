package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/gestaolimpeza/supervisao/internal/auth"
	"github.com/gestaolimpeza/supervisao/internal/escola"
	"github.com/gestaolimpeza/supervisao/internal/funcionario"
	httpmiddleware "github.com/gestaolimpeza/supervisao/internal/http/middleware"
	"github.com/gestaolimpeza/supervisao/internal/relatorio"
)

type funcionarioLister interface {
	ListFuncionarios(ctx context.Context, sess *auth.Session) ([]funcionario.Funcionario, error)
}

type escolaLister interface {
	ListEscolas(ctx context.Context, sess *auth.Session) ([]escola.Escola, error)
}

// AdminHandler agrega a visão entre supervisores. A allow-list só libera a
// tela; o conjunto retornado é o que a política de linha concede ao
// e-mail do chamador — um admin fora da política do banco enxerga apenas
// os próprios registros.
type AdminHandler struct {
	funcionarios funcionarioLister
	escolas      escolaLister
}

func NewAdminHandler(funcionarios funcionarioLister, escolas escolaLister) *AdminHandler {
	return &AdminHandler{funcionarios: funcionarios, escolas: escolas}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/painel", h.HandlePainel)
	r.Get("/funcionarios/export", h.HandleExport)
}

type painelResponse struct {
	Resumo        funcionario.Resumo   `json:"resumo"`
	PorSituacao   []relatorio.Contagem `json:"por_situacao"`
	PorEscola     []relatorio.Contagem `json:"por_escola"`
	PorSupervisor []relatorio.Contagem `json:"por_supervisor"`
}

// HandlePainel computa métricas e agregados para os gráficos do painel a
// partir do conjunto completo visível.
func (h *AdminHandler) HandlePainel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := httpmiddleware.GetSession(ctx)

	linhas, err := h.linhasCompletas(ctx, sess)
	if err != nil {
		log.Error().Err(err).Msg("admin painel error")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	resumo := funcionario.Resumo{Total: len(linhas)}
	for _, linha := range linhas {
		switch linha.Situacao {
		case funcionario.SituacaoTrabalhando:
			resumo.Trabalhando++
		case funcionario.SituacaoAbandono:
			resumo.Abandono++
		}
	}

	WriteJSON(w, http.StatusOK, painelResponse{
		Resumo:        resumo,
		PorSituacao:   relatorio.ContagemPorSituacao(linhas),
		PorEscola:     relatorio.ContagemPorEscola(linhas),
		PorSupervisor: relatorio.ContagemPorSupervisor(linhas),
	})
}

// HandleExport baixa o conjunto completo, sem filtros.
func (h *AdminHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := httpmiddleware.GetSession(ctx)

	linhas, err := h.linhasCompletas(ctx, sess)
	if err != nil {
		log.Error().Err(err).Msg("admin export error")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	conteudo, err := relatorio.FuncionariosXLSX(linhas)
	if err != nil {
		log.Error().Err(err).Msg("admin export error")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", relatorio.ArquivoAdmin))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(conteudo)
}

func (h *AdminHandler) linhasCompletas(ctx context.Context, sess *auth.Session) ([]relatorio.LinhaFuncionario, error) {
	funcs, err := h.funcionarios.ListFuncionarios(ctx, sess)
	if err != nil {
		return nil, err
	}

	escolas, err := h.escolas.ListEscolas(ctx, sess)
	if err != nil {
		return nil, err
	}

	return funcionario.ProjetarLinhas(funcs, escola.MapaNomes(escolas)), nil
}
