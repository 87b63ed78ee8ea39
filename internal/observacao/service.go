package observacao

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/gestaolimpeza/supervisao/internal/auth"
	"github.com/gestaolimpeza/supervisao/internal/escola"
	"github.com/gestaolimpeza/supervisao/internal/funcionario"
	"github.com/gestaolimpeza/supervisao/internal/util"
)

// Repository abstrai o armazenamento de observações.
type Repository interface {
	ListObservacoes(ctx context.Context, sess *auth.Session) ([]Observacao, error)
	CreateObservacao(ctx context.Context, sess *auth.Session, input CreateInput) (*Observacao, error)
	UpdateTexto(ctx context.Context, sess *auth.Session, id uuid.UUID, texto string) (*Observacao, error)
}

type funcionarioGetter interface {
	GetFuncionario(ctx context.Context, sess *auth.Session, id uuid.UUID) (*funcionario.Funcionario, error)
	ListFuncionarios(ctx context.Context, sess *auth.Session) ([]funcionario.Funcionario, error)
}

type escolaLister interface {
	ListEscolas(ctx context.Context, sess *auth.Session) ([]escola.Escola, error)
}

// Service reúne as regras do diário de observações.
type Service struct {
	repo         Repository
	funcionarios funcionarioGetter
	escolas      escolaLister
}

// NewService cria uma nova instância do serviço.
func NewService(repo Repository, funcionarios funcionarioGetter, escolas escolaLister) *Service {
	return &Service{repo: repo, funcionarios: funcionarios, escolas: escolas}
}

// Listar busca o conjunto visível e aplica o filtro em memória.
func (s *Service) Listar(ctx context.Context, sess *auth.Session, filtro Filtro) ([]Observacao, error) {
	obs, err := s.repo.ListObservacoes(ctx, sess)
	if err != nil {
		return nil, err
	}
	return FilterObservacoes(obs, filtro), nil
}

// Criar valida o subtipo e grava a observação. Para FUNCIONARIO a escola
// armazenada é sempre a escola atual do funcionário, ignorando o que veio
// no payload; isso mantém a consistência entre os dois campos.
func (s *Service) Criar(ctx context.Context, sess *auth.Session, input CreateInput) (*Observacao, error) {
	if sess == nil {
		return nil, auth.ErrNotAuthenticated
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.Tipo == TipoFuncionario {
		f, err := s.funcionarios.GetFuncionario(ctx, sess, *input.FuncionarioID)
		if err != nil {
			if errors.Is(err, funcionario.ErrNotFound) {
				return nil, util.FieldErrors{"funcionario_id": "funcionário não encontrado"}
			}
			return nil, err
		}
		escolaID := f.EscolaID
		input.EscolaID = &escolaID
	}

	return s.repo.CreateObservacao(ctx, sess, input)
}

// AtualizarTexto altera o único campo mutável.
func (s *Service) AtualizarTexto(ctx context.Context, sess *auth.Session, id uuid.UUID, texto string) (*Observacao, error) {
	if sess == nil {
		return nil, auth.ErrNotAuthenticated
	}

	texto = strings.TrimSpace(texto)
	if texto == "" {
		return nil, util.FieldErrors{"texto": "texto obrigatório"}
	}

	return s.repo.UpdateTexto(ctx, sess, id, texto)
}

// Opcoes são as escolhas de filtro oferecidas: só escolas e funcionários
// que aparecem em pelo menos uma observação.
type Opcoes struct {
	Tipos        []string           `json:"tipos"`
	Escolas      []OpcaoEscola      `json:"escolas"`
	Funcionarios []OpcaoFuncionario `json:"funcionarios"`
}

// OpcoesDeFiltro deriva as escolhas do próprio conjunto de observações,
// resolvendo nomes pelas coleções de referência.
func (s *Service) OpcoesDeFiltro(ctx context.Context, sess *auth.Session) (*Opcoes, error) {
	obs, err := s.repo.ListObservacoes(ctx, sess)
	if err != nil {
		return nil, err
	}

	escolas, err := s.escolas.ListEscolas(ctx, sess)
	if err != nil {
		return nil, err
	}

	funcs, err := s.funcionarios.ListFuncionarios(ctx, sess)
	if err != nil {
		return nil, err
	}

	nomesEscolas := escola.MapaNomes(escolas)
	nomesFuncs := make(map[uuid.UUID]string, len(funcs))
	for _, f := range funcs {
		nomesFuncs[f.ID] = f.Nome
	}

	opcoes := &Opcoes{
		Tipos:        []string{TipoFuncionario, TipoEscola},
		Escolas:      []OpcaoEscola{},
		Funcionarios: []OpcaoFuncionario{},
	}

	for _, id := range DeriveEscolaIDs(obs) {
		nome, ok := nomesEscolas[id]
		if !ok {
			continue
		}
		opcoes.Escolas = append(opcoes.Escolas, OpcaoEscola{ID: id, Nome: nome})
	}

	for _, id := range DeriveFuncionarioIDs(obs) {
		nome, ok := nomesFuncs[id]
		if !ok {
			continue
		}
		opcoes.Funcionarios = append(opcoes.Funcionarios, OpcaoFuncionario{ID: id, Nome: nome})
	}

	return opcoes, nil
}
