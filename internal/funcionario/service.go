package funcionario

import (
	"context"

	"github.com/google/uuid"

	"github.com/gestaolimpeza/supervisao/internal/auth"
)

// Repository abstrai o acesso ao armazenamento escopado por política de
// linha.
type Repository interface {
	ListFuncionarios(ctx context.Context, sess *auth.Session) ([]Funcionario, error)
	GetFuncionario(ctx context.Context, sess *auth.Session, id uuid.UUID) (*Funcionario, error)
	CreateFuncionario(ctx context.Context, sess *auth.Session, input CreateInput) (*Funcionario, error)
	UpdateFuncionario(ctx context.Context, sess *auth.Session, id uuid.UUID, input UpdateInput) (*Funcionario, error)
	DeleteFuncionario(ctx context.Context, sess *auth.Session, id uuid.UUID) error
}

// Service reúne validação e regras da supervisão de funcionários.
type Service struct {
	repo Repository
}

// NewService cria uma nova instância do serviço.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resumo traz contagens do conjunto filtrado, não só da página visível.
type Resumo struct {
	Total       int `json:"total"`
	Trabalhando int `json:"trabalhando"`
	Abandono    int `json:"abandono"`
}

// Lista é o resultado de uma listagem paginada.
type Lista struct {
	Funcionarios []Funcionario `json:"funcionarios"`
	Paginacao    Paginacao     `json:"paginacao"`
	Resumo       Resumo        `json:"resumo"`
}

// Listar busca o conjunto visível, aplica filtros em memória e pagina.
func (s *Service) Listar(ctx context.Context, sess *auth.Session, filtro Filtro, pagina int) (*Lista, error) {
	funcs, err := s.repo.ListFuncionarios(ctx, sess)
	if err != nil {
		return nil, err
	}

	filtrados := FilterFuncionarios(funcs, filtro)
	paginados, meta := Paginate(filtrados, pagina)

	return &Lista{
		Funcionarios: paginados,
		Paginacao:    meta,
		Resumo:       resumir(filtrados),
	}, nil
}

// ListarFiltrados retorna o conjunto filtrado completo, sem paginação.
// É a base da exportação: o arquivo sempre cobre todos os filtrados.
func (s *Service) ListarFiltrados(ctx context.Context, sess *auth.Session, filtro Filtro) ([]Funcionario, error) {
	funcs, err := s.repo.ListFuncionarios(ctx, sess)
	if err != nil {
		return nil, err
	}
	return FilterFuncionarios(funcs, filtro), nil
}

// Criar valida e cadastra um funcionário para o supervisor da sessão.
func (s *Service) Criar(ctx context.Context, sess *auth.Session, input CreateInput) (*Funcionario, error) {
	if sess == nil {
		return nil, auth.ErrNotAuthenticated
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateFuncionario(ctx, sess, input)
}

// Atualizar valida os campos presentes e aplica a mesclagem parcial.
func (s *Service) Atualizar(ctx context.Context, sess *auth.Session, id uuid.UUID, input UpdateInput) (*Funcionario, error) {
	if sess == nil {
		return nil, auth.ErrNotAuthenticated
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateFuncionario(ctx, sess, id, input)
}

// AlternarSituacao lê a situação atual e grava a oposta.
func (s *Service) AlternarSituacao(ctx context.Context, sess *auth.Session, id uuid.UUID) (*Funcionario, error) {
	if sess == nil {
		return nil, auth.ErrNotAuthenticated
	}

	atual, err := s.repo.GetFuncionario(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	nova := ToggleSituacao(atual.Situacao)
	return s.repo.UpdateFuncionario(ctx, sess, id, UpdateInput{Situacao: &nova})
}

// Excluir remove o funcionário; excluir um id já ausente não é erro.
func (s *Service) Excluir(ctx context.Context, sess *auth.Session, id uuid.UUID) error {
	if sess == nil {
		return auth.ErrNotAuthenticated
	}
	return s.repo.DeleteFuncionario(ctx, sess, id)
}

func resumir(funcs []Funcionario) Resumo {
	resumo := Resumo{Total: len(funcs)}
	for _, f := range funcs {
		switch f.Situacao {
		case SituacaoTrabalhando:
			resumo.Trabalhando++
		case SituacaoAbandono:
			resumo.Abandono++
		}
	}
	return resumo
}
