package observacao

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gestaolimpeza/supervisao/internal/util"
)

var (
	// ErrNotFound cobre registro ausente ou escondido pela política de
	// linha.
	ErrNotFound = errors.New("observação não encontrada")
)

const (
	// TipoFuncionario anota um funcionário específico; a escola é sempre
	// a escola atual dele.
	TipoFuncionario = "FUNCIONARIO"
	// TipoEscola anota a escola como um todo, sem funcionário.
	TipoEscola = "ESCOLA"
)

// Observacao é um registro de texto livre sobre um funcionário ou uma
// escola. Só o texto é mutável; não há exclusão.
type Observacao struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	UserEmail     string     `json:"user_email"`
	Tipo          string     `json:"tipo"`
	FuncionarioID *uuid.UUID `json:"funcionario_id,omitempty"`
	EscolaID      *int       `json:"escola_id,omitempty"`
	Texto         string     `json:"texto"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateInput encapsula os campos de criação dos dois subtipos.
type CreateInput struct {
	Tipo          string     `json:"tipo"`
	FuncionarioID *uuid.UUID `json:"funcionario_id"`
	EscolaID      *int       `json:"escola_id"`
	Texto         string     `json:"texto"`
}

// Validate aplica as regras de forma dos subtipos. Para ESCOLA um
// funcionario_id presente é aceito mas descartado: esse subtipo nunca
// armazena funcionário.
func (in *CreateInput) Validate() error {
	errs := util.FieldErrors{}

	in.Texto = strings.TrimSpace(in.Texto)
	if in.Texto == "" {
		errs["texto"] = "texto obrigatório"
	}

	switch in.Tipo {
	case TipoFuncionario:
		if in.FuncionarioID == nil {
			errs["funcionario_id"] = "funcionário obrigatório para observação de funcionário"
		}
	case TipoEscola:
		if in.EscolaID == nil {
			errs["escola_id"] = "escola obrigatória para observação de escola"
		}
		in.FuncionarioID = nil
	default:
		errs["tipo"] = "tipo inválido"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Filtro é avaliado em memória sobre o conjunto escopado pelo backend.
type Filtro struct {
	Tipo          string
	EscolaID      *int
	FuncionarioID *uuid.UUID
}

// FilterObservacoes aplica os predicados combinados por igualdade.
func FilterObservacoes(obs []Observacao, filtro Filtro) []Observacao {
	out := make([]Observacao, 0, len(obs))
	for _, o := range obs {
		if filtro.Tipo != "" && o.Tipo != filtro.Tipo {
			continue
		}
		if filtro.EscolaID != nil && (o.EscolaID == nil || *o.EscolaID != *filtro.EscolaID) {
			continue
		}
		if filtro.FuncionarioID != nil && (o.FuncionarioID == nil || *o.FuncionarioID != *filtro.FuncionarioID) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// OpcaoEscola e OpcaoFuncionario são as escolhas de filtro derivadas do
// próprio conjunto de observações.
type OpcaoEscola struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

type OpcaoFuncionario struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
}

// DeriveEscolaIDs retorna os ids de escola presentes em pelo menos uma
// observação, em ordem de primeira aparição.
func DeriveEscolaIDs(obs []Observacao) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, o := range obs {
		if o.EscolaID == nil {
			continue
		}
		if _, ok := seen[*o.EscolaID]; ok {
			continue
		}
		seen[*o.EscolaID] = struct{}{}
		ids = append(ids, *o.EscolaID)
	}
	return ids
}

// DeriveFuncionarioIDs retorna os ids de funcionário presentes em pelo
// menos uma observação, em ordem de primeira aparição.
func DeriveFuncionarioIDs(obs []Observacao) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, o := range obs {
		if o.FuncionarioID == nil {
			continue
		}
		if _, ok := seen[*o.FuncionarioID]; ok {
			continue
		}
		seen[*o.FuncionarioID] = struct{}{}
		ids = append(ids, *o.FuncionarioID)
	}
	return ids
}
