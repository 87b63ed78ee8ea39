package funcionario

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/gestaolimpeza/supervisao/internal/util"
)

var (
	// ErrNotFound cobre tanto registro ausente quanto registro escondido
	// pela política de linha; os dois casos são indistinguíveis aqui.
	ErrNotFound = errors.New("funcionário não encontrado")
	// ErrSemCampos é retornado quando uma atualização não traz nenhum
	// campo efetivo.
	ErrSemCampos = errors.New("nenhum campo para atualizar")
)

const (
	SituacaoTrabalhando = "Trabalhando"
	SituacaoAbandono    = "Abandono"

	CargoAuxiliarLimpeza = "Auxiliar de Limpeza"
	CargoAgenteHigiene   = "Agente de Higiene"
	CargoLimpadorVidros  = "Limpador de Vidros"
	CargoLider           = "Líder"
	CargoEncarregado     = "Encarregado"
)

var (
	validSituacoes = map[string]struct{}{
		SituacaoTrabalhando: {},
		SituacaoAbandono:    {},
	}
	validCargos = map[string]struct{}{
		CargoAuxiliarLimpeza: {},
		CargoAgenteHigiene:   {},
		CargoLimpadorVidros:  {},
		CargoLider:           {},
		CargoEncarregado:     {},
	}
)

// Funcionario representa um funcionário acompanhado por um supervisor.
// UserID identifica o supervisor dono da linha e é imutável após a criação.
type Funcionario struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserEmail string    `json:"user_email"`
	Nome      string    `json:"nome"`
	CPF       string    `json:"cpf"`
	EscolaID  int       `json:"escola_id"`
	Cargo     string    `json:"cargo"`
	Situacao  string    `json:"situacao"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput encapsula os campos para cadastrar um funcionário.
type CreateInput struct {
	Nome     string `json:"nome"`
	CPF      string `json:"cpf"`
	EscolaID int    `json:"escola_id"`
	Cargo    string `json:"cargo"`
	Situacao string `json:"situacao"`
}

// UpdateInput traz campos opcionais; só os presentes são validados e
// aplicados.
type UpdateInput struct {
	Nome     *string `json:"nome"`
	CPF      *string `json:"cpf"`
	EscolaID *int    `json:"escola_id"`
	Cargo    *string `json:"cargo"`
	Situacao *string `json:"situacao"`
}

// NormalizeCPF remove pontuação e exige exatamente 11 dígitos, na ordem
// original. A mesma regra vale para criação, atualização e filtro.
func NormalizeCPF(raw string) (string, error) {
	var digits strings.Builder
	for _, ch := range raw {
		if unicode.IsDigit(ch) {
			digits.WriteRune(ch)
		}
	}
	if digits.Len() != 11 {
		return "", errors.New("CPF deve conter exatamente 11 dígitos numéricos")
	}
	return digits.String(), nil
}

// DigitsOnly reduz a entrada aos dígitos, sem exigir tamanho. Usado nos
// filtros para comparação consistente de substrings.
func DigitsOnly(raw string) string {
	var digits strings.Builder
	for _, ch := range raw {
		if unicode.IsDigit(ch) {
			digits.WriteRune(ch)
		}
	}
	return digits.String()
}

// IsValidSituacao indica se a situação é aceita.
func IsValidSituacao(situacao string) bool {
	_, ok := validSituacoes[situacao]
	return ok
}

// IsValidCargo indica se o cargo é aceito.
func IsValidCargo(cargo string) bool {
	_, ok := validCargos[cargo]
	return ok
}

// ToggleSituacao alterna entre as duas situações possíveis.
func ToggleSituacao(atual string) string {
	if atual == SituacaoTrabalhando {
		return SituacaoAbandono
	}
	return SituacaoTrabalhando
}

// Validate normaliza e valida os campos de criação. Erros são reportados
// por campo antes de qualquer chamada ao backend.
func (in *CreateInput) Validate() error {
	errs := util.FieldErrors{}

	in.Nome = strings.TrimSpace(in.Nome)
	if in.Nome == "" || len([]rune(in.Nome)) > 200 {
		errs["nome"] = "nome deve ter entre 1 e 200 caracteres"
	}

	cpf, err := NormalizeCPF(in.CPF)
	if err != nil {
		errs["cpf"] = err.Error()
	} else {
		in.CPF = cpf
	}

	if in.EscolaID <= 0 {
		errs["escola_id"] = "escola obrigatória"
	}

	if !IsValidCargo(in.Cargo) {
		errs["cargo"] = "cargo inválido"
	}

	if !IsValidSituacao(in.Situacao) {
		errs["situacao"] = "situação inválida"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate normaliza e valida apenas os campos presentes. Uma atualização
// sem nenhum campo efetivo retorna ErrSemCampos.
func (in *UpdateInput) Validate() error {
	errs := util.FieldErrors{}

	if in.Nome != nil {
		nome := strings.TrimSpace(*in.Nome)
		if nome == "" || len([]rune(nome)) > 200 {
			errs["nome"] = "nome deve ter entre 1 e 200 caracteres"
		} else {
			in.Nome = &nome
		}
	}

	if in.CPF != nil {
		cpf, err := NormalizeCPF(*in.CPF)
		if err != nil {
			errs["cpf"] = err.Error()
		} else {
			in.CPF = &cpf
		}
	}

	if in.EscolaID != nil && *in.EscolaID <= 0 {
		errs["escola_id"] = "escola inválida"
	}

	if in.Cargo != nil && !IsValidCargo(*in.Cargo) {
		errs["cargo"] = "cargo inválido"
	}

	if in.Situacao != nil && !IsValidSituacao(*in.Situacao) {
		errs["situacao"] = "situação inválida"
	}

	if len(errs) > 0 {
		return errs
	}

	if in.Nome == nil && in.CPF == nil && in.EscolaID == nil && in.Cargo == nil && in.Situacao == nil {
		return ErrSemCampos
	}
	return nil
}
