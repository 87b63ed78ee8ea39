package funcionario

import (
	"errors"
	"strings"
	"testing"

	"github.com/gestaolimpeza/supervisao/internal/util"
)

func TestNormalizeCPF(t *testing.T) {
	valid := []struct {
		in   string
		want string
	}{
		{"12345678909", "12345678909"},
		{"123.456.789-09", "12345678909"},
		{"123 456 789 09", "12345678909"},
		{"cpf: 123.456.789/09", "12345678909"},
		{"98765432100", "98765432100"},
	}
	for _, tc := range valid {
		got, err := NormalizeCPF(tc.in)
		if err != nil {
			t.Fatalf("NormalizeCPF(%q): erro inesperado %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeCPF(%q) = %q, esperado %q", tc.in, got, tc.want)
		}
	}

	invalid := []string{"", "123", "123.456.789-0", "123.456.789-091", "abc", "1234567890a"}
	for _, in := range invalid {
		if _, err := NormalizeCPF(in); err == nil {
			t.Fatalf("NormalizeCPF(%q): esperado erro", in)
		}
	}
}

func TestCreateInputValidate(t *testing.T) {
	base := func() CreateInput {
		return CreateInput{
			Nome:     "Carlos Souza",
			CPF:      "123.456.789-09",
			EscolaID: 1,
			Cargo:    CargoLider,
			Situacao: SituacaoTrabalhando,
		}
	}

	input := base()
	if err := input.Validate(); err != nil {
		t.Fatalf("entrada válida rejeitada: %v", err)
	}
	if input.CPF != "12345678909" {
		t.Fatalf("CPF não normalizado: %q", input.CPF)
	}

	cases := []struct {
		name  string
		mut   func(*CreateInput)
		field string
	}{
		{"nome vazio", func(in *CreateInput) { in.Nome = "   " }, "nome"},
		{"nome longo", func(in *CreateInput) { in.Nome = strings.Repeat("a", 201) }, "nome"},
		{"cpf curto", func(in *CreateInput) { in.CPF = "123" }, "cpf"},
		{"escola ausente", func(in *CreateInput) { in.EscolaID = 0 }, "escola_id"},
		{"cargo inválido", func(in *CreateInput) { in.Cargo = "Gerente" }, "cargo"},
		{"situação inválida", func(in *CreateInput) { in.Situacao = "Férias" }, "situacao"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := base()
			tc.mut(&input)
			err := input.Validate()
			var fields util.FieldErrors
			if !errors.As(err, &fields) {
				t.Fatalf("esperado FieldErrors, veio %v", err)
			}
			if _, ok := fields[tc.field]; !ok {
				t.Fatalf("esperado erro no campo %q, veio %v", tc.field, fields)
			}
		})
	}
}

func TestUpdateInputValidate(t *testing.T) {
	t.Run("sem campos", func(t *testing.T) {
		input := UpdateInput{}
		if err := input.Validate(); !errors.Is(err, ErrSemCampos) {
			t.Fatalf("esperado ErrSemCampos, veio %v", err)
		}
	})

	t.Run("só situação", func(t *testing.T) {
		situacao := SituacaoAbandono
		input := UpdateInput{Situacao: &situacao}
		if err := input.Validate(); err != nil {
			t.Fatalf("atualização parcial rejeitada: %v", err)
		}
	})

	t.Run("cpf normalizado", func(t *testing.T) {
		cpf := "987.654.321-00"
		input := UpdateInput{CPF: &cpf}
		if err := input.Validate(); err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		if *input.CPF != "98765432100" {
			t.Fatalf("CPF não normalizado: %q", *input.CPF)
		}
	})

	t.Run("cpf inválido", func(t *testing.T) {
		cpf := "12"
		input := UpdateInput{CPF: &cpf}
		var fields util.FieldErrors
		if err := input.Validate(); !errors.As(err, &fields) {
			t.Fatalf("esperado FieldErrors, veio %v", err)
		}
	})
}

func TestToggleSituacao(t *testing.T) {
	if got := ToggleSituacao(SituacaoTrabalhando); got != SituacaoAbandono {
		t.Fatalf("esperado %q, veio %q", SituacaoAbandono, got)
	}
	if got := ToggleSituacao(SituacaoAbandono); got != SituacaoTrabalhando {
		t.Fatalf("esperado %q, veio %q", SituacaoTrabalhando, got)
	}
}
