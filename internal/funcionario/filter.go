package funcionario

import "strings"

// PageSize é o tamanho fixo de página da listagem.
const PageSize = 10

// Filtro é aplicado em memória sobre o conjunto já escopado pela política
// de linha do banco; paginação não dispara nova busca.
type Filtro struct {
	Nome     string
	CPF      string
	EscolaID *int
}

// Paginacao descreve a página corrente da listagem.
type Paginacao struct {
	Pagina       int  `json:"pagina"`
	TotalPaginas int  `json:"total_paginas"`
	Total        int  `json:"total"`
	TemProxima   bool `json:"tem_proxima"`
}

// FilterFuncionarios aplica os três predicados combinados: nome contém
// (sem caixa), CPF contém (só dígitos) e escola igual.
func FilterFuncionarios(funcs []Funcionario, filtro Filtro) []Funcionario {
	nome := strings.ToLower(strings.TrimSpace(filtro.Nome))
	cpf := DigitsOnly(filtro.CPF)

	out := make([]Funcionario, 0, len(funcs))
	for _, f := range funcs {
		if nome != "" && !strings.Contains(strings.ToLower(f.Nome), nome) {
			continue
		}
		if cpf != "" && !strings.Contains(DigitsOnly(f.CPF), cpf) {
			continue
		}
		if filtro.EscolaID != nil && f.EscolaID != *filtro.EscolaID {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Paginate recorta a página pedida do conjunto filtrado. Páginas fora do
// intervalo voltam vazias; página mínima é 1.
func Paginate(funcs []Funcionario, pagina int) ([]Funcionario, Paginacao) {
	if pagina < 1 {
		pagina = 1
	}

	total := len(funcs)
	totalPaginas := (total + PageSize - 1) / PageSize
	if totalPaginas == 0 {
		totalPaginas = 1
	}

	meta := Paginacao{
		Pagina:       pagina,
		TotalPaginas: totalPaginas,
		Total:        total,
		TemProxima:   pagina < totalPaginas,
	}

	inicio := (pagina - 1) * PageSize
	if inicio >= total {
		return []Funcionario{}, meta
	}
	fim := inicio + PageSize
	if fim > total {
		fim = total
	}
	return funcs[inicio:fim], meta
}
