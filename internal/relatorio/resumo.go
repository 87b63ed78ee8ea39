package relatorio

import (
	"sort"
	"strings"
)

// Contagem é um agregado rotulado para métricas e gráficos do painel.
type Contagem struct {
	Chave string `json:"chave"`
	Total int    `json:"total"`
}

// ContagemPorSituacao agrupa as linhas por situação.
func ContagemPorSituacao(linhas []LinhaFuncionario) []Contagem {
	return contar(linhas, func(l LinhaFuncionario) string { return l.Situacao })
}

// ContagemPorEscola agrupa as linhas por escola.
func ContagemPorEscola(linhas []LinhaFuncionario) []Contagem {
	return contar(linhas, func(l LinhaFuncionario) string { return l.Escola })
}

// ContagemPorSupervisor agrupa as linhas pelo supervisor dono.
func ContagemPorSupervisor(linhas []LinhaFuncionario) []Contagem {
	return contar(linhas, func(l LinhaFuncionario) string { return l.Supervisor })
}

func contar(linhas []LinhaFuncionario, chave func(LinhaFuncionario) string) []Contagem {
	totais := make(map[string]int)
	for _, linha := range linhas {
		totais[chave(linha)]++
	}

	contagens := make([]Contagem, 0, len(totais))
	for k, total := range totais {
		contagens = append(contagens, Contagem{Chave: k, Total: total})
	}

	sort.Slice(contagens, func(i, j int) bool {
		if contagens[i].Total != contagens[j].Total {
			return contagens[i].Total > contagens[j].Total
		}
		return strings.ToLower(contagens[i].Chave) < strings.ToLower(contagens[j].Chave)
	})

	return contagens
}
