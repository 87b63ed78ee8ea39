package escola

import "errors"

// ErrNotFound é retornado quando a escola não existe.
var ErrNotFound = errors.New("escola não encontrada")

// Escola é dado de referência, cadastrado fora da aplicação e somente
// leitura por aqui.
type Escola struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// MapaNomes indexa nomes por id para exibição.
func MapaNomes(escolas []Escola) map[int]string {
	nomes := make(map[int]string, len(escolas))
	for _, e := range escolas {
		nomes[e.ID] = e.Nome
	}
	return nomes
}
