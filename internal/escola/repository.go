package escola

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaolimpeza/supervisao/internal/auth"
	"github.com/gestaolimpeza/supervisao/internal/db"
)

// Repository provê leitura da tabela de escolas.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListEscolas retorna as escolas em ordem alfabética.
func (r *Repository) ListEscolas(ctx context.Context, sess *auth.Session) ([]Escola, error) {
	const query = `
        SELECT id, nome
        FROM escolas
        ORDER BY nome ASC
    `

	var escolas []Escola
	err := db.WithSession(ctx, r.pool, sess, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e Escola
			if err := rows.Scan(&e.ID, &e.Nome); err != nil {
				return err
			}
			escolas = append(escolas, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return escolas, nil
}
