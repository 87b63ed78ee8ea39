package observacao

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaolimpeza/supervisao/internal/auth"
	"github.com/gestaolimpeza/supervisao/internal/db"
)

const colunas = "id, user_id, user_email, tipo, funcionario_id, escola_id, texto, created_at, updated_at"

// PGRepository provê acesso à tabela de observações, sempre dentro de uma
// sessão escopada pela política de linha.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListObservacoes retorna o conjunto visível, mais recentes primeiro.
func (r *PGRepository) ListObservacoes(ctx context.Context, sess *auth.Session) ([]Observacao, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM observacoes
        ORDER BY created_at DESC
    `, colunas)

	var obs []Observacao
	err := db.WithSession(ctx, r.pool, sess, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			o, err := scanObservacao(rows)
			if err != nil {
				return err
			}
			obs = append(obs, *o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return obs, nil
}

// CreateObservacao insere uma observação carimbando o dono da sessão.
func (r *PGRepository) CreateObservacao(ctx context.Context, sess *auth.Session, input CreateInput) (*Observacao, error) {
	query := fmt.Sprintf(`
        INSERT INTO observacoes (user_id, user_email, tipo, funcionario_id, escola_id, texto)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING %s
    `, colunas)

	var o *Observacao
	err := db.WithSession(ctx, r.pool, sess, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		o, err = scanObservacao(tx.QueryRow(ctx, query,
			sess.UserID,
			sess.Email,
			input.Tipo,
			input.FuncionarioID,
			input.EscolaID,
			input.Texto,
		))
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateTexto troca o texto e renova updated_at. Zero linhas afetadas vira
// ErrNotFound.
func (r *PGRepository) UpdateTexto(ctx context.Context, sess *auth.Session, id uuid.UUID, texto string) (*Observacao, error) {
	query := fmt.Sprintf(`
        UPDATE observacoes
        SET texto = $1, updated_at = now()
        WHERE id = $2
        RETURNING %s
    `, colunas)

	var o *Observacao
	err := db.WithSession(ctx, r.pool, sess, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		o, err = scanObservacao(tx.QueryRow(ctx, query, texto, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func scanObservacao(row pgx.Row) (*Observacao, error) {
	var o Observacao
	if err := row.Scan(&o.ID, &o.UserID, &o.UserEmail, &o.Tipo, &o.FuncionarioID, &o.EscolaID, &o.Texto, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
