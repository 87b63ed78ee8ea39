package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaolimpeza/supervisao/internal/auth"
)

// WithSession executa uma função dentro de uma transação com as claims do
// chamador instaladas em request.jwt.claims e o papel rebaixado para
// authenticated. Assim as políticas de linha do banco escopam cada consulta;
// nenhuma autorização por linha é reimplementada em Go.
func WithSession(ctx context.Context, pool *pgxpool.Pool, sess *auth.Session, fn func(ctx context.Context, tx pgx.Tx) error) error {
	if sess == nil {
		return auth.ErrNotAuthenticated
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT set_config('request.jwt.claims', $1, true)`, sess.ClaimsJSON()); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `SET LOCAL ROLE authenticated`); err != nil {
		return err
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
