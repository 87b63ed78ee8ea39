package funcionario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaolimpeza/supervisao/internal/auth"
	"github.com/gestaolimpeza/supervisao/internal/db"
	"github.com/gestaolimpeza/supervisao/internal/util"
)

const colunas = "id, user_id, user_email, nome, cpf, escola_id, cargo, situacao, created_at, updated_at"

// PGRepository provê acesso à tabela de funcionários. Cada operação roda
// dentro de uma sessão com as claims do chamador, então a política de
// linha do banco decide o que é visível e mutável.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListFuncionarios retorna o conjunto visível ao chamador, mais recentes
// primeiro.
func (r *PGRepository) ListFuncionarios(ctx context.Context, sess *auth.Session) ([]Funcionario, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM funcionarios
        ORDER BY created_at DESC
    `, colunas)

	var funcs []Funcionario
	err := db.WithSession(ctx, r.pool, sess, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			f, err := scanFuncionario(rows)
			if err != nil {
				return err
			}
			funcs = append(funcs, *f)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return funcs, nil
}

// GetFuncionario busca um registro visível ao chamador.
func (r *PGRepository) GetFuncionario(ctx context.Context, sess *auth.Session, id uuid.UUID) (*Funcionario, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM funcionarios
        WHERE id = $1
    `, colunas)

	var f *Funcionario
	err := db.WithSession(ctx, r.pool, sess, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		f, err = scanFuncionario(tx.QueryRow(ctx, query, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFuncionario insere um novo registro carimbando o dono a partir da
// sessão.
func (r *PGRepository) CreateFuncionario(ctx context.Context, sess *auth.Session, input CreateInput) (*Funcionario, error) {
	query := fmt.Sprintf(`
        INSERT INTO funcionarios (user_id, user_email, nome, cpf, escola_id, cargo, situacao)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING %s
    `, colunas)

	var f *Funcionario
	err := db.WithSession(ctx, r.pool, sess, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		f, err = scanFuncionario(tx.QueryRow(ctx, query,
			sess.UserID,
			sess.Email,
			input.Nome,
			input.CPF,
			input.EscolaID,
			input.Cargo,
			input.Situacao,
		))
		return err
	})
	if err != nil {
		return nil, mapEscolaFK(err)
	}
	return f, nil
}

// UpdateFuncionario aplica só os campos presentes e renova updated_at.
// Zero linhas afetadas vira ErrNotFound, seja por ausência real ou por
// política de linha.
func (r *PGRepository) UpdateFuncionario(ctx context.Context, sess *auth.Session, id uuid.UUID, input UpdateInput) (*Funcionario, error) {
	setParts := []string{}
	args := []any{}
	idx := 1

	if input.Nome != nil {
		setParts = append(setParts, fmt.Sprintf("nome = $%d", idx))
		args = append(args, *input.Nome)
		idx++
	}
	if input.CPF != nil {
		setParts = append(setParts, fmt.Sprintf("cpf = $%d", idx))
		args = append(args, *input.CPF)
		idx++
	}
	if input.EscolaID != nil {
		setParts = append(setParts, fmt.Sprintf("escola_id = $%d", idx))
		args = append(args, *input.EscolaID)
		idx++
	}
	if input.Cargo != nil {
		setParts = append(setParts, fmt.Sprintf("cargo = $%d", idx))
		args = append(args, *input.Cargo)
		idx++
	}
	if input.Situacao != nil {
		setParts = append(setParts, fmt.Sprintf("situacao = $%d", idx))
		args = append(args, *input.Situacao)
		idx++
	}

	if len(setParts) == 0 {
		return nil, ErrSemCampos
	}

	setParts = append(setParts, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE funcionarios
        SET %s
        WHERE id = $%d
        RETURNING %s
    `, strings.Join(setParts, ", "), idx, colunas)

	var f *Funcionario
	err := db.WithSession(ctx, r.pool, sess, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		f, err = scanFuncionario(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return nil, mapEscolaFK(err)
	}
	return f, nil
}

// DeleteFuncionario remove o registro sem checar existência; repetir a
// exclusão do mesmo id não é erro.
func (r *PGRepository) DeleteFuncionario(ctx context.Context, sess *auth.Session, id uuid.UUID) error {
	return db.WithSession(ctx, r.pool, sess, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM funcionarios WHERE id = $1`, id)
		return err
	})
}

func scanFuncionario(row pgx.Row) (*Funcionario, error) {
	var f Funcionario
	if err := row.Scan(&f.ID, &f.UserID, &f.UserEmail, &f.Nome, &f.CPF, &f.EscolaID, &f.Cargo, &f.Situacao, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// mapEscolaFK traduz violação de chave estrangeira da escola em erro de
// validação por campo.
func mapEscolaFK(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return util.FieldErrors{"escola_id": "escola inexistente"}
	}
	return err
}
