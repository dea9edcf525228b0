package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

func New(url string) (*sql.DB, error) {
	return sql.Open("postgres", url)
}

// NewPool abre o pool pgx e confirma a conexão.
func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS produtos (
		ean              TEXT PRIMARY KEY,
		nome             TEXT NOT NULL,
		nome_busca       TEXT NOT NULL,
		categoria        TEXT NOT NULL DEFAULT '',
		vendido_por_peso BOOLEAN NOT NULL DEFAULT FALSE,
		disponivel       BOOLEAN NOT NULL DEFAULT TRUE,
		url              TEXT NOT NULL DEFAULT '',
		atualizado_em    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS produtos_nome_busca_idx ON produtos (nome_busca)`,
	`CREATE TABLE IF NOT EXISTS pedidos (
		id           TEXT PRIMARY KEY,
		cliente      TEXT NOT NULL,
		itens        JSONB NOT NULL,
		nome         TEXT NOT NULL,
		endereco     TEXT NOT NULL DEFAULT '',
		bairro       TEXT NOT NULL DEFAULT '',
		entrega      BOOLEAN NOT NULL,
		taxa_entrega NUMERIC(10,2) NOT NULL DEFAULT 0,
		pagamento    TEXT NOT NULL,
		subtotal     NUMERIC(10,2) NOT NULL,
		total        NUMERIC(10,2) NOT NULL,
		aproximado   BOOLEAN NOT NULL DEFAULT FALSE,
		observacao   TEXT NOT NULL DEFAULT '',
		criado_em    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS pedidos_cliente_idx ON pedidos (cliente, criado_em DESC)`,
}

// Migrate cria as tabelas que ainda não existem.
func Migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
