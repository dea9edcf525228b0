package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"mercadoia/internal/model"
	"mercadoia/internal/rules"
)

const defaultSearchLimit = 10

var ErrProductNotFound = errors.New("produto não encontrado no catálogo")

// % e _ digitados pelo cliente são texto, não curinga
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DB é o subconjunto de *pgxpool.Pool usado pelo catálogo.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Product é uma linha da tabela produtos, como gravada pelo importador.
type Product struct {
	EAN            string
	Nome           string
	Categoria      string
	VendidoPorPeso bool
	Disponivel     bool
	URL            string
}

type Repository struct {
	DB    DB
	Limit int
}

// Search busca produtos cujo nome contém todas as palavras da consulta.
// Ordem: nome igual, nome começando pela consulta, disponíveis, nome mais
// curto.
func (r *Repository) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	q := rules.Normalize(query)
	words := strings.Fields(q)
	if len(words) == 0 {
		return nil, nil
	}

	limit := r.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	params := []interface{}{q, limit}
	paramIndex := 3
	var where []string
	for _, w := range words {
		where = append(where, fmt.Sprintf(`nome_busca LIKE $%d ESCAPE '\'`, paramIndex))
		params = append(params, "%"+likeEscaper.Replace(w)+"%")
		paramIndex++
	}

	sql := fmt.Sprintf(`
		SELECT ean, nome, categoria, vendido_por_peso
		FROM produtos
		WHERE %s
		ORDER BY CASE WHEN nome_busca = $1 THEN 0 WHEN left(nome_busca, length($1)) = $1 THEN 1 ELSE 2 END,
		         disponivel DESC, length(nome_busca), nome
		LIMIT $2
	`, strings.Join(where, " AND "))

	log.Printf("[Catalogo] Search Query: %q | Params: %v", q, params)

	rows, err := r.DB.Query(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("buscando %q no catálogo: %w", query, err)
	}
	defer rows.Close()

	var res []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.EAN, &c.Nome, &c.Categoria, &c.VendidoPorPeso); err != nil {
			continue // Pula linhas com erro de scan
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// ByEAN devolve o produto do catálogo com o EAN informado.
func (r *Repository) ByEAN(ctx context.Context, ean string) (model.Candidate, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ean, nome, categoria, vendido_por_peso
		FROM produtos
		WHERE ean = $1
	`, ean)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("buscando EAN %s: %w", ean, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Candidate{}, err
		}
		return model.Candidate{}, ErrProductNotFound
	}
	var c model.Candidate
	if err := rows.Scan(&c.EAN, &c.Nome, &c.Categoria, &c.VendidoPorPeso); err != nil {
		return model.Candidate{}, err
	}
	return c, nil
}

// Upsert grava ou atualiza o produto pelo EAN.
func (r *Repository) Upsert(ctx context.Context, p Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO produtos (ean, nome, nome_busca, categoria, vendido_por_peso, disponivel, url, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ean) DO UPDATE
		SET nome = EXCLUDED.nome, nome_busca = EXCLUDED.nome_busca, categoria = EXCLUDED.categoria,
		    vendido_por_peso = EXCLUDED.vendido_por_peso, disponivel = EXCLUDED.disponivel,
		    url = EXCLUDED.url, atualizado_em = EXCLUDED.atualizado_em
	`, p.EAN, p.Nome, rules.Normalize(p.Nome), p.Categoria, p.VendidoPorPeso, p.Disponivel, p.URL, time.Now())
	if err != nil {
		return fmt.Errorf("gravando produto %s: %w", p.EAN, err)
	}
	return nil
}

// ListEANs devolve todos os EANs do catálogo, para a atualização de estoque.
func (r *Repository) ListEANs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT ean FROM produtos ORDER BY ean`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eans []string
	for rows.Next() {
		var ean string
		if err := rows.Scan(&ean); err == nil {
			eans = append(eans, ean)
		}
	}
	return eans, rows.Err()
}

func (r *Repository) UpdateAvailability(ctx context.Context, ean string, disponivel bool) error {
	_, err := r.DB.Exec(ctx, `UPDATE produtos SET disponivel = $1, atualizado_em = $2 WHERE ean = $3`, disponivel, time.Now(), ean)
	return err
}
