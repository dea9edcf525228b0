package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mercadoia/internal/model"
)

var ErrOrderNotFound = errors.New("pedido não encontrado")

// OrderRepository persiste pedidos na tabela pedidos. Os itens ficam numa
// coluna JSONB.
type OrderRepository struct {
	DB *sql.DB
}

const orderColumns = `id, cliente, itens, nome, endereco, bairro, entrega, taxa_entrega,
	pagamento, subtotal, total, aproximado, observacao, criado_em`

func (r *OrderRepository) Save(ctx context.Context, o model.Order) error {
	itens, err := json.Marshal(o.Itens)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO pedidos
		(`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, o.ID, o.Cliente, itens, o.Nome, o.Endereco, o.Bairro, o.Entrega, o.TaxaEntrega,
		string(o.Pagamento), o.Subtotal, o.Total, o.Aproximado, o.Observacao, o.CriadoEm)
	if err != nil {
		return fmt.Errorf("gravando pedido %s: %w", o.ID, err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (model.Order, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM pedidos WHERE id = $1`, id)
	return scanOrder(row)
}

// Latest devolve o pedido mais recente do cliente.
func (r *OrderRepository) Latest(ctx context.Context, cliente string) (model.Order, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM pedidos
		WHERE cliente = $1
		ORDER BY criado_em DESC
		LIMIT 1
	`, cliente)
	return scanOrder(row)
}

// Update regrava os dados alteráveis de um pedido ainda editável. Cliente e
// criado_em não mudam.
func (r *OrderRepository) Update(ctx context.Context, o model.Order) error {
	itens, err := json.Marshal(o.Itens)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE pedidos
		SET itens = $1, nome = $2, endereco = $3, bairro = $4, entrega = $5, taxa_entrega = $6,
			pagamento = $7, subtotal = $8, total = $9, aproximado = $10, observacao = $11
		WHERE id = $12
	`, itens, o.Nome, o.Endereco, o.Bairro, o.Entrega, o.TaxaEntrega,
		string(o.Pagamento), o.Subtotal, o.Total, o.Aproximado, o.Observacao, o.ID)
	if err != nil {
		return fmt.Errorf("atualizando pedido %s: %w", o.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func scanOrder(row *sql.Row) (model.Order, error) {
	var (
		o         model.Order
		itens     []byte
		pagamento string
	)
	err := row.Scan(&o.ID, &o.Cliente, &itens, &o.Nome, &o.Endereco, &o.Bairro, &o.Entrega, &o.TaxaEntrega,
		&pagamento, &o.Subtotal, &o.Total, &o.Aproximado, &o.Observacao, &o.CriadoEm)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	if err := json.Unmarshal(itens, &o.Itens); err != nil {
		return model.Order{}, fmt.Errorf("decodificando itens do pedido %s: %w", o.ID, err)
	}
	o.Pagamento = model.PaymentMethod(pagamento)
	return o, nil
}
