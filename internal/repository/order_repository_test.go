package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadoia/internal/model"
)

var criadoEm = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

func sampleOrder() model.Order {
	return model.Order{
		ID:      "ped-1",
		Cliente: "5585999990000",
		Itens: []model.CartItem{{
			EAN: "789100", Nome: "Arroz Tipo 1 5kg", Quantidade: 2, Unidade: model.UnidadeUn,
			PrecoUnitario: 24.90, PrecoLinha: 49.80, CotadoEm: criadoEm.Add(-5 * time.Minute),
		}},
		Nome:        "Maria",
		Endereco:    "Rua das Flores, 10",
		Bairro:      "Centro",
		Entrega:     true,
		TaxaEntrega: 5,
		Pagamento:   model.PagamentoPix,
		Subtotal:    49.80,
		Total:       54.80,
		CriadoEm:    criadoEm,
	}
}

func orderRow(t *testing.T, o model.Order) *sqlmock.Rows {
	itens, err := json.Marshal(o.Itens)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "cliente", "itens", "nome", "endereco", "bairro", "entrega", "taxa_entrega",
		"pagamento", "subtotal", "total", "aproximado", "observacao", "criado_em"}).
		AddRow(o.ID, o.Cliente, itens, o.Nome, o.Endereco, o.Bairro, o.Entrega, o.TaxaEntrega,
			string(o.Pagamento), o.Subtotal, o.Total, o.Aproximado, o.Observacao, o.CriadoEm)
}

func TestOrderRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	o := sampleOrder()
	args := make([]driver.Value, 14)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	args[0] = o.ID
	args[1] = o.Cliente
	mock.ExpectExec("INSERT INTO pedidos").WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &OrderRepository{DB: db}
	require.NoError(t, repo.Save(context.Background(), o))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	o := sampleOrder()
	mock.ExpectQuery("FROM pedidos WHERE id = \\$1").WithArgs("ped-1").WillReturnRows(orderRow(t, o))

	got, err := (&OrderRepository{DB: db}).Get(context.Background(), "ped-1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, model.PagamentoPix, got.Pagamento)
	require.Len(t, got.Itens, 1)
	assert.Equal(t, "789100", got.Itens[0].EAN)
	assert.Equal(t, 54.80, got.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM pedidos").WithArgs("nada").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = (&OrderRepository{DB: db}).Get(context.Background(), "nada")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderRepository_Latest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	o := sampleOrder()
	mock.ExpectQuery("WHERE cliente = \\$1\\s+ORDER BY criado_em DESC").WithArgs(o.Cliente).WillReturnRows(orderRow(t, o))

	got, err := (&OrderRepository{DB: db}).Latest(context.Background(), o.Cliente)
	require.NoError(t, err)
	assert.Equal(t, "ped-1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	o := sampleOrder()
	o.Pagamento = model.PagamentoCartao
	mock.ExpectExec("UPDATE pedidos").
		WithArgs(sqlmock.AnyArg(), o.Nome, o.Endereco, o.Bairro, o.Entrega, o.TaxaEntrega,
			"cartao", o.Subtotal, o.Total, o.Aproximado, o.Observacao, o.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE pedidos").
		WithArgs(sqlmock.AnyArg(), o.Nome, o.Endereco, o.Bairro, o.Entrega, o.TaxaEntrega,
			"cartao", o.Subtotal, o.Total, o.Aproximado, o.Observacao, "sumiu").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &OrderRepository{DB: db}
	require.NoError(t, repo.Update(context.Background(), o))

	o.ID = "sumiu"
	assert.ErrorIs(t, repo.Update(context.Background(), o), ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
