package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadoia/internal/model"
)

func placedOrder(t *testing.T) model.Order {
	t.Helper()
	o, err := Finalize(validInput(), finalizeNow.Add(-5*time.Minute))
	require.NoError(t, err)
	o.ID = "p1"
	return o
}

func TestAmend_NoChanges(t *testing.T) {
	o := placedOrder(t)

	got, changed, err := Amend(o, OrderChanges{Nome: o.Nome, Pagamento: "pix"}, finalizeNow)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, o, got)
}

func TestAmend_SwitchPaymentToAddWeightVariableItem(t *testing.T) {
	o := placedOrder(t)
	frango := quotedItem("Frango", "Aves", 1, 19.90)

	_, _, err := Amend(o, OrderChanges{Itens: []model.CartItem{frango}}, finalizeNow)
	require.ErrorIs(t, err, ErrPrepaymentNotAllowed)

	got, changed, err := Amend(o, OrderChanges{Itens: []model.CartItem{frango}, Pagamento: "cartão"}, finalizeNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.PagamentoCartao, got.Pagamento)
	assert.Len(t, got.Itens, 3)
	assert.Equal(t, 78.19, got.Subtotal)
	assert.Equal(t, 83.19, got.Total)

	// o pedido original não é tocado
	assert.Len(t, o.Itens, 2)
}

func TestAmend_NewNeighborhoodRecomputesFee(t *testing.T) {
	o := placedOrder(t)

	got, changed, err := Amend(o, OrderChanges{Bairro: "parque das flores", Endereco: "Rua B, 2"}, finalizeNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Parque das Flores", got.Bairro)
	assert.Equal(t, "Rua B, 2", got.Endereco)
	assert.Equal(t, 10.00, got.TaxaEntrega)
	assert.Equal(t, 68.29, got.Total)

	_, _, err = Amend(o, OrderChanges{Bairro: "Vila Rosa"}, finalizeNow)
	assert.ErrorIs(t, err, ErrUndeliverable)
}

func TestAmend_PickupToDeliveryNeedsAddress(t *testing.T) {
	in := validInput()
	in.Entrega = false
	in.Endereco = ""
	in.Bairro = ""
	o, err := Finalize(in, finalizeNow.Add(-time.Minute))
	require.NoError(t, err)

	_, _, err = Amend(o, OrderChanges{Entrega: true}, finalizeNow)
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"endereço", "bairro"}, missing.Campos)

	got, _, err := Amend(o, OrderChanges{Entrega: true, Endereco: "Rua A, 1", Bairro: "centro"}, finalizeNow)
	require.NoError(t, err)
	assert.True(t, got.Entrega)
	assert.Equal(t, 5.00, got.TaxaEntrega)
}

func TestAmend_StaleItemRejected(t *testing.T) {
	o := placedOrder(t)
	it := quotedItem("Feijão Preto", "Mercearia", 1, 9.00)
	it.CotadoEm = finalizeNow.Add(-20 * time.Minute)

	_, _, err := Amend(o, OrderChanges{Itens: []model.CartItem{it}}, finalizeNow)
	assert.ErrorIs(t, err, ErrUnconfirmedPrice)
}

func TestAmend_FrozenAfterWindow(t *testing.T) {
	o := placedOrder(t)

	_, _, err := Amend(o, OrderChanges{Nome: "Outra"}, o.CriadoEm.Add(20*time.Minute))
	require.ErrorIs(t, err, ErrOrderFrozen)
	assert.Equal(t, FrozenOrderMessage, UserMessage(err))
}
