package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadoia/internal/model"
)

var finalizeNow = time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

func quotedItem(nome, categoria string, qtd, preco float64) model.CartItem {
	return model.CartItem{
		EAN:           "789" + nome,
		Nome:          nome,
		Categoria:     categoria,
		Quantidade:    qtd,
		Unidade:       model.UnidadeUn,
		PrecoUnitario: preco,
		PrecoLinha:    RoundCents(qtd * preco),
		CotadoEm:      finalizeNow.Add(-5 * time.Minute),
	}
}

func validInput() FinalizeInput {
	return FinalizeInput{
		Cliente:   "5585999990000",
		Itens:     []model.CartItem{quotedItem("Arroz Tipo 1", "Mercearia", 2, 24.90), quotedItem("Feijão Carioca", "Mercearia", 1, 8.49)},
		Nome:      "Maria",
		Endereco:  "Rua das Flores, 10",
		Bairro:    "centro",
		Entrega:   true,
		Pagamento: "pix",
	}
}

func TestFinalize_Success(t *testing.T) {
	order, err := Finalize(validInput(), finalizeNow)
	require.NoError(t, err)

	assert.Equal(t, 58.29, order.Subtotal)
	assert.Equal(t, 5.00, order.TaxaEntrega)
	assert.Equal(t, 63.29, order.Total)
	assert.Equal(t, "Centro", order.Bairro)
	assert.Equal(t, model.PagamentoPix, order.Pagamento)
	assert.Equal(t, finalizeNow, order.CriadoEm)
	assert.False(t, order.Aproximado)
	assert.Len(t, order.Itens, 2)
}

func TestFinalize_CopiesItems(t *testing.T) {
	in := validInput()
	order, err := Finalize(in, finalizeNow)
	require.NoError(t, err)

	in.Itens[0].Nome = "alterado"
	assert.Equal(t, "Arroz Tipo 1", order.Itens[0].Nome)
}

func TestFinalize_EmptyCart(t *testing.T) {
	in := validInput()
	in.Itens = nil
	_, err := Finalize(in, finalizeNow)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestFinalize_MissingAddress(t *testing.T) {
	in := validInput()
	in.Endereco = "   "

	_, err := Finalize(in, finalizeNow)
	require.ErrorIs(t, err, ErrMissingFields)

	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"endereço"}, missing.Campos)
	assert.Contains(t, UserMessage(err), "endereço")
}

func TestFinalize_ListsAllMissingFields(t *testing.T) {
	in := validInput()
	in.Nome, in.Endereco, in.Bairro, in.Pagamento = "", "", "", ""

	_, err := Finalize(in, finalizeNow)
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"nome", "endereço", "bairro", "forma de pagamento"}, missing.Campos)
}

func TestFinalize_PickupSkipsAddressAndFee(t *testing.T) {
	in := validInput()
	in.Entrega, in.Endereco, in.Bairro = false, "", ""
	in.Pagamento = "dinheiro"

	order, err := Finalize(in, finalizeNow)
	require.NoError(t, err)
	assert.Zero(t, order.TaxaEntrega)
	assert.Equal(t, order.Subtotal, order.Total)
}

func TestFinalize_UndeliverableNeighborhood(t *testing.T) {
	in := validInput()
	in.Bairro = "Unknown District"
	_, err := Finalize(in, finalizeNow)
	assert.ErrorIs(t, err, ErrUndeliverable)
}

func TestFinalize_PixRejectedForWeightVariableCart(t *testing.T) {
	in := validInput()
	frango := quotedItem("Frango Inteiro", "Aves", 2.2, 12.99)
	frango.Aproximado = true
	in.Itens = append(in.Itens, frango)

	_, err := Finalize(in, finalizeNow)
	assert.ErrorIs(t, err, ErrPrepaymentNotAllowed)

	in.Pagamento = "cartão"
	order, err := Finalize(in, finalizeNow)
	require.NoError(t, err)
	assert.True(t, order.Aproximado)
}

func TestFinalize_UnconfirmedPrice(t *testing.T) {
	t.Run("never quoted", func(t *testing.T) {
		in := validInput()
		in.Itens[1].CotadoEm = time.Time{}
		_, err := Finalize(in, finalizeNow)
		require.ErrorIs(t, err, ErrUnconfirmedPrice)
		var ue *UnconfirmedPriceError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "Feijão Carioca", ue.Item)
	})

	t.Run("quote older than window", func(t *testing.T) {
		in := validInput()
		in.Itens[0].CotadoEm = finalizeNow.Add(-16 * time.Minute)
		_, err := Finalize(in, finalizeNow)
		assert.ErrorIs(t, err, ErrUnconfirmedPrice)
	})

	t.Run("zero price", func(t *testing.T) {
		in := validInput()
		in.Itens[0].PrecoUnitario = 0
		_, err := Finalize(in, finalizeNow)
		assert.ErrorIs(t, err, ErrUnconfirmedPrice)
	})
}

func TestSubtotal(t *testing.T) {
	assert.Equal(t, 0.0, Subtotal(nil))
	assert.Equal(t, 58.29, Subtotal(validInput().Itens))
}
