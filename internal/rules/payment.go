package rules

import (
	"errors"
	"fmt"

	"mercadoia/internal/model"
)

var (
	ErrPrepaymentNotAllowed = errors.New("pix antecipado não permitido para itens de peso variável")
	ErrUnknownPaymentMethod = errors.New("forma de pagamento desconhecida")
)

// categorias cujo preço final sai na balança
var weightVariableCategories = map[string]bool{
	"carne":      true,
	"carnes":     true,
	"acougue":    true,
	"ave":        true,
	"aves":       true,
	"frango":     true,
	"peixe":      true,
	"peixes":     true,
	"pescados":   true,
	"hortifruti": true,
	"frutas":     true,
	"verduras":   true,
	"legumes":    true,
}

// IsWeightVariable informa se a linha do carrinho tem preço definido na
// balança.
func IsWeightVariable(item model.CartItem) bool {
	return item.VendidoPorPeso || IsWeightVariableCategory(item.Categoria)
}

func IsWeightVariableCategory(categoria string) bool {
	return weightVariableCategories[Normalize(categoria)]
}

// AdvanceElectronicPaymentAllowed é falso se qualquer item do carrinho for
// de peso variável.
func AdvanceElectronicPaymentAllowed(itens []model.CartItem) bool {
	for _, it := range itens {
		if IsWeightVariable(it) {
			return false
		}
	}
	return true
}

func ParsePaymentMethod(s string) (model.PaymentMethod, error) {
	switch Normalize(s) {
	case "pix":
		return model.PagamentoPix, nil
	case "cartao", "cartao de credito", "cartao de debito", "credito", "debito":
		return model.PagamentoCartao, nil
	case "dinheiro", "especie":
		return model.PagamentoDinheiro, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, s)
}

// CheckPayment aplica a regra do pix: carrinho com item de peso variável só
// paga na entrega.
func CheckPayment(itens []model.CartItem, metodo model.PaymentMethod) error {
	switch metodo {
	case model.PagamentoPix:
		if !AdvanceElectronicPaymentAllowed(itens) {
			return ErrPrepaymentNotAllowed
		}
	case model.PagamentoCartao, model.PagamentoDinheiro:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, metodo)
	}
	return nil
}
