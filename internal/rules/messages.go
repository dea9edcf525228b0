package rules

import (
	"errors"
	"fmt"
	"strings"
)

const (
	FrozenOrderMessage  = "Seu pedido já foi enviado para separação/entrega e não pode mais ser alterado. Posso abrir um novo pedido para você."
	PrepaymentMessage   = "Como seu pedido tem itens vendidos por peso (carnes, frango ou hortifrúti), o valor final só sai na balança. Por isso o pagamento é feito na entrega, no cartão ou em dinheiro."
	EmptyCartMessage    = "Seu carrinho ainda está vazio. Me diga o que você precisa que eu separo para você."
	UnavailableMessage  = "Esse produto não está disponível no momento."
	UnknownErrorMessage = "Não consegui concluir essa etapa agora. Pode tentar de novo em instantes?"
)

// UserMessage traduz um erro de regra de negócio na frase mostrada ao
// cliente. Nenhum desses erros encerra a conversa.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var undeliverable *UndeliverableError
	var missing *MissingFieldsError
	var unconfirmed *UnconfirmedPriceError

	switch {
	case errors.As(err, &undeliverable):
		return fmt.Sprintf("Infelizmente ainda não entregamos no bairro %s. Se preferir, você pode retirar o pedido na loja.", strings.TrimSpace(undeliverable.Bairro))
	case errors.As(err, &missing):
		return fmt.Sprintf("Para fechar o pedido preciso de: %s.", strings.Join(missing.Campos, ", "))
	case errors.As(err, &unconfirmed):
		return fmt.Sprintf("Preciso confirmar de novo o preço de %s antes de fechar o pedido.", unconfirmed.Item)
	case errors.Is(err, ErrOrderFrozen):
		return FrozenOrderMessage
	case errors.Is(err, ErrPrepaymentNotAllowed):
		return PrepaymentMessage
	case errors.Is(err, ErrEmptyCart):
		return EmptyCartMessage
	case errors.Is(err, ErrUnknownPaymentMethod):
		return "Aceitamos Pix, cartão (débito ou crédito) ou dinheiro. Qual prefere?"
	case errors.Is(err, ErrUnknownWeightCategory):
		return "Não tenho o peso médio desse item. Você pode me dizer a quantidade em quilos?"
	case errors.Is(err, ErrInvalidQuantity):
		return "A quantidade precisa ser maior que zero."
	}
	return UnknownErrorMessage
}
