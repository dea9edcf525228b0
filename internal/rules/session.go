package rules

import "time"

const (
	// SessionWindow separa "continuação do pedido" de "pedido novo" e é
	// também a janela de alteração de um pedido finalizado.
	SessionWindow = 15 * time.Minute

	// QuoteTTL é a validade de uma consulta de preço/estoque.
	QuoteTTL = 15 * time.Minute
)

// ContinuesOrder informa se uma mensagem recebida em now continua o pedido
// concluído em lastCompletion. Exatamente 15 minutos já é pedido novo.
func ContinuesOrder(lastCompletion, now time.Time) bool {
	if lastCompletion.IsZero() {
		return false
	}
	return now.Sub(lastCompletion) < SessionWindow
}

// QuoteFresh informa se uma cotação feita em quotedAt ainda vale em now.
func QuoteFresh(quotedAt, now time.Time) bool {
	if quotedAt.IsZero() {
		return false
	}
	return now.Sub(quotedAt) < QuoteTTL
}
