package model

import "time"

type PaymentMethod string

const (
	PagamentoPix      PaymentMethod = "pix"
	PagamentoCartao   PaymentMethod = "cartao"
	PagamentoDinheiro PaymentMethod = "dinheiro"
)

type Order struct {
	ID          string        `json:"id"`
	Cliente     string        `json:"cliente"`
	Itens       []CartItem    `json:"itens"`
	Nome        string        `json:"nome"`
	Endereco    string        `json:"endereco"`
	Bairro      string        `json:"bairro"`
	Entrega     bool          `json:"entrega"`
	TaxaEntrega float64       `json:"taxa_entrega"`
	Pagamento   PaymentMethod `json:"pagamento"`
	Subtotal    float64       `json:"subtotal"`
	Total       float64       `json:"total"`
	Aproximado  bool          `json:"aproximado"`
	Observacao  string        `json:"observacao,omitempty"`
	CriadoEm    time.Time     `json:"criado_em"`
}
