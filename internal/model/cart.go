package model

import "time"

const (
	UnidadeUn = "un"
	UnidadeKg = "kg"
)

type CartItem struct {
	EAN            string    `json:"ean"`
	Nome           string    `json:"nome"`
	Categoria      string    `json:"categoria"`
	VendidoPorPeso bool      `json:"vendido_por_peso"`
	Quantidade     float64   `json:"quantidade"`
	Unidade        string    `json:"unidade"`
	PrecoUnitario  float64   `json:"preco_unitario"`
	PrecoLinha     float64   `json:"preco_linha"`
	Aproximado     bool      `json:"aproximado"`
	CotadoEm       time.Time `json:"cotado_em"`
}

type Cart struct {
	Cliente      string     `json:"cliente"`
	Itens        []CartItem `json:"itens"`
	AtualizadoEm time.Time  `json:"atualizado_em"`
}

func (c *Cart) Empty() bool {
	return c == nil || len(c.Itens) == 0
}
