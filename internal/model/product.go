package model

import "time"

// Candidate é um produto devolvido pela busca no catálogo.
type Candidate struct {
	Nome           string `json:"nome"`
	EAN            string `json:"ean"`
	Categoria      string `json:"categoria"`
	VendidoPorPeso bool   `json:"vendido_por_peso"`
}

// StockEntry é a leitura do estoque para um EAN. Nunca é reaproveitada
// depois da janela de cotação.
type StockEntry struct {
	EAN          string    `json:"ean"`
	Preco        float64   `json:"preco"`
	Quantidade   float64   `json:"quantidade"`
	ConsultadoEm time.Time `json:"consultado_em"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
