package rules

import "mercadoia/internal/model"

// MergeItem inclui item na lista. Mesmo EAN na mesma unidade soma a
// quantidade e reprecifica a linha pelo preço mais recente.
func MergeItem(itens []model.CartItem, item model.CartItem) []model.CartItem {
	for i := range itens {
		existing := &itens[i]
		if existing.EAN == item.EAN && existing.Unidade == item.Unidade {
			existing.Quantidade += item.Quantidade
			existing.PrecoUnitario = item.PrecoUnitario
			existing.PrecoLinha = RoundCents(existing.Quantidade * existing.PrecoUnitario)
			existing.Aproximado = existing.Aproximado || item.Aproximado
			existing.CotadoEm = item.CotadoEm
			return itens
		}
	}
	return append(itens, item)
}

// QuantityOf soma o que já está na lista para o EAN na unidade dada.
func QuantityOf(itens []model.CartItem, ean string, unidade string) float64 {
	var total float64
	for _, it := range itens {
		if it.EAN == ean && it.Unidade == unidade {
			total += it.Quantidade
		}
	}
	return total
}
