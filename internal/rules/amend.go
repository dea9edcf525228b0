package rules

import (
	"strings"
	"time"

	"mercadoia/internal/model"
)

// OrderChanges é o que o cliente pede para mudar num pedido ainda editável.
// Texto vazio mantém o valor atual. Entrega=true passa um pedido de
// retirada para entrega; o contrário não é pedido por aqui.
type OrderChanges struct {
	Itens      []model.CartItem
	Nome       string
	Endereco   string
	Bairro     string
	Entrega    bool
	Pagamento  string
	Observacao string
}

// Amend aplica as mudanças ao pedido e recalcula taxa e totais. Devolve
// false quando nada mudou. Fora da janela devolve ErrOrderFrozen, sem
// olhar as mudanças.
func Amend(o model.Order, ch OrderChanges, now time.Time) (model.Order, bool, error) {
	if err := CheckAmend(o, now); err != nil {
		return model.Order{}, false, err
	}

	changed := false
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" && v != *dst {
			*dst = v
			changed = true
		}
	}
	set(&o.Nome, ch.Nome)
	set(&o.Endereco, ch.Endereco)
	set(&o.Observacao, ch.Observacao)

	if strings.TrimSpace(ch.Pagamento) != "" {
		m, err := ParsePaymentMethod(ch.Pagamento)
		if err != nil {
			return model.Order{}, false, err
		}
		if m != o.Pagamento {
			o.Pagamento = m
			changed = true
		}
	}

	refee := false
	if ch.Entrega && !o.Entrega {
		o.Entrega = true
		refee = true
	}
	if b := strings.TrimSpace(ch.Bairro); b != "" && Normalize(b) != Normalize(o.Bairro) {
		o.Bairro = b
		refee = true
	}
	if refee {
		changed = true
		if o.Entrega {
			var missing []string
			if o.Endereco == "" {
				missing = append(missing, "endereço")
			}
			if o.Bairro == "" {
				missing = append(missing, "bairro")
			}
			if len(missing) > 0 {
				return model.Order{}, false, &MissingFieldsError{Campos: missing}
			}
			fee, err := ResolveFee(o.Bairro)
			if err != nil {
				return model.Order{}, false, err
			}
			o.Bairro = fee.Bairro
			o.TaxaEntrega = fee.Taxa
		}
	}

	itens := make([]model.CartItem, len(o.Itens))
	copy(itens, o.Itens)
	for _, it := range ch.Itens {
		if it.PrecoUnitario <= 0 || !QuoteFresh(it.CotadoEm, now) {
			return model.Order{}, false, &UnconfirmedPriceError{Item: it.Nome}
		}
		itens = MergeItem(itens, it)
		changed = true
	}
	if !changed {
		return o, false, nil
	}

	// a forma de pagamento vale para o pedido inteiro, itens novos incluídos
	if err := CheckPayment(itens, o.Pagamento); err != nil {
		return model.Order{}, false, err
	}

	o.Itens = itens
	o.Subtotal = Subtotal(itens)
	o.Total = RoundCents(o.Subtotal + o.TaxaEntrega)
	o.Aproximado = false
	for _, it := range itens {
		o.Aproximado = o.Aproximado || it.Aproximado
	}
	return o, true, nil
}
