package rules

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mercadoia/internal/model"
)

var (
	ErrEmptyCart        = errors.New("carrinho vazio")
	ErrUnconfirmedPrice = errors.New("preço não confirmado por consulta de estoque")
	ErrMissingFields    = errors.New("faltam dados para finalizar o pedido")
)

type UnconfirmedPriceError struct {
	Item string
}

func (e *UnconfirmedPriceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnconfirmedPrice, e.Item)
}

func (e *UnconfirmedPriceError) Is(target error) bool {
	return target == ErrUnconfirmedPrice
}

type MissingFieldsError struct {
	Campos []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFields, strings.Join(e.Campos, ", "))
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingFields
}

type FinalizeInput struct {
	Cliente    string
	Itens      []model.CartItem
	Nome       string
	Endereco   string
	Bairro     string
	Entrega    bool
	Pagamento  string
	Observacao string
}

// Finalize monta o pedido a partir do carrinho. A ordem das checagens é
// fixa: carrinho, preços, subtotal, taxa, pagamento, campos obrigatórios.
// O ID fica a cargo de quem persiste.
func Finalize(in FinalizeInput, now time.Time) (model.Order, error) {
	if len(in.Itens) == 0 {
		return model.Order{}, ErrEmptyCart
	}

	var subtotal float64
	aproximado := false
	for _, it := range in.Itens {
		if it.PrecoUnitario <= 0 || !QuoteFresh(it.CotadoEm, now) {
			return model.Order{}, &UnconfirmedPriceError{Item: it.Nome}
		}
		subtotal += it.PrecoLinha
		aproximado = aproximado || it.Aproximado
	}
	subtotal = RoundCents(subtotal)

	var fee Fee
	if in.Entrega && strings.TrimSpace(in.Bairro) != "" {
		f, err := ResolveFee(in.Bairro)
		if err != nil {
			return model.Order{}, err
		}
		fee = f
	}

	var metodo model.PaymentMethod
	if strings.TrimSpace(in.Pagamento) != "" {
		m, err := ParsePaymentMethod(in.Pagamento)
		if err != nil {
			return model.Order{}, err
		}
		if err := CheckPayment(in.Itens, m); err != nil {
			return model.Order{}, err
		}
		metodo = m
	}

	var missing []string
	if strings.TrimSpace(in.Nome) == "" {
		missing = append(missing, "nome")
	}
	if in.Entrega {
		if strings.TrimSpace(in.Endereco) == "" {
			missing = append(missing, "endereço")
		}
		if strings.TrimSpace(in.Bairro) == "" {
			missing = append(missing, "bairro")
		}
	}
	if metodo == "" {
		missing = append(missing, "forma de pagamento")
	}
	if len(missing) > 0 {
		return model.Order{}, &MissingFieldsError{Campos: missing}
	}

	itens := make([]model.CartItem, len(in.Itens))
	copy(itens, in.Itens)

	bairro := strings.TrimSpace(in.Bairro)
	if fee.Bairro != "" {
		bairro = fee.Bairro
	}

	return model.Order{
		Cliente:     in.Cliente,
		Itens:       itens,
		Nome:        strings.TrimSpace(in.Nome),
		Endereco:    strings.TrimSpace(in.Endereco),
		Bairro:      bairro,
		Entrega:     in.Entrega,
		TaxaEntrega: fee.Taxa,
		Pagamento:   metodo,
		Subtotal:    subtotal,
		Total:       RoundCents(subtotal + fee.Taxa),
		Aproximado:  aproximado,
		Observacao:  strings.TrimSpace(in.Observacao),
		CriadoEm:    now,
	}, nil
}

// Subtotal soma as linhas do carrinho.
func Subtotal(itens []model.CartItem) float64 {
	var s float64
	for _, it := range itens {
		s += it.PrecoLinha
	}
	return RoundCents(s)
}
