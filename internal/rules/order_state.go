package rules

import (
	"errors"
	"time"

	"mercadoia/internal/model"
)

var ErrOrderFrozen = errors.New("pedido já enviado para separação/entrega")

type OrderState string

const (
	Editavel  OrderState = "editavel"
	Congelado OrderState = "congelado"
)

// State devolve Editavel dentro da janela de alteração e Congelado depois.
// A transição é só de ida.
func State(o model.Order, now time.Time) OrderState {
	if now.Sub(o.CriadoEm) < SessionWindow {
		return Editavel
	}
	return Congelado
}

func CheckAmend(o model.Order, now time.Time) error {
	if State(o, now) == Congelado {
		return ErrOrderFrozen
	}
	return nil
}

// AmendDeadline é o último instante em que o pedido aceita alteração.
func AmendDeadline(o model.Order) time.Time {
	return o.CriadoEm.Add(SessionWindow)
}
