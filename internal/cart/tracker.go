package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"mercadoia/internal/rules"
)

// completion é a marca do último pedido. Encerrado indica que a janela já
// passou e o carrinho daquela sessão já foi descartado.
type completion struct {
	PedidoID    string    `json:"pedido_id"`
	ConcluidoEm time.Time `json:"concluido_em"`
	Encerrado   bool      `json:"encerrado,omitempty"`
}

// SessionState diz se a mensagem atual continua o último pedido ou se esse
// pedido já está congelado.
type SessionState struct {
	Continua       bool
	Congelado      bool
	UltimoPedidoID string
	ConcluidoEm    time.Time
}

func stateOf(c completion, now time.Time) SessionState {
	st := SessionState{UltimoPedidoID: c.PedidoID, ConcluidoEm: c.ConcluidoEm}
	if rules.ContinuesOrder(c.ConcluidoEm, now) {
		st.Continua = true
	} else {
		st.Congelado = true
	}
	return st
}

// Contexto é a linha de contexto enviada junto com a mensagem do cliente.
func (s SessionState) Contexto(now time.Time) string {
	switch {
	case s.Continua:
		minutos := int(now.Sub(s.ConcluidoEm).Minutes())
		return fmt.Sprintf(
			"[CONTEXTO] O cliente finalizou o pedido %s há %d min. Alterações nesse pedido são aceitas até %s.",
			s.UltimoPedidoID, minutos, s.ConcluidoEm.Add(rules.SessionWindow).Format("15:04"),
		)
	case s.Congelado:
		return fmt.Sprintf(
			"[CONTEXTO] O pedido %s já foi enviado para separação/entrega e não aceita alterações. Esta conversa é um pedido novo. Se o cliente pedir para alterar o pedido anterior, responda: %q",
			s.UltimoPedidoID, rules.FrozenOrderMessage,
		)
	}
	return ""
}

// Tracker decide, a cada mensagem, entre continuar o último pedido e
// começar um novo.
type Tracker struct {
	Store *Store
}

func (t *Tracker) MarkCompleted(ctx context.Context, cliente, pedidoID string, at time.Time) error {
	b, err := json.Marshal(completion{PedidoID: pedidoID, ConcluidoEm: at})
	if err != nil {
		return err
	}
	return t.Store.Client.Set(ctx, markerKey(cliente), b, markerTTL).Err()
}

func (t *Tracker) lastCompletion(ctx context.Context, cliente string) (completion, bool, error) {
	val, err := t.Store.Client.Get(ctx, markerKey(cliente)).Result()
	if errors.Is(err, redis.Nil) {
		return completion{}, false, nil
	}
	if err != nil {
		return completion{}, false, fmt.Errorf("lendo último pedido de %s: %w", cliente, err)
	}
	var c completion
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return completion{}, false, fmt.Errorf("decodificando último pedido de %s: %w", cliente, err)
	}
	return c, true, nil
}

// State lê a situação da sessão sem descartar nada.
func (t *Tracker) State(ctx context.Context, cliente string, now time.Time) (SessionState, error) {
	last, found, err := t.lastCompletion(ctx, cliente)
	if err != nil || !found {
		return SessionState{}, err
	}
	return stateOf(last, now), nil
}

// Begin é chamado a cada mensagem recebida. Sem pedido anterior o carrinho
// em montagem continua. Na primeira mensagem depois da janela o carrinho é
// descartado; a marca fica, como encerrada, para o pedido continuar
// reconhecido como congelado.
func (t *Tracker) Begin(ctx context.Context, cliente string, now time.Time) (SessionState, error) {
	last, found, err := t.lastCompletion(ctx, cliente)
	if err != nil {
		return SessionState{}, err
	}
	if !found {
		return SessionState{}, nil
	}

	st := stateOf(last, now)
	if st.Continua || last.Encerrado {
		return st, nil
	}

	log.Printf("[Sessao] Pedido %s de %s fora da janela. Iniciando pedido novo.", last.PedidoID, cliente)
	last.Encerrado = true
	b, err := json.Marshal(last)
	if err != nil {
		return SessionState{}, err
	}
	pipe := t.Store.Client.TxPipeline()
	pipe.Del(ctx, cartKey(cliente))
	pipe.Set(ctx, markerKey(cliente), b, markerTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return SessionState{}, fmt.Errorf("limpando sessão de %s: %w", cliente, err)
	}
	return st, nil
}
