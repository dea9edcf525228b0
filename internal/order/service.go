package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"mercadoia/internal/cart"
	"mercadoia/internal/model"
	"mercadoia/internal/observability"
	"mercadoia/internal/rules"
)

// Repository é onde os pedidos ficam gravados.
type Repository interface {
	Save(ctx context.Context, o model.Order) error
	Get(ctx context.Context, id string) (model.Order, error)
	Latest(ctx context.Context, cliente string) (model.Order, error)
	Update(ctx context.Context, o model.Order) error
}

// FinalizeRequest são os dados que o cliente informa para fechar o pedido.
type FinalizeRequest struct {
	Nome       string `json:"nome"`
	Endereco   string `json:"endereco"`
	Bairro     string `json:"bairro"`
	Entrega    bool   `json:"entrega"`
	Pagamento  string `json:"pagamento"`
	Observacao string `json:"observacao"`
	// Alterar indica que o cliente quer mudar o último pedido, não abrir um
	// novo.
	Alterar bool `json:"alterar_pedido"`
}

type Service struct {
	Repo    Repository
	Carts   *cart.Store
	Tracker *cart.Tracker
	NewID   func() string
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Finalize fecha o carrinho do cliente em um pedido. Em caso de sucesso o
// carrinho é limpo e a janela de alteração começa a contar.
func (s *Service) Finalize(ctx context.Context, cliente string, req FinalizeRequest, now time.Time) (model.Order, error) {
	c, err := s.Carts.Get(ctx, cliente)
	if err != nil {
		return model.Order{}, err
	}

	o, err := rules.Finalize(rules.FinalizeInput{
		Cliente:    cliente,
		Itens:      c.Itens,
		Nome:       req.Nome,
		Endereco:   req.Endereco,
		Bairro:     req.Bairro,
		Entrega:    req.Entrega,
		Pagamento:  req.Pagamento,
		Observacao: req.Observacao,
	}, now)
	if err != nil {
		observability.OrdersRejectedTotal.WithLabelValues(RejectReason(err)).Inc()
		log.Printf("[Pedido] Finalização bloqueada para %s: %v", cliente, err)
		return model.Order{}, err
	}
	o.ID = s.newID()

	if err := s.Repo.Save(ctx, o); err != nil {
		return model.Order{}, err
	}
	if err := s.Carts.Clear(ctx, cliente); err != nil {
		log.Printf("[Pedido] Erro ao limpar carrinho de %s: %v", cliente, err)
	}
	if err := s.Tracker.MarkCompleted(ctx, cliente, o.ID, now); err != nil {
		log.Printf("[Pedido] Erro ao marcar pedido %s: %v", o.ID, err)
	}

	observability.OrdersFinalizedTotal.Inc()
	log.Printf("[Pedido] Pedido %s finalizado: cliente=%s total=%.2f entrega=%v pagamento=%s", o.ID, cliente, o.Total, o.Entrega, o.Pagamento)
	return o, nil
}

// Amend aplica itens novos e mudanças de dados a um pedido dentro da janela
// de alteração. Devolve false quando nada mudou. Depois da janela o pedido
// está congelado.
func (s *Service) Amend(ctx context.Context, orderID string, itens []model.CartItem, req FinalizeRequest, now time.Time) (model.Order, bool, error) {
	o, err := s.Repo.Get(ctx, orderID)
	if err != nil {
		return model.Order{}, false, err
	}

	amended, changed, err := rules.Amend(o, rules.OrderChanges{
		Itens:      itens,
		Nome:       req.Nome,
		Endereco:   req.Endereco,
		Bairro:     req.Bairro,
		Entrega:    req.Entrega,
		Pagamento:  req.Pagamento,
		Observacao: req.Observacao,
	}, now)
	if err != nil {
		observability.OrdersRejectedTotal.WithLabelValues(RejectReason(err)).Inc()
		log.Printf("[Pedido] Alteração do pedido %s bloqueada: %v", orderID, err)
		return model.Order{}, false, err
	}
	if !changed {
		return o, false, nil
	}

	if err := s.Repo.Update(ctx, amended); err != nil {
		return model.Order{}, false, err
	}
	log.Printf("[Pedido] Pedido %s alterado: %d itens, total=%.2f pagamento=%s", amended.ID, len(amended.Itens), amended.Total, amended.Pagamento)
	return amended, true, nil
}

// AmendFromCart move o carrinho atual para o pedido em aberto, junto com as
// mudanças pedidas, e limpa o carrinho.
func (s *Service) AmendFromCart(ctx context.Context, cliente, orderID string, req FinalizeRequest, now time.Time) (model.Order, bool, error) {
	c, err := s.Carts.Get(ctx, cliente)
	if err != nil {
		return model.Order{}, false, err
	}
	o, changed, err := s.Amend(ctx, orderID, c.Itens, req, now)
	if err != nil {
		return model.Order{}, false, err
	}
	if len(c.Itens) > 0 {
		if err := s.Carts.Clear(ctx, cliente); err != nil {
			log.Printf("[Pedido] Erro ao limpar carrinho de %s: %v", cliente, err)
		}
	}
	return o, changed, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Order, error) {
	return s.Repo.Get(ctx, id)
}

func (s *Service) Latest(ctx context.Context, cliente string) (model.Order, error) {
	return s.Repo.Latest(ctx, cliente)
}

// RejectReason é o rótulo da métrica de pedidos bloqueados.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, rules.ErrEmptyCart):
		return "carrinho_vazio"
	case errors.Is(err, rules.ErrUnconfirmedPrice):
		return "preco_nao_confirmado"
	case errors.Is(err, rules.ErrUndeliverable):
		return "fora_da_area"
	case errors.Is(err, rules.ErrPrepaymentNotAllowed):
		return "pix_antecipado"
	case errors.Is(err, rules.ErrUnknownPaymentMethod):
		return "pagamento_invalido"
	case errors.Is(err, rules.ErrMissingFields):
		return "dados_faltando"
	case errors.Is(err, rules.ErrOrderFrozen):
		return "pedido_congelado"
	}
	return "outro"
}

// Summary é o texto curto do pedido usado nas respostas e no CLI.
func Summary(o model.Order) string {
	s := fmt.Sprintf("Pedido %s - %s\n", o.ID, o.Nome)
	for _, it := range o.Itens {
		s += fmt.Sprintf("- %s: %g %s x R$ %.2f = R$ %.2f\n", it.Nome, it.Quantidade, it.Unidade, it.PrecoUnitario, it.PrecoLinha)
	}
	s += fmt.Sprintf("Subtotal: R$ %.2f\n", o.Subtotal)
	if o.Entrega {
		s += fmt.Sprintf("Entrega em %s, %s: R$ %.2f\n", o.Endereco, o.Bairro, o.TaxaEntrega)
	} else {
		s += "Retirada na loja\n"
	}
	s += fmt.Sprintf("Total: R$ %.2f (%s)", o.Total, o.Pagamento)
	if o.Aproximado {
		s += "\n" + rules.WeightNotice
	}
	return s
}
