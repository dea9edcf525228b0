package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mercadoia/internal/model"
	"mercadoia/internal/rules"
)

const (
	cartTTL   = 2 * time.Hour
	markerTTL = 24 * time.Hour
)

var (
	ErrNoQuote      = errors.New("nenhuma cotação válida para o produto")
	ErrItemNotFound = errors.New("item não está no carrinho")
)

// Quote é o resultado de uma consulta de estoque guardado para o cliente.
// Só vale dentro de rules.QuoteTTL.
type Quote struct {
	EAN            string    `json:"ean"`
	Nome           string    `json:"nome"`
	Categoria      string    `json:"categoria"`
	VendidoPorPeso bool      `json:"vendido_por_peso"`
	Preco          float64   `json:"preco"`
	Quantidade     float64   `json:"quantidade"`
	ConsultadoEm   time.Time `json:"consultado_em"`
}

type Store struct {
	Client *redis.Client
}

func cartKey(cliente string) string       { return "carrinho:" + cliente }
func quoteKey(cliente, ean string) string { return "cotacao:" + cliente + ":" + ean }
func markerKey(cliente string) string     { return "ultimo_pedido:" + cliente }

func (s *Store) Get(ctx context.Context, cliente string) (model.Cart, error) {
	val, err := s.Client.Get(ctx, cartKey(cliente)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Cart{Cliente: cliente}, nil
	}
	if err != nil {
		return model.Cart{}, fmt.Errorf("lendo carrinho de %s: %w", cliente, err)
	}

	var c model.Cart
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return model.Cart{}, fmt.Errorf("decodificando carrinho de %s: %w", cliente, err)
	}
	return c, nil
}

func (s *Store) Save(ctx context.Context, c model.Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, cartKey(c.Cliente), b, cartTTL).Err()
}

// AddItem inclui a linha no carrinho. Mesmo EAN na mesma unidade soma a
// quantidade e recalcula o preço da linha.
func (s *Store) AddItem(ctx context.Context, cliente string, item model.CartItem, now time.Time) (model.Cart, error) {
	c, err := s.Get(ctx, cliente)
	if err != nil {
		return model.Cart{}, err
	}

	c.Itens = rules.MergeItem(c.Itens, item)
	c.Cliente = cliente
	c.AtualizadoEm = now

	if err := s.Save(ctx, c); err != nil {
		return model.Cart{}, err
	}
	return c, nil
}

func (s *Store) RemoveItem(ctx context.Context, cliente, ean string, now time.Time) (model.Cart, error) {
	c, err := s.Get(ctx, cliente)
	if err != nil {
		return model.Cart{}, err
	}
	for i, it := range c.Itens {
		if it.EAN == ean {
			c.Itens = append(c.Itens[:i], c.Itens[i+1:]...)
			c.AtualizadoEm = now
			return c, s.Save(ctx, c)
		}
	}
	return c, ErrItemNotFound
}

func (s *Store) Clear(ctx context.Context, cliente string) error {
	return s.Client.Del(ctx, cartKey(cliente)).Err()
}

func (s *Store) SaveQuote(ctx context.Context, cliente string, q Quote) error {
	b, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, quoteKey(cliente, q.EAN), b, rules.QuoteTTL).Err()
}

// GetQuote devolve a cotação do EAN se ela ainda vale em now.
func (s *Store) GetQuote(ctx context.Context, cliente, ean string, now time.Time) (Quote, error) {
	val, err := s.Client.Get(ctx, quoteKey(cliente, ean)).Result()
	if errors.Is(err, redis.Nil) {
		return Quote{}, ErrNoQuote
	}
	if err != nil {
		return Quote{}, fmt.Errorf("lendo cotação %s: %w", ean, err)
	}

	var q Quote
	if err := json.Unmarshal([]byte(val), &q); err != nil {
		return Quote{}, fmt.Errorf("decodificando cotação %s: %w", ean, err)
	}
	if !rules.QuoteFresh(q.ConsultadoEm, now) {
		return Quote{}, ErrNoQuote
	}
	return q, nil
}
