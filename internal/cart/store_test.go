package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadoia/internal/model"
)

var now = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &Store{Client: client}, mr
}

func TestStore_GetEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	c, err := s.Get(context.Background(), "5585999990000")
	require.NoError(t, err)
	assert.Equal(t, "5585999990000", c.Cliente)
	assert.True(t, c.Empty())
}

func TestStore_AddItemMergesSameEAN(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	arroz := model.CartItem{EAN: "7891", Nome: "Arroz Tipo 1", Quantidade: 1, Unidade: model.UnidadeUn, PrecoUnitario: 24.90, PrecoLinha: 24.90, CotadoEm: now}
	_, err := s.AddItem(ctx, "c1", arroz, now)
	require.NoError(t, err)

	arroz.Quantidade = 2
	arroz.PrecoLinha = 49.80
	c, err := s.AddItem(ctx, "c1", arroz, now.Add(time.Minute))
	require.NoError(t, err)

	require.Len(t, c.Itens, 1)
	assert.Equal(t, 3.0, c.Itens[0].Quantidade)
	assert.Equal(t, 74.70, c.Itens[0].PrecoLinha)
	assert.Equal(t, now.Add(time.Minute), c.AtualizadoEm)

	feijao := model.CartItem{EAN: "7892", Nome: "Feijão", Quantidade: 1, Unidade: model.UnidadeUn, PrecoUnitario: 8.49, PrecoLinha: 8.49, CotadoEm: now}
	c, err = s.AddItem(ctx, "c1", feijao, now)
	require.NoError(t, err)
	assert.Len(t, c.Itens, 2)

	stored, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, stored.Itens, 2)
}

func TestStore_RemoveAndClear(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, "c1", model.CartItem{EAN: "7891", Quantidade: 1}, now)
	require.NoError(t, err)

	_, err = s.RemoveItem(ctx, "c1", "0000", now)
	assert.ErrorIs(t, err, ErrItemNotFound)

	c, err := s.RemoveItem(ctx, "c1", "7891", now)
	require.NoError(t, err)
	assert.True(t, c.Empty())

	_, err = s.AddItem(ctx, "c1", model.CartItem{EAN: "7891", Quantidade: 1}, now)
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx, "c1"))

	c, err = s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestStore_QuoteExpires(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	q := Quote{EAN: "7891", Nome: "Arroz Tipo 1", Preco: 24.90, Quantidade: 30, ConsultadoEm: now}
	require.NoError(t, s.SaveQuote(ctx, "c1", q))

	got, err := s.GetQuote(ctx, "c1", "7891", now.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 24.90, got.Preco)

	// a cotação pertence ao cliente
	_, err = s.GetQuote(ctx, "c2", "7891", now)
	assert.ErrorIs(t, err, ErrNoQuote)

	// vencida pelo relógio da aplicação, mesmo que a chave ainda exista
	_, err = s.GetQuote(ctx, "c1", "7891", now.Add(16*time.Minute))
	assert.ErrorIs(t, err, ErrNoQuote)

	// e removida pelo TTL do redis
	mr.FastForward(16 * time.Minute)
	_, err = s.GetQuote(ctx, "c1", "7891", now)
	assert.ErrorIs(t, err, ErrNoQuote)
}
