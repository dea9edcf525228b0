package stock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadoia/internal/model"
)

type fakeSource struct {
	prices   map[string]float64
	inflight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeSource) Lookup(ctx context.Context, ean string) (model.StockEntry, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	p, ok := f.prices[ean]
	if !ok {
		return model.StockEntry{}, ErrNotFound
	}
	return model.StockEntry{EAN: ean, Preco: p, Quantidade: 1}, nil
}

func TestLookupBatch_PreservesOrderAndErrors(t *testing.T) {
	src := &fakeSource{prices: map[string]float64{"a": 1, "b": 2, "d": 4}}

	res := LookupBatch(context.Background(), src, []string{"a", "b", "c", "d"}, 3)

	require.Len(t, res, 4)
	assert.Equal(t, "a", res[0].EAN)
	assert.Equal(t, 2.0, res[1].Entry.Preco)
	assert.ErrorIs(t, res[2].Err, ErrNotFound)
	assert.Equal(t, 4.0, res[3].Entry.Preco)
}

func TestLookupBatch_BoundedConcurrency(t *testing.T) {
	src := &fakeSource{prices: map[string]float64{}}
	eans := make([]string, 20)
	for i := range eans {
		eans[i] = string(rune('a' + i))
	}

	LookupBatch(context.Background(), src, eans, 4)
	assert.LessOrEqual(t, src.peak.Load(), int32(4))
}

func TestLookupBatch_Empty(t *testing.T) {
	assert.Empty(t, LookupBatch(context.Background(), &fakeSource{}, nil, 4))
}
