package stock

import (
	"context"
	"sync"

	"mercadoia/internal/model"
)

type BatchResult struct {
	EAN   string
	Entry model.StockEntry
	Err   error
}

// LookupBatch consulta vários EANs com no máximo workers chamadas em
// paralelo. O resultado segue a ordem de entrada.
func LookupBatch(ctx context.Context, src Source, eans []string, workers int) []BatchResult {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(eans) {
		workers = len(eans)
	}

	type job struct {
		idx int
		ean string
	}

	results := make([]BatchResult, len(eans))
	jobs := make(chan job)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				entry, err := src.Lookup(ctx, j.ean)
				results[j.idx] = BatchResult{EAN: j.ean, Entry: entry, Err: err}
			}
		}()
	}

	for i, ean := range eans {
		jobs <- job{idx: i, ean: ean}
	}
	close(jobs)
	wg.Wait()

	return results
}
