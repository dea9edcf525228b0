package crawler

import (
	"context"
	"log"
	"sync"

	"mercadoia/internal/catalog"
)

// CrawlPages percorre várias vitrines com até workers em paralelo. handler
// pode ser chamado de goroutines diferentes.
func CrawlPages(ctx context.Context, urls []string, workers int, handler func(catalog.Product)) int {
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan string)
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				n, err := CrawlCategory(ctx, u, handler)
				if err != nil {
					log.Println("Erro crawler:", err)
				}
				mu.Lock()
				total += n
				mu.Unlock()
			}
		}()
	}

	for _, u := range urls {
		jobs <- u
	}
	close(jobs)
	wg.Wait()
	return total
}
