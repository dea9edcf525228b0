package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"mercadoia/internal/catalog"
	"mercadoia/internal/config"
	"mercadoia/internal/crawler"
	"mercadoia/internal/db"
	"mercadoia/internal/observability"
)

// go run ./cmd/crawler -urls="https://loja/hortifruti,https://loja/acougue"
func main() {
	urlsArg := flag.String("urls", "", "Vitrines separadas por vírgula (padrão: CATALOG_URLS)")
	workers := flag.Int("workers", 0, "Vitrines em paralelo (padrão: WORKER_COUNT)")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	urls := cfg.CatalogURLs
	if *urlsArg != "" {
		urls = nil
		for _, u := range strings.Split(*urlsArg, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
	}
	if len(urls) == 0 {
		log.Fatal("Nenhuma vitrine informada (use -urls ou CATALOG_URLS)")
	}
	if *workers <= 0 {
		*workers = cfg.WorkerCount
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco de dados: %v", err)
	}
	defer pool.Close()

	conn, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco de dados: %v", err)
	}
	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatalf("Erro nas migrações: %v", err)
	}
	conn.Close()

	observability.Register()
	repo := &catalog.Repository{DB: pool}

	handler := func(p catalog.Product) {
		if err := repo.Upsert(ctx, p); err != nil {
			log.Printf("[Crawler] erro ao salvar %s: %v", p.EAN, err)
			return
		}
		observability.CatalogProductsImported.Inc()
	}

	total := crawler.CrawlPages(ctx, urls, *workers, handler)
	log.Printf("Crawler finalizado: %d produtos em %d vitrines", total, len(urls))
}
