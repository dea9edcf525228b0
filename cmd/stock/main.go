package main

import (
	"context"
	"errors"
	"log"

	"mercadoia/internal/catalog"
	"mercadoia/internal/config"
	"mercadoia/internal/db"
	"mercadoia/internal/stock"
)

// Atualiza a disponibilidade do catálogo a partir da API de estoque. Preço
// não é gravado: só vale a consulta feita durante a conversa.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	log.Println("Iniciando serviço de atualização de estoque...")

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco de dados: %v", err)
	}
	defer pool.Close()

	repo := &catalog.Repository{DB: pool}

	eans, err := repo.ListEANs(ctx)
	if err != nil {
		log.Fatalf("Erro ao buscar produtos: %v", err)
	}
	log.Printf("Encontrados %d produtos para verificação.", len(eans))

	client := stock.NewClient(cfg.StockAPIURL, cfg.StockAPIKey, cfg.StockTimeout)
	var updated, skipped int
	for _, r := range stock.LookupBatch(ctx, client, eans, cfg.WorkerCount) {
		var disponivel bool
		switch {
		case r.Err == nil:
			disponivel = r.Entry.Quantidade > 0
		case errors.Is(r.Err, stock.ErrNotFound), errors.Is(r.Err, stock.ErrOutOfStock):
			disponivel = false
		default:
			// API fora do ar: mantém o valor anterior
			log.Printf("Erro ao verificar %s: %v", r.EAN, r.Err)
			skipped++
			continue
		}
		if err := repo.UpdateAvailability(ctx, r.EAN, disponivel); err != nil {
			log.Printf("Erro ao atualizar estoque para %s: %v", r.EAN, err)
			continue
		}
		updated++
	}

	log.Printf("Atualização de estoque finalizada: %d atualizados, %d ignorados.", updated, skipped)
}
