package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"mercadoia/internal/cart"
	"mercadoia/internal/catalog"
	"mercadoia/internal/config"
	"mercadoia/internal/db"
	"mercadoia/internal/order"
	"mercadoia/internal/repository"
	"mercadoia/internal/rules"
	"mercadoia/internal/stock"
	"mercadoia/internal/tools"
)

// Deps junta as conexões e serviços usados pelos binários de atendimento.
type Deps struct {
	Pool    *pgxpool.Pool
	SQL     *sql.DB
	Redis   *redis.Client
	Catalog *catalog.Repository
	Carts   *cart.Store
	Tracker *cart.Tracker
	Orders  *order.Service
	Tools   *tools.Service
}

// Open conecta no Postgres e no Redis, aplica as migrações e monta o
// serviço de ferramentas.
func Open(ctx context.Context, cfg *config.Config) (*Deps, error) {
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres (pgxpool): %w", err)
	}

	conn, err := db.New(cfg.DatabaseURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres (lib/pq): %w", err)
	}
	if err := db.Migrate(ctx, conn); err != nil {
		pool.Close()
		conn.Close()
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	if err := rdb.Ping(ctx).Err(); err != nil {
		pool.Close()
		conn.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	d := &Deps{
		Pool:    pool,
		SQL:     conn,
		Redis:   rdb,
		Catalog: &catalog.Repository{DB: pool},
	}
	d.Carts = &cart.Store{Client: rdb}
	d.Tracker = &cart.Tracker{Store: d.Carts}
	d.Orders = &order.Service{
		Repo:    &repository.OrderRepository{DB: conn},
		Carts:   d.Carts,
		Tracker: d.Tracker,
	}
	d.Tools = &tools.Service{
		Catalog: d.Catalog,
		Stock:   stock.NewClient(cfg.StockAPIURL, cfg.StockAPIKey, cfg.StockTimeout),
		Carts:   d.Carts,
		Tracker: d.Tracker,
		Orders:  d.Orders,
		PixKey:  cfg.PixKey,
		Workers: cfg.WorkerCount,
	}

	LogFeeConflicts()
	return d, nil
}

func (d *Deps) Close() {
	d.Redis.Close()
	d.SQL.Close()
	d.Pool.Close()
}

// LogFeeConflicts avisa na subida quais bairros têm taxa divergente entre as
// tabelas conhecidas.
func LogFeeConflicts() {
	for _, c := range rules.FeeTableConflicts() {
		log.Printf("[Frete] tabela divergente: %s (%s)", c.Bairro, c.Motivo)
	}
}
