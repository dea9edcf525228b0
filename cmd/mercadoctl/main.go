package main

import (
	"fmt"
	"log"
	"os"

	"mercadoia/internal/cli"
	"mercadoia/internal/config"
	"mercadoia/internal/db"
	"mercadoia/internal/repository"
)

func main() {
	cfg := config.Load()

	a := &cli.App{}
	if cfg.DatabaseURL != "" {
		conn, err := db.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Não foi possível conectar ao banco de dados: %v", err)
		}
		defer conn.Close()
		a.Orders = &repository.OrderRepository{DB: conn}
	}

	if err := cli.NewRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
