package main

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"mercadoia/internal/app"
	"mercadoia/internal/config"
	"mercadoia/internal/mcpserver"
)

// Expõe as ferramentas de atendimento via MCP em stdio. Logs vão para
// stderr para não misturar com o protocolo.
func main() {
	cfg := config.Load()

	deps, err := app.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Erro ao iniciar dependências: %v", err)
	}
	defer deps.Close()

	if err := server.ServeStdio(mcpserver.New(deps.Tools)); err != nil {
		log.Fatalf("Erro no servidor MCP: %v", err)
	}
}
