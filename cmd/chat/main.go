package main

import (
	"context"
	"log"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"mercadoia/internal/app"
	"mercadoia/internal/chat"
	"mercadoia/internal/config"
	"mercadoia/internal/observability"
)

func main() {
	cfg := config.Load()

	deps, err := app.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Erro ao iniciar dependências: %v", err)
	}
	defer deps.Close()

	observability.Start(cfg.MetricsPort)

	agent := &chat.Agent{
		Client:    openai.NewClient(cfg.OpenAIKey),
		Model:     cfg.OpenAIModel,
		Tools:     deps.Tools,
		StoreName: cfg.StoreName,
	}
	sessionStore := &chat.SessionStore{Client: deps.Redis}

	mux := http.NewServeMux()
	mux.Handle("/chat", chat.Handler(sessionStore, deps.Tracker, agent))
	mux.Handle("/health", chat.Health())

	log.Printf("Atendimento %s rodando :%s", cfg.StoreName, cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, mux); err != nil {
		log.Fatal(err)
	}
}
