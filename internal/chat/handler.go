package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"mercadoia/internal/cart"
	"mercadoia/internal/model"
	"mercadoia/internal/rules"
)

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	FromAgent bool   `json:"from_agent"`
}

type ChatResponse struct {
	Answer   string   `json:"answer,omitempty"`
	Messages []string `json:"messages,omitempty"`
	Status   string   `json:"status"`
}

const (
	StatusOK          = "ok"
	StatusIgnored     = "ignored"
	StatusIgnoredSelf = "ignored_self"
	StatusCooldown    = "cooldown"
)

// Runner é o agente que responde ao cliente.
type Runner interface {
	Run(ctx context.Context, cliente, contexto string, history []model.ChatMessage, userMessage string) (string, error)
}

var nonDigits = regexp.MustCompile(`\D`)

// ClientID reduz o session_id ao número de telefone quando ele tem dígitos.
func ClientID(sessionID string) string {
	if d := nonDigits.ReplaceAllString(sessionID, ""); d != "" {
		return d
	}
	return strings.TrimSpace(sessionID)
}

func Handler(session *SessionStore, tracker *cart.Tracker, agent Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}
		ctx := r.Context()
		cliente := ClientID(req.SessionID)
		text := strings.TrimSpace(req.Message)

		if cliente == "" || text == "" {
			log.Printf("[Chat] Requisição ignorada. SessionID: %q", req.SessionID)
			writeJSON(w, ChatResponse{Status: StatusIgnored})
			return
		}

		if req.FromAgent {
			// atendente humano assumiu a conversa
			if err := session.SetCooldown(ctx, cliente, HumanTakeoverTTL); err != nil {
				log.Printf("[Chat] Erro ao pausar IA para %s: %v", cliente, err)
			}
			if err := session.Append(ctx, cliente, model.ChatMessage{Role: "assistant", Content: text}); err != nil {
				log.Printf("[Chat] Erro ao salvar histórico de %s: %v", cliente, err)
			}
			log.Printf("[Chat] Atendimento humano em %s. IA pausada por %d min", cliente, int(HumanTakeoverTTL.Minutes()))
			writeJSON(w, ChatResponse{Status: StatusIgnoredSelf})
			return
		}

		if paused, err := session.InCooldown(ctx, cliente); err == nil && paused {
			if err := session.Append(ctx, cliente, model.ChatMessage{Role: "user", Content: text}); err != nil {
				log.Printf("[Chat] Erro ao salvar histórico de %s: %v", cliente, err)
			}
			writeJSON(w, ChatResponse{Status: StatusCooldown})
			return
		}

		log.Printf("[Chat] Requisição recebida. Cliente: %s | Mensagem: %s", cliente, text)

		state, err := tracker.Begin(ctx, cliente, time.Now())
		if err != nil {
			log.Printf("[Chat] Erro ao ler sessão de %s: %v", cliente, err)
		}
		history, err := session.Get(ctx, cliente)
		if err != nil {
			log.Printf("[Chat] Erro ao ler histórico de %s: %v", cliente, err)
		}

		answer, err := agent.Run(ctx, cliente, state.Contexto(time.Now()), history, text)
		if err != nil {
			log.Printf("[Chat] Erro do agente para %s: %v", cliente, err)
			if errors.Is(err, context.Canceled) {
				return
			}
			answer = rules.UnknownErrorMessage
		}

		if err := session.Append(ctx, cliente,
			model.ChatMessage{Role: "user", Content: text},
			model.ChatMessage{Role: "assistant", Content: answer},
		); err != nil {
			log.Printf("[Chat] Erro ao salvar histórico de %s: %v", cliente, err)
		}

		writeJSON(w, ChatResponse{
			Answer:   answer,
			Messages: SplitReply(answer, MaxMessageLen),
			Status:   StatusOK,
		})
	}
}

// Health responde o estado do serviço.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "healthy", "ts": time.Now().Format(time.RFC3339)})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
