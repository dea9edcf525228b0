package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"mercadoia/internal/model"
)

const (
	sessionTTL   = 30 * time.Minute
	historyLimit = 10

	// HumanTakeoverTTL é quanto tempo o agente fica calado depois que um
	// atendente humano responde o cliente.
	HumanTakeoverTTL = 15 * time.Minute
)

type SessionStore struct {
	Client *redis.Client
}

func historyKey(sessionID string) string  { return "historico:" + sessionID }
func cooldownKey(sessionID string) string { return "pausa_ia:" + sessionID }

func (s *SessionStore) Get(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	val, err := s.Client.Get(ctx, historyKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lendo histórico de %s: %w", sessionID, err)
	}

	var msgs []model.ChatMessage
	if err := json.Unmarshal([]byte(val), &msgs); err != nil {
		// histórico ilegível: a conversa recomeça e o próximo Append regrava
		log.Printf("[Sessao] Histórico de %s ilegível, descartando: %v", sessionID, err)
		return nil, nil
	}
	return msgs, nil
}

// Append grava as mensagens no fim do histórico, mantendo só as últimas
// historyLimit.
func (s *SessionStore) Append(ctx context.Context, sessionID string, msgs ...model.ChatMessage) error {
	history, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history, msgs...)

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	b, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, historyKey(sessionID), b, sessionTTL).Err()
}

// SetCooldown pausa o agente para a sessão.
func (s *SessionStore) SetCooldown(ctx context.Context, sessionID string, ttl time.Duration) error {
	return s.Client.Set(ctx, cooldownKey(sessionID), time.Now().Unix(), ttl).Err()
}

func (s *SessionStore) InCooldown(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.Client.Exists(ctx, cooldownKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
