package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"mercadoia/internal/model"
	"mercadoia/internal/observability"
)

const defaultMaxRounds = 6

var ErrTooManyRounds = errors.New("modelo não concluiu a resposta dentro do limite de chamadas")

// ChatCompleter é o pedaço de *openai.Client usado pelo agente.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ToolRunner executa uma ferramenta e devolve o resultado em JSON.
type ToolRunner interface {
	CallJSON(ctx context.Context, cliente, name, args string) string
}

type Agent struct {
	Client    ChatCompleter
	Model     string
	Tools     ToolRunner
	StoreName string
	MaxRounds int
	Now       func() time.Time
}

// Run conduz uma rodada de conversa: envia o histórico e a mensagem, executa
// as ferramentas pedidas pelo modelo e devolve o texto final.
func (a *Agent) Run(ctx context.Context, cliente, contexto string, history []model.ChatMessage, userMessage string) (string, error) {
	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}

	var messages []openai.ChatCompletionMessage
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: SystemPrompt(a.StoreName, now),
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	if contexto != "" {
		userMessage = contexto + "\n\n" + userMessage
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userMessage})

	llmModel := a.Model
	if llmModel == "" {
		llmModel = openai.GPT4oMini
	}
	rounds := a.MaxRounds
	if rounds <= 0 {
		rounds = defaultMaxRounds
	}
	defs := ToolDefinitions()

	for round := 0; round < rounds; round++ {
		start := time.Now()
		resp, err := a.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       llmModel,
			Messages:    messages,
			Tools:       defs,
			Temperature: 0.3,
		})
		observability.LLMRequestDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			return "", fmt.Errorf("chamando modelo: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("modelo devolveu resposta vazia")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			log.Printf("[LLM] %s chamou %s(%s)", cliente, call.Function.Name, call.Function.Arguments)
			result := a.Tools.CallJSON(ctx, cliente, call.Function.Name, call.Function.Arguments)
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}
	return "", ErrTooManyRounds
}
