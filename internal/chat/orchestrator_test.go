package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadoia/internal/model"
	"mercadoia/internal/tools"
)

type scriptedLLM struct {
	replies  []openai.ChatCompletionMessage
	requests []openai.ChatCompletionRequest
	err      error
}

func (s *scriptedLLM) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	msg := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: msg}}}, nil
}

type recordedCall struct{ cliente, name, args string }

type fakeTools struct{ calls []recordedCall }

func (f *fakeTools) CallJSON(_ context.Context, cliente, name, args string) string {
	f.calls = append(f.calls, recordedCall{cliente, name, args})
	return `{"bairro":"Centro","entrega":true,"taxa":5}`
}

func toolCall(id, name, args string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{{
			ID:       id,
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: name, Arguments: args},
		}},
	}
}

func fixedNow() time.Time { return time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC) }

func TestAgent_DirectAnswer(t *testing.T) {
	llm := &scriptedLLM{replies: []openai.ChatCompletionMessage{{Role: "assistant", Content: "Olá! Em que posso ajudar?"}}}
	agent := &Agent{Client: llm, Tools: &fakeTools{}, StoreName: "Mercado Bom Preço", Now: fixedNow}

	history := []model.ChatMessage{{Role: "user", Content: "oi"}, {Role: "assistant", Content: "oi!"}}
	answer, err := agent.Run(context.Background(), "c1", "", history, "bom dia")
	require.NoError(t, err)
	assert.Equal(t, "Olá! Em que posso ajudar?", answer)

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Equal(t, openai.GPT4oMini, req.Model)
	assert.Len(t, req.Tools, 7)
	require.Len(t, req.Messages, 4)
	assert.Contains(t, req.Messages[0].Content, "Mercado Bom Preço")
	assert.Contains(t, req.Messages[0].Content, "10/03/2025 18:00")
	assert.Equal(t, "bom dia", req.Messages[3].Content)
}

func TestAgent_ToolLoop(t *testing.T) {
	llm := &scriptedLLM{replies: []openai.ChatCompletionMessage{
		toolCall("call-1", tools.ToolFrete, `{"bairro":"centro"}`),
		{Role: "assistant", Content: "A entrega no Centro custa R$ 5,00."},
	}}
	ft := &fakeTools{}
	agent := &Agent{Client: llm, Tools: ft, Model: "gpt-4o", Now: fixedNow}

	answer, err := agent.Run(context.Background(), "c1", "[CONTEXTO] pedido anterior", nil, "qual o frete?")
	require.NoError(t, err)
	assert.Equal(t, "A entrega no Centro custa R$ 5,00.", answer)

	require.Len(t, ft.calls, 1)
	assert.Equal(t, recordedCall{"c1", "frete", `{"bairro":"centro"}`}, ft.calls[0])

	require.Len(t, llm.requests, 2)
	assert.True(t, strings.HasPrefix(llm.requests[0].Messages[1].Content, "[CONTEXTO] pedido anterior"))
	second := llm.requests[1].Messages
	last := second[len(second)-1]
	assert.Equal(t, openai.ChatMessageRoleTool, last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)
	assert.Contains(t, last.Content, `"taxa":5`)
}

func TestAgent_StopsAfterMaxRounds(t *testing.T) {
	llm := &scriptedLLM{replies: []openai.ChatCompletionMessage{toolCall("x", tools.ToolViewCart, "{}")}}
	agent := &Agent{Client: llm, Tools: &fakeTools{}, MaxRounds: 3, Now: fixedNow}

	_, err := agent.Run(context.Background(), "c1", "", nil, "carrinho")
	assert.ErrorIs(t, err, ErrTooManyRounds)
	assert.Len(t, llm.requests, 3)
}

func TestAgent_LLMError(t *testing.T) {
	boom := errors.New("rate limit")
	agent := &Agent{Client: &scriptedLLM{err: boom}, Tools: &fakeTools{}, Now: fixedNow}

	_, err := agent.Run(context.Background(), "c1", "", nil, "oi")
	assert.ErrorIs(t, err, boom)
}

func TestToolDefinitions_MatchServiceTools(t *testing.T) {
	names := map[string]bool{}
	for _, d := range ToolDefinitions() {
		names[d.Function.Name] = true
	}
	for _, n := range []string{tools.ToolEan, tools.ToolEstoque, tools.ToolBuscaLote, tools.ToolAddItem,
		tools.ToolViewCart, tools.ToolFinalizarPedido, tools.ToolFrete} {
		assert.True(t, names[n], n)
	}
}
