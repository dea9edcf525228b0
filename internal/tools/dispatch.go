package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mercadoia/internal/order"
)

// Nomes das ferramentas como o modelo as chama.
const (
	ToolEan             = "ean"
	ToolEstoque         = "estoque"
	ToolBuscaLote       = "busca_lote"
	ToolAddItem         = "add_item_tool"
	ToolViewCart        = "view_cart_tool"
	ToolFinalizarPedido = "finalizar_pedido_tool"
	ToolFrete           = "frete"
)

var ErrUnknownTool = errors.New("ferramenta desconhecida")

type EanInput struct {
	Query string `json:"query" jsonschema:"description=Nome do produto como o cliente falou (ex: arroz, macaxeira, mistura)"`
}

type EstoqueInput struct {
	EAN string `json:"ean" jsonschema:"description=EAN do produto escolhido pela ferramenta ean"`
}

type BuscaLoteInput struct {
	Produtos string `json:"produtos" jsonschema:"description=Lista de produtos separados por vírgula ou quebra de linha"`
}

type AddItemInput struct {
	EAN        string  `json:"ean" jsonschema:"description=EAN do produto já consultado em estoque ou busca_lote"`
	Quantidade float64 `json:"quantidade" jsonschema:"description=Quantidade pedida pelo cliente"`
	Unidade    string  `json:"unidade,omitempty" jsonschema:"description=un ou kg. Frutas e carnes pedidas em unidades são convertidas em kg"`
}

type ViewCartInput struct{}

type FinalizarPedidoInput struct {
	Nome       string `json:"nome" jsonschema:"description=Nome do cliente"`
	Endereco   string `json:"endereco,omitempty" jsonschema:"description=Rua e número para entrega"`
	Bairro     string `json:"bairro,omitempty" jsonschema:"description=Bairro de entrega"`
	Entrega    bool   `json:"entrega" jsonschema:"description=true para entrega e false para retirada na loja"`
	Pagamento  string `json:"pagamento" jsonschema:"description=pix, cartao ou dinheiro"`
	Observacao string `json:"observacao,omitempty" jsonschema:"description=Observação do cliente"`
	Alterar    bool   `json:"alterar_pedido,omitempty" jsonschema:"description=true quando o cliente quer mudar o último pedido em vez de abrir um novo"`
}

func (in FinalizarPedidoInput) Request() order.FinalizeRequest {
	return order.FinalizeRequest(in)
}

type FreteInput struct {
	Bairro string `json:"bairro" jsonschema:"description=Bairro informado pelo cliente"`
}

// Call executa a ferramenta name com argumentos em JSON para o cliente.
func (s *Service) Call(ctx context.Context, cliente, name, args string) (any, error) {
	if args == "" {
		args = "{}"
	}
	decode := func(v any) error {
		if err := json.Unmarshal([]byte(args), v); err != nil {
			return fmt.Errorf("argumentos inválidos para %s: %w", name, err)
		}
		return nil
	}

	switch name {
	case ToolEan:
		var in EanInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.Ean(ctx, in.Query)
	case ToolEstoque:
		var in EstoqueInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.Estoque(ctx, cliente, in.EAN)
	case ToolBuscaLote:
		var in BuscaLoteInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.BuscaLote(ctx, cliente, in.Produtos)
	case ToolAddItem:
		var in AddItemInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.AddItem(ctx, cliente, AddItemRequest(in))
	case ToolViewCart:
		return s.ViewCart(ctx, cliente)
	case ToolFinalizarPedido:
		var in FinalizarPedidoInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.FinalizarPedido(ctx, cliente, in.Request())
	case ToolFrete:
		var in FreteInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.Frete(ctx, in.Bairro)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

// CallJSON é Call com o resultado já serializado. Erros de regra de negócio
// voltam como {"erro": "..."} para o modelo repassar ao cliente.
func (s *Service) CallJSON(ctx context.Context, cliente, name, args string) string {
	res, err := s.Call(ctx, cliente, name, args)
	if err != nil {
		b, _ := json.Marshal(map[string]string{"erro": Message(err)})
		return string(b)
	}
	b, err := json.Marshal(res)
	if err != nil {
		return `{"erro":"falha ao montar resposta"}`
	}
	return string(b)
}
