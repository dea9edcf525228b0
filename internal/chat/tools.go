package chat

import (
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"mercadoia/internal/tools"
)

func function(name, description string, params jsonschema.Definition) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
	}
}

func object(required []string, props map[string]jsonschema.Definition) jsonschema.Definition {
	if props == nil {
		props = map[string]jsonschema.Definition{}
	}
	return jsonschema.Definition{Type: jsonschema.Object, Properties: props, Required: required}
}

func str(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: description}
}

// ToolDefinitions descreve para o modelo as ferramentas de tools.Service.
func ToolDefinitions() []openai.Tool {
	return []openai.Tool{
		function(tools.ToolEan,
			"Identifica um produto no catálogo pelo nome que o cliente usou. Aplica sinônimos regionais e a marca preferida da casa. Não traz preço.",
			object([]string{"query"}, map[string]jsonschema.Definition{
				"query": str("Nome do produto como o cliente falou"),
			})),
		function(tools.ToolEstoque,
			"Consulta preço e estoque atuais de um EAN. Única fonte de preço válida.",
			object([]string{"ean"}, map[string]jsonschema.Definition{
				"ean": str("EAN devolvido pela ferramenta ean"),
			})),
		function(tools.ToolBuscaLote,
			"Identifica e consulta preço e estoque de vários produtos de uma vez.",
			object([]string{"produtos"}, map[string]jsonschema.Definition{
				"produtos": str("Produtos separados por vírgula ou quebra de linha"),
			})),
		function(tools.ToolAddItem,
			"Adiciona ao carrinho um produto com preço já consultado.",
			object([]string{"ean", "quantidade"}, map[string]jsonschema.Definition{
				"ean":        str("EAN do produto"),
				"quantidade": {Type: jsonschema.Number, Description: "Quantidade pedida"},
				"unidade":    {Type: jsonschema.String, Enum: []string{"un", "kg"}, Description: "Unidade da quantidade"},
			})),
		function(tools.ToolViewCart,
			"Mostra o carrinho com subtotal, aviso de peso aproximado e se o Pix está liberado.",
			object(nil, nil)),
		function(tools.ToolFrete,
			"Informa a taxa de entrega de um bairro ou se o bairro não é atendido.",
			object([]string{"bairro"}, map[string]jsonschema.Definition{
				"bairro": str("Bairro do cliente"),
			})),
		function(tools.ToolFinalizarPedido,
			"Finaliza o pedido com o carrinho atual. Dentro de 15 minutos do último pedido, acrescenta os itens e aplica as mudanças de dados (pagamento, endereço, bairro) a ele.",
			object([]string{"nome", "entrega", "pagamento"}, map[string]jsonschema.Definition{
				"nome":           str("Nome do cliente"),
				"endereco":       str("Rua e número, obrigatório para entrega"),
				"bairro":         str("Bairro, obrigatório para entrega"),
				"entrega":        {Type: jsonschema.Boolean, Description: "true para entrega, false para retirada"},
				"pagamento":      {Type: jsonschema.String, Enum: []string{"pix", "cartao", "dinheiro"}, Description: "Forma de pagamento"},
				"observacao":     str("Observação do cliente"),
				"alterar_pedido": {Type: jsonschema.Boolean, Description: "true quando o cliente quer mudar o último pedido em vez de abrir um novo"},
			})),
	}
}
