package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"mercadoia/internal/tools"
)

// ClienteArg identifica a conversa. No chat ele vem do session_id; aqui o
// cliente MCP precisa informar.
type ClienteArg struct {
	Cliente string `json:"cliente" jsonschema:"description=Telefone do cliente (identifica carrinho e pedido)"`
}

type EstoqueArgs struct {
	ClienteArg
	tools.EstoqueInput
}

type BuscaLoteArgs struct {
	ClienteArg
	tools.BuscaLoteInput
}

type AddItemArgs struct {
	ClienteArg
	tools.AddItemInput
}

type ViewCartArgs struct {
	ClienteArg
}

type FinalizarPedidoArgs struct {
	ClienteArg
	tools.FinalizarPedidoInput
}

func eanSpec() mcp.Tool {
	return mcp.NewTool(tools.ToolEan,
		mcp.WithDescription("Identifica um produto no catálogo pelo nome que o cliente usou, aplicando sinônimos regionais e a marca preferida. Não traz preço."),
		mcp.WithInputSchema[tools.EanInput](),
		mcp.WithTitleAnnotation("Buscar produto"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func estoqueSpec() mcp.Tool {
	return mcp.NewTool(tools.ToolEstoque,
		mcp.WithDescription("Consulta preço e estoque atuais de um EAN e guarda a cotação por 15 minutos para o cliente."),
		mcp.WithInputSchema[EstoqueArgs](),
		mcp.WithTitleAnnotation("Consultar estoque"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

func buscaLoteSpec() mcp.Tool {
	return mcp.NewTool(tools.ToolBuscaLote,
		mcp.WithDescription("Identifica e consulta preço e estoque de vários produtos de uma vez. Cada item tem seu próprio resultado."),
		mcp.WithInputSchema[BuscaLoteArgs](),
		mcp.WithTitleAnnotation("Consultar lista"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

func addItemSpec() mcp.Tool {
	return mcp.NewTool(tools.ToolAddItem,
		mcp.WithDescription("Adiciona ao carrinho um produto com preço consultado há menos de 15 minutos."),
		mcp.WithInputSchema[AddItemArgs](),
		mcp.WithTitleAnnotation("Adicionar ao carrinho"),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func viewCartSpec() mcp.Tool {
	return mcp.NewTool(tools.ToolViewCart,
		mcp.WithDescription("Mostra o carrinho, o subtotal e se o Pix antecipado está liberado."),
		mcp.WithInputSchema[ViewCartArgs](),
		mcp.WithTitleAnnotation("Ver carrinho"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func finalizarPedidoSpec() mcp.Tool {
	return mcp.NewTool(tools.ToolFinalizarPedido,
		mcp.WithDescription("Finaliza o pedido com o carrinho atual. Dentro de 15 minutos do último pedido, acrescenta os itens e aplica as mudanças de dados (pagamento, endereço, bairro) a ele."),
		mcp.WithInputSchema[FinalizarPedidoArgs](),
		mcp.WithTitleAnnotation("Finalizar pedido"),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func freteSpec() mcp.Tool {
	return mcp.NewTool(tools.ToolFrete,
		mcp.WithDescription("Informa a taxa de entrega do bairro ou que o bairro não é atendido."),
		mcp.WithInputSchema[tools.FreteInput](),
		mcp.WithTitleAnnotation("Taxa de entrega"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}
