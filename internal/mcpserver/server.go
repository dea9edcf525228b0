package mcpserver

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mercadoia/internal/tools"
)

const version = "1.0.0"

type handlerFunc = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// New monta o servidor MCP com as ferramentas de venda.
func New(svc *tools.Service) *server.MCPServer {
	s := server.NewMCPServer("mercadoia", version, server.WithToolCapabilities(false))
	s.AddTools(ServerTools(svc)...)
	return s
}

func ServerTools(svc *tools.Service) []server.ServerTool {
	return []server.ServerTool{
		{Tool: eanSpec(), Handler: eanHandler(svc)},
		{Tool: estoqueSpec(), Handler: estoqueHandler(svc)},
		{Tool: buscaLoteSpec(), Handler: buscaLoteHandler(svc)},
		{Tool: addItemSpec(), Handler: addItemHandler(svc)},
		{Tool: viewCartSpec(), Handler: viewCartHandler(svc)},
		{Tool: finalizarPedidoSpec(), Handler: finalizarPedidoHandler(svc)},
		{Tool: freteSpec(), Handler: freteHandler(svc)},
	}
}

func result(name string, v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		log.Printf("[MCP] %s: %v", name, err)
		return mcp.NewToolResultError(tools.Message(err)), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func requireCliente(c ClienteArg) *mcp.CallToolResult {
	if strings.TrimSpace(c.Cliente) == "" {
		return mcp.NewToolResultError("cliente parameter is required")
	}
	return nil
}

func eanHandler(svc *tools.Service) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args tools.EanInput
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if strings.TrimSpace(args.Query) == "" {
			return mcp.NewToolResultError("query parameter is required"), nil
		}
		res, err := svc.Ean(ctx, args.Query)
		return result(tools.ToolEan, res, err)
	}
}

func estoqueHandler(svc *tools.Service) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args EstoqueArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if r := requireCliente(args.ClienteArg); r != nil {
			return r, nil
		}
		res, err := svc.Estoque(ctx, args.Cliente, args.EAN)
		return result(tools.ToolEstoque, res, err)
	}
}

func buscaLoteHandler(svc *tools.Service) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args BuscaLoteArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if r := requireCliente(args.ClienteArg); r != nil {
			return r, nil
		}
		res, err := svc.BuscaLote(ctx, args.Cliente, args.Produtos)
		return result(tools.ToolBuscaLote, res, err)
	}
}

func addItemHandler(svc *tools.Service) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args AddItemArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if r := requireCliente(args.ClienteArg); r != nil {
			return r, nil
		}
		res, err := svc.AddItem(ctx, args.Cliente, tools.AddItemRequest(args.AddItemInput))
		return result(tools.ToolAddItem, res, err)
	}
}

func viewCartHandler(svc *tools.Service) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ViewCartArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if r := requireCliente(args.ClienteArg); r != nil {
			return r, nil
		}
		res, err := svc.ViewCart(ctx, args.Cliente)
		return result(tools.ToolViewCart, res, err)
	}
}

func finalizarPedidoHandler(svc *tools.Service) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args FinalizarPedidoArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if r := requireCliente(args.ClienteArg); r != nil {
			return r, nil
		}
		res, err := svc.FinalizarPedido(ctx, args.Cliente, args.Request())
		return result(tools.ToolFinalizarPedido, res, err)
	}
}

func freteHandler(svc *tools.Service) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args tools.FreteInput
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.Frete(ctx, args.Bairro)
		return result(tools.ToolFrete, res, err)
	}
}
