package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"mercadoia/internal/model"
)

// OrderReader é a consulta de pedidos usada pelo comando pedido.
type OrderReader interface {
	Get(ctx context.Context, id string) (model.Order, error)
	Latest(ctx context.Context, cliente string) (model.Order, error)
}

// App guarda as dependências dos comandos. Orders pode ser nil quando não há
// banco configurado; só o comando pedido precisa dele.
type App struct {
	Orders OrderReader
	Now    func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd cria o comando mercadoctl com os subcomandos de operação.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "mercadoctl",
		Short:         "Ferramentas de operação do atendimento do mercado",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newFreteCmd(),
		newPesoCmd(),
		newPagamentoCmd(),
		newPedidoCmd(app),
	)
	return root
}
