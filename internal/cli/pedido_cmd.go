package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mercadoia/internal/model"
	"mercadoia/internal/order"
	"mercadoia/internal/rules"
)

var errNoDatabase = errors.New("DATABASE_URL não configurada")

func newPedidoCmd(app *App) *cobra.Command {
	var cliente string

	cmd := &cobra.Command{
		Use:   "pedido [id]",
		Short: "Mostra um pedido e se ele ainda aceita alteração",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Orders == nil {
				return errNoDatabase
			}
			ctx := context.Background()

			var (
				o   model.Order
				err error
			)
			switch {
			case len(args) == 1:
				o, err = app.Orders.Get(ctx, args[0])
			case cliente != "":
				o, err = app.Orders.Latest(ctx, cliente)
			default:
				return errors.New("informe o id do pedido ou --cliente")
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, order.Summary(o))
			if rules.State(o, app.now()) == rules.Editavel {
				fmt.Fprintf(out, "Situação: editável até %s\n", rules.AmendDeadline(o).Format("15:04"))
			} else {
				fmt.Fprintln(out, "Situação: congelado")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cliente, "cliente", "", "Telefone do cliente (mostra o último pedido)")
	return cmd
}
