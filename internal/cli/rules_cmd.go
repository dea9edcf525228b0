package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mercadoia/internal/model"
	"mercadoia/internal/rules"
)

func newFreteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frete <bairro>",
		Short: "Mostra a taxa de entrega de um bairro",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bairro := strings.Join(args, " ")
			fee, err := rules.ResolveFee(bairro)
			if errors.Is(err, rules.ErrUndeliverable) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: não entregamos\n", bairro)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: R$ %.2f\n", fee.Bairro, fee.Taxa)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "conflitos",
		Short: "Lista os bairros em que as duas tabelas de taxa divergem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			conflicts := rules.FeeTableConflicts()
			if len(conflicts) == 0 {
				fmt.Fprintln(out, "Tabelas de taxa coincidem.")
				return nil
			}
			for _, c := range conflicts {
				fmt.Fprintf(out, "%-20s A=%-8s B=%-8s %s\n", c.Bairro, feeText(c.TaxaA), feeText(c.TaxaB), c.Motivo)
			}
			return nil
		},
	})
	return cmd
}

func feeText(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func newPesoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "peso <produto> <unidades>",
		Short: "Estima o peso de itens vendidos por quilo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("unidades inválidas: %q", args[1])
			}
			est, err := rules.EstimateWeight(args[0], n)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d x %s = %.3f kg (aproximado)\n", est.Unidades, est.Categoria, est.PesoKg)
			return nil
		},
	}
}

func newPagamentoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pagamento <forma> [categoria...]",
		Short: "Verifica se a forma de pagamento é aceita para um carrinho com as categorias informadas",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metodo, err := rules.ParsePaymentMethod(args[0])
			if err != nil {
				return err
			}
			var itens []model.CartItem
			for _, c := range args[1:] {
				itens = append(itens, model.CartItem{Nome: c, Categoria: c})
			}
			if err := rules.CheckPayment(itens, metodo); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "recusado: %s\n", rules.UserMessage(err))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "aceito: %s\n", metodo)
			return nil
		},
	}
}
