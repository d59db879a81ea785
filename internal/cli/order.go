package cli

import (
	"context"
	"fmt"
	"io"

	"sa-fashion-be/internal/order"
	"sa-fashion-be/internal/utils"

	"github.com/spf13/cobra"
)

func newOrderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "order <id>",
		Short: "Show a stored order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer conn.Close(context.Background())

			o, err := order.NewService(order.NewRepository(conn)).GetOrder(ctx, args[0])
			if err != nil {
				return err
			}
			printOrder(cmd.OutOrStdout(), o)
			return nil
		},
	}
}

func printOrder(w io.Writer, o *order.Order) {
	fmt.Fprintf(w, "🧾 Order %s (%s)\n", o.ID, o.Status)
	fmt.Fprintf(w, "   Customer:  %s <%s>\n", o.CustomerName, o.Email)
	fmt.Fprintf(w, "   Address:   %s\n", o.Address)
	fmt.Fprintf(w, "   Created:   %s\n", o.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	for _, it := range o.Items {
		size := utils.PtrString(it.Size)
		if size != "" {
			size = " [" + size + "]"
		}
		fmt.Fprintf(w, "   - %d x %s%s @ R %s\n", it.Quantity, it.Title, size, it.Price.StringFixed(2))
	}

	fmt.Fprintf(w, "   Subtotal:  R %s\n", o.Subtotal.StringFixed(2))
	fmt.Fprintf(w, "   Shipping:  R %s\n", o.Shipping.StringFixed(2))
	fmt.Fprintf(w, "   Total:     R %s %s\n", o.Total.StringFixed(2), o.Currency)

	p := o.PaymentPlan
	if p.Type == order.PlanThreeMonth {
		fmt.Fprintf(w, "💳 %s: %d%% deposit, %d x R %s\n", p.Type, p.DepositPercent, p.Months, p.MonthlyAmount.StringFixed(2))
	} else {
		fmt.Fprintf(w, "💳 %s\n", p.Type)
	}
}
