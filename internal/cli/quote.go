package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sa-fashion-be/internal/order"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type quoteOptions struct {
	items   []string
	plan    string
	deposit int
	jsonOut bool
}

func newQuoteCommand() *cobra.Command {
	opts := &quoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a cart without storing an order",
		Example: `  storectl quote --item 799 --item 349x2
  storectl quote --item 200 --plan 3_month --deposit 30 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := order.PlanRequest{Type: opts.plan}
			if cmd.Flags().Changed("deposit") {
				if opts.deposit < 0 || opts.deposit > 100 {
					return fmt.Errorf("--deposit must be between 0 and 100, got %d", opts.deposit)
				}
				plan.DepositPercent = &opts.deposit
			}
			return runQuote(cmd.OutOrStdout(), opts.items, plan, opts.jsonOut)
		},
	}

	cmd.Flags().StringArrayVar(&opts.items, "item", nil, "cart line as PRICE or PRICExQTY (repeatable)")
	cmd.Flags().StringVar(&opts.plan, "plan", string(order.PlanOnceOff), "payment plan: once_off or 3_month")
	cmd.Flags().IntVar(&opts.deposit, "deposit", order.DefaultDepositPercent, "deposit percent for 3_month plans")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the summary as JSON")

	return cmd
}

func runQuote(w io.Writer, rawItems []string, plan order.PlanRequest, jsonOut bool) error {
	items := make([]order.CartItem, 0, len(rawItems))
	for i, raw := range rawItems {
		it, err := parseItem(raw)
		if err != nil {
			return err
		}
		it.ProductID = strconv.Itoa(i + 1)
		items = append(items, it)
	}

	if _, ok := order.ResolvePlanType(plan.Type); !ok {
		fmt.Fprintf(w, "⚠️  unknown plan %q, quoting once_off\n", plan.Type)
	}

	q, err := order.Price(items, plan)
	if err != nil {
		return err
	}
	summary := q.Summary()

	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(order.ToSummaryResponse(summary))
	}

	fmt.Fprintf(w, "🧾 %d line(s)\n", len(items))
	fmt.Fprintf(w, "   Subtotal:  R %s\n", summary.Subtotal.StringFixed(2))
	fmt.Fprintf(w, "   Shipping:  R %s\n", summary.Shipping.StringFixed(2))
	fmt.Fprintf(w, "   Total:     R %s\n", summary.Total.StringFixed(2))

	p := summary.PaymentPlan
	if p.Type == order.PlanThreeMonth {
		fmt.Fprintf(w, "💳 %s: %d%% deposit R %s, then %d x R %s\n",
			p.Type, p.DepositPercent, q.Deposit.StringFixed(2), p.Months, p.MonthlyAmount.StringFixed(2))
	} else {
		fmt.Fprintf(w, "💳 %s\n", p.Type)
	}
	return nil
}

// parseItem reads "PRICE" or "PRICExQTY".
func parseItem(raw string) (order.CartItem, error) {
	priceStr, qtyStr, hasQty := strings.Cut(strings.ToLower(strings.TrimSpace(raw)), "x")

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return order.CartItem{}, fmt.Errorf("invalid price in item %q: %w", raw, err)
	}
	if price.IsNegative() {
		return order.CartItem{}, fmt.Errorf("negative price in item %q", raw)
	}

	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil || qty < 1 {
			return order.CartItem{}, fmt.Errorf("quantity in item %q must be a whole number >= 1", raw)
		}
	}

	return order.CartItem{Title: raw, Price: price, Quantity: qty}, nil
}
