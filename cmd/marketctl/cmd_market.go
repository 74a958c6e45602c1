package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/ui"
)

func minorUnits(amount int64) string {
	return ui.FormatCurrency(decimal.New(amount, -2).String())
}

func newVendorCmd(a *app) *cobra.Command {
	vendor := &cobra.Command{
		Use:   "vendor",
		Short: "Vendor tools",
	}
	vendor.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show your sales dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, _, err := a.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := a.client.Vendors.Stats(ctx)
			if err != nil {
				return err
			}
			view := ui.NewVendorStatsView(resp.Data)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range view.Cards {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Label, c.Value, c.Hint)
			}
			fmt.Fprintf(w, "Commission rate\t%s\t\n", view.CommissionRate)
			fmt.Fprintf(w, "Net today\t%s\t\n", view.TodayNet)
			return w.Flush()
		},
	})
	return vendor
}

func newProductsCmd(a *app) *cobra.Command {
	products := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalogue",
	}

	var q api.ProductQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List active products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.Catalog.ListProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tVENDOR\tCATEGORY\tPRICE")
			for _, p := range resp.Data.Results {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s / %s\n",
					p.ID, p.Name, p.VendorName, p.Category, ui.FormatCurrency(p.Price), p.Unit)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d product(s) in total\n", resp.Data.Count)
			return nil
		},
	}
	list.Flags().StringVar(&q.Category, "category", "", "filter by category")
	list.Flags().StringVar(&q.Search, "search", "", "search names and descriptions")
	list.Flags().StringVar(&q.MinPrice, "min-price", "", "lowest price, e.g. 1.50")
	list.Flags().StringVar(&q.MaxPrice, "max-price", "", "highest price")
	list.Flags().IntVar(&q.Page, "page", 1, "page number")
	products.AddCommand(list)
	return products
}

func parseOrderIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("order id %q is not a number", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newPayCmd(a *app) *cobra.Command {
	pay := &cobra.Command{
		Use:   "pay",
		Short: "Pay for pending orders",
	}

	pay.AddCommand(&cobra.Command{
		Use:   "intent ORDER_ID...",
		Short: "Open a payment intent for orders from one vendor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := a.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			ids, err := parseOrderIDs(args)
			if err != nil {
				return err
			}
			resp, err := a.client.Payments.CreateIntent(ctx, ids)
			if err != nil {
				return err
			}
			in := resp.Data
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Intent\t%s\n", in.IntentID)
			fmt.Fprintf(w, "Client secret\t%s\n", in.ClientSecret)
			fmt.Fprintf(w, "Vendor\t%s\n", in.Vendor.BusinessName)
			fmt.Fprintf(w, "Amount\t%s\n", minorUnits(in.Amount))
			fmt.Fprintf(w, "Commission\t%s\n", minorUnits(in.Commission))
			fmt.Fprintf(w, "Vendor payout\t%s\n", minorUnits(in.VendorPayout))
			return w.Flush()
		},
	})

	pay.AddCommand(&cobra.Command{
		Use:   "confirm INTENT_ID ORDER_ID...",
		Short: "Mark orders paid once the payment succeeded",
		Long: `Mark the orders paid after the card payment succeeded. Safe to repeat:
orders paid by an earlier confirmation are reported as already paid.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := a.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			ids, err := parseOrderIDs(args[1:])
			if err != nil {
				return err
			}
			resp, err := a.client.Payments.ConfirmPayment(ctx, args[0], ids)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if resp.Message != "" {
				fmt.Fprintln(out, resp.Message)
			}
			fmt.Fprintf(out, "updated: %d, already paid: %d\n", resp.Data.OrdersUpdated, resp.Data.OrdersAlreadyPaid)
			return nil
		},
	})

	var wait bool
	var interval time.Duration
	status := &cobra.Command{
		Use:   "status INTENT_ID",
		Short: "Show the status of a payment intent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := a.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			var resp api.Response[api.PaymentStatus]
			if wait {
				resp, err = a.client.Payments.PollStatus(ctx, args[0], interval)
			} else {
				resp, err = a.client.Payments.GetStatus(ctx, args[0])
			}
			if err != nil {
				return err
			}
			st := resp.Data
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Intent\t%s\n", st.IntentID)
			fmt.Fprintf(w, "Status\t%s\n", st.Status)
			fmt.Fprintf(w, "Amount\t%s\n", minorUnits(st.Amount))
			for _, o := range st.Orders {
				fmt.Fprintf(w, "Order %d\t%s\n", o.ID, o.Status)
			}
			return w.Flush()
		},
	}
	status.Flags().BoolVar(&wait, "wait", false, "poll until the payment reaches a final status")
	status.Flags().DurationVar(&interval, "interval", 2*time.Second, "polling interval with --wait")
	pay.AddCommand(status)
	return pay
}
