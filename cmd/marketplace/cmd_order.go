package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeMC777/agromercado/internal/jsondate"
	"github.com/MikeMC777/agromercado/internal/order"
	"github.com/MikeMC777/agromercado/internal/user"
)

func checkoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Place one order per seller from the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, buyer, err := c.as(cmd, user.RoleBuyer)
			if err != nil {
				return err
			}
			// the session copy may predate a profile edit
			if fresh, err := a.Users.Get(cmd.Context(), buyer.ID); err == nil {
				buyer = fresh
			}
			placed, err := a.Orders.Checkout(cmd.Context(), buyer)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "placed %d order(s)\n", len(placed))
			for _, o := range placed {
				fmt.Fprintf(out, "%s\t%s\n", o.ID, o.TotalAmount.StringFixed(2))
			}
			return nil
		},
	}
}

func ordersCmd(c *cli) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List and manage orders",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "Orders placed by the buyer or received by the seller",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			u, err := a.Session.Current(cmd.Context())
			if err != nil {
				return err
			}
			st := order.Status(status)
			if st != "" && !st.Valid() {
				return fmt.Errorf("%w: unknown status %q", order.ErrInvalidInput, status)
			}
			var orders []order.Order
			if u.Role == user.RoleSeller {
				orders, err = a.Orders.ListForSeller(cmd.Context(), u.ID, st)
			} else {
				orders, err = a.Orders.ListForBuyer(cmd.Context(), u.ID, st)
			}
			if err != nil {
				return err
			}
			printOrders(cmd, orders)
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "pending, accepted, rejected or delivered")

	cmd.AddCommand(list)
	cmd.AddCommand(orderMoveCmd(c, "accept", "Accept an order and take its stock", (*order.Service).Accept))
	cmd.AddCommand(orderMoveCmd(c, "reject", "Reject an order", (*order.Service).Reject))
	cmd.AddCommand(orderMoveCmd(c, "deliver", "Mark an accepted order delivered", (*order.Service).Deliver))
	cmd.AddCommand(orderReviewCmd(c))
	return cmd
}

func printOrders(cmd *cobra.Command, orders []order.Order) {
	w := table(cmd)
	defer w.Flush()
	fmt.Fprintln(w, "ID\tDATE\tSTATUS\tBUYER\tITEMS\tTOTAL")
	for _, o := range orders {
		names := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			names = append(names, fmt.Sprintf("%s x%d", it.Product.Name, it.Quantity))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", o.ID, showDate(o.OrderDate),
			o.Status, o.BuyerName, strings.Join(names, ", "), o.TotalAmount.StringFixed(2))
	}
}

// showDate prints a date; imported dates in an unknown format are shown as stored.
func showDate(d jsondate.Time) string {
	if d.IsZero() {
		return d.Raw()
	}
	return d.Local().Format("2006-01-02 15:04")
}

type moveFunc func(s *order.Service, ctx context.Context, sellerID, orderID string) (*order.Order, error)

func orderMoveCmd(c *cli, use, short string, fn moveFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <order-id>",
		Short: short + " (sellers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, seller, err := c.as(cmd, user.RoleSeller)
			if err != nil {
				return err
			}
			o, err := fn(a.Orders, cmd.Context(), seller.ID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %s is %s\n", o.ID, o.Status)
			return nil
		},
	}
}

func orderReviewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "review <order-id> <product-id> <rating> [comment]",
		Short: "Rate a product from a delivered order (buyers)",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("bad rating %q", args[2])
			}
			a, buyer, err := c.as(cmd, user.RoleBuyer)
			if err != nil {
				return err
			}
			in := order.ReviewInput{ProductID: args[1], Rating: rating}
			if len(args) == 4 {
				in.Comment = args[3]
			}
			n, err := a.Orders.Review(cmd.Context(), buyer, args[0], []order.ReviewInput{in})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d review(s)\n", n)
			return nil
		},
	}
}

func dashboardCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Seller summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, seller, err := c.as(cmd, user.RoleSeller)
			if err != nil {
				return err
			}
			sum, err := a.Orders.Summary(cmd.Context(), seller.ID)
			if err != nil {
				return err
			}
			w := table(cmd)
			fmt.Fprintf(w, "Products\t%d\n", sum.TotalProducts)
			fmt.Fprintf(w, "Revenue\t%s\n", sum.TotalRevenue.StringFixed(2))
			fmt.Fprintf(w, "Pending orders\t%d\n", sum.PendingOrders)
			fmt.Fprintf(w, "Average rating\t%.1f\n", sum.AverageRating)
			return w.Flush()
		},
	}
}
