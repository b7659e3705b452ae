package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MikeMC777/agromercado/internal/cart"
	"github.com/MikeMC777/agromercado/internal/user"
)

func cartCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}
	cmd.AddCommand(cartAddCmd(c))
	cmd.AddCommand(cartSetCmd(c))
	cmd.AddCommand(cartRemoveCmd(c))
	cmd.AddCommand(cartShowCmd(c))
	cmd.AddCommand(cartClearCmd(c))
	cmd.AddCommand(cartCheckCmd(c))
	return cmd
}

func cartAddCmd(c *cli) *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add kg of a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := c.as(cmd, user.RoleBuyer)
			if err != nil {
				return err
			}
			it, err := a.Cart.Add(cmd.Context(), args[0], qty)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d kg in cart\n", it.Product.Name, it.Quantity)
			return nil
		},
	}
	cmd.Flags().IntVar(&qty, "qty", 1, fmt.Sprintf("kg to add, 1 to %d", cart.MaxAddQuantity))
	return cmd
}

func cartSetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <kg>",
		Short: "Set the quantity of a cart line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("bad quantity %q", args[1])
			}
			a, _, err := c.as(cmd, user.RoleBuyer)
			if err != nil {
				return err
			}
			it, err := a.Cart.SetQuantity(cmd.Context(), args[0], n)
			if err != nil {
				return err
			}
			if it == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d kg in cart\n", it.Product.Name, it.Quantity)
			return nil
		},
	}
}

func cartRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			if err := a.Cart.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

func cartShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			items, err := a.Cart.Items(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "cart is empty")
				return nil
			}
			w := table(cmd)
			fmt.Fprintln(w, "PRODUCT\tNAME\tKG\tPRICE/KG\tSUBTOTAL\tSELLER")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n", it.ProductID, it.Product.Name, it.Quantity,
					it.Product.Price.StringFixed(2), it.LineTotal().StringFixed(2), it.Product.SellerName)
			}
			fmt.Fprintf(w, "\t\t%d\t\t%s\t\n", cart.Count(items), cart.Total(items).StringFixed(2))
			return w.Flush()
		},
	}
}

func cartClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			if err := a.Cart.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
			return nil
		},
	}
}

func cartCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare cart lines with the current listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			st, err := a.Cart.Check(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			stale := 0
			for _, s := range st {
				if !s.Stale() {
					continue
				}
				stale++
				name := s.Item.Product.Name
				switch {
				case s.Current == nil:
					fmt.Fprintf(out, "%s: no longer listed\n", name)
				default:
					if s.PriceChanged {
						fmt.Fprintf(out, "%s: price now %s (was %s), line changes by %s\n", name,
							s.Current.Price.StringFixed(2), s.Item.Product.Price.StringFixed(2), s.PriceDelta.StringFixed(2))
					}
					if s.Shortfall > 0 {
						fmt.Fprintf(out, "%s: only %d kg left, %d kg short\n", name, s.Current.Quantity, s.Shortfall)
					}
				}
			}
			if stale == 0 {
				fmt.Fprintln(out, "cart is up to date")
			}
			return nil
		},
	}
}
