package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MikeMC777/agromercado/internal/product"
	"github.com/MikeMC777/agromercado/internal/user"
)

func productCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Browse and manage product listings",
	}
	cmd.AddCommand(productAddCmd(c))
	cmd.AddCommand(productListCmd(c))
	cmd.AddCommand(productShowCmd(c))
	cmd.AddCommand(productEditCmd(c))
	cmd.AddCommand(productDeleteCmd(c))
	return cmd
}

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad price %q", product.ErrInvalidInput, s)
	}
	return d, nil
}

func productAddCmd(c *cli) *cobra.Command {
	var in product.CreateProductRequest
	var category, price string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "List a new product (sellers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, seller, err := c.as(cmd, user.RoleSeller)
			if err != nil {
				return err
			}
			if in.Price, err = parsePrice(price); err != nil {
				return err
			}
			in.Category = product.Category(category)
			p, err := a.Products.Create(cmd.Context(), seller.ID, seller.Name, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added product %s\n", p.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "product name, e.g. tomato")
	f.StringVar(&category, "category", "", "vegetables, fruits or pulses")
	f.StringVar(&price, "price", "", "price per kg")
	f.IntVar(&in.Quantity, "quantity", 0, "kg available")
	f.StringVar(&in.Image, "image", "", "image URL (defaults to the catalog image)")
	f.StringVar(&in.Description, "description", "", "description")
	return cmd
}

func productListCmd(c *cli) *cobra.Command {
	var q product.Query
	var category, sortBy, minPrice, maxPrice string
	var mine bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search products",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			q.Category = product.Category(category)
			q.Sort = product.Sort(sortBy)
			if minPrice != "" {
				d, err := parsePrice(minPrice)
				if err != nil {
					return err
				}
				q.MinPrice = &d
			}
			if maxPrice != "" {
				d, err := parsePrice(maxPrice)
				if err != nil {
					return err
				}
				q.MaxPrice = &d
			}
			if mine {
				u, err := a.Session.Require(cmd.Context(), user.RoleSeller)
				if err != nil {
					return err
				}
				q.SellerID = u.ID
			}
			ps, err := a.Products.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			w := table(cmd)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE/KG\tQTY\tRATING\tSELLER")
			for _, p := range ps {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.1f\t%s\n",
					p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.Quantity, p.AverageRating, p.SellerName)
			}
			return w.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVarP(&q.Q, "search", "q", "", "text in name or description")
	f.StringVar(&category, "category", "", "vegetables, fruits or pulses")
	f.StringVar(&minPrice, "min", "", "minimum price per kg")
	f.StringVar(&maxPrice, "max", "", "maximum price per kg")
	f.StringVar(&sortBy, "sort", string(product.SortName), "name, price-low, price-high or rating")
	f.IntVar(&q.Limit, "limit", 0, "page size")
	f.IntVar(&q.Offset, "offset", 0, "page offset")
	f.BoolVar(&mine, "mine", false, "only the logged-in seller's products")
	return cmd
}

func productShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a product and its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			p, err := a.Products.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := table(cmd)
			fmt.Fprintf(w, "Name\t%s\n", p.Name)
			fmt.Fprintf(w, "Category\t%s\n", p.Category)
			fmt.Fprintf(w, "Price/kg\t%s\n", p.Price.StringFixed(2))
			fmt.Fprintf(w, "Available\t%d kg\n", p.Quantity)
			fmt.Fprintf(w, "Seller\t%s\n", p.SellerName)
			if p.Description != "" {
				fmt.Fprintf(w, "Description\t%s\n", p.Description)
			}
			fmt.Fprintf(w, "Rating\t%.1f (%d reviews)\n", p.AverageRating, len(p.Reviews))
			for _, r := range p.Reviews {
				fmt.Fprintf(w, "\t%d/5 %s: %s\n", r.Rating, r.BuyerName, r.Comment)
			}
			return w.Flush()
		},
	}
}

func productEditCmd(c *cli) *cobra.Command {
	var name, category, price, image, description string
	var quantity int
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a listing (sellers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, seller, err := c.as(cmd, user.RoleSeller)
			if err != nil {
				return err
			}
			var in product.UpdateProductRequest
			f := cmd.Flags()
			if f.Changed("name") {
				in.Name = &name
			}
			if f.Changed("category") {
				cat := product.Category(category)
				in.Category = &cat
			}
			if f.Changed("price") {
				d, err := parsePrice(price)
				if err != nil {
					return err
				}
				in.Price = &d
			}
			if f.Changed("quantity") {
				in.Quantity = &quantity
			}
			if f.Changed("image") {
				in.Image = &image
			}
			if f.Changed("description") {
				in.Description = &description
			}
			p, err := a.Products.Update(cmd.Context(), seller.ID, args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated product %s\n", p.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "product name")
	f.StringVar(&category, "category", "", "vegetables, fruits or pulses")
	f.StringVar(&price, "price", "", "price per kg")
	f.IntVar(&quantity, "quantity", 0, "kg available")
	f.StringVar(&image, "image", "", "image URL")
	f.StringVar(&description, "description", "", "description")
	return cmd
}

func productDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a listing (sellers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, seller, err := c.as(cmd, user.RoleSeller)
			if err != nil {
				return err
			}
			if err := a.Products.Delete(cmd.Context(), seller.ID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product %s\n", args[0])
			return nil
		},
	}
}
