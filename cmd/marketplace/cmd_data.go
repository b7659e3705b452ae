package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeMC777/agromercado/internal/catalog"
	"github.com/MikeMC777/agromercado/internal/product"
	"github.com/MikeMC777/agromercado/internal/store"
)

func exportCmd(c *cli) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every bucket as a localStorage-style JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			d, err := store.Export(cmd.Context(), a.Store)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func importCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a snapshot written by export or the browser app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			var d store.Dump
			if err := json.Unmarshal(raw, &d); err != nil {
				return fmt.Errorf("parse snapshot: %w", err)
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			stats, err := store.Import(cmd.Context(), a.Store, d)
			if err != nil {
				return err
			}
			w := table(cmd)
			for _, b := range store.Buckets {
				fmt.Fprintf(w, "%s\t%d\n", b, stats[b])
			}
			return w.Flush()
		},
	}
}

func catalogCmd() *cobra.Command {
	var category string
	var mandals bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List known produce or mandals",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := table(cmd)
			if mandals {
				for _, m := range catalog.Mandals {
					fmt.Fprintln(w, m)
				}
				return w.Flush()
			}
			cats := product.Categories
			if category != "" {
				cat := product.Category(category)
				if !cat.Valid() {
					return fmt.Errorf("%w: unknown category %q", product.ErrInvalidInput, category)
				}
				cats = []product.Category{cat}
			}
			for _, cat := range cats {
				for _, name := range catalog.Names(string(cat)) {
					fmt.Fprintf(w, "%s\t%s\t%s\n", cat, name, catalog.ImageFor(name))
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "vegetables, fruits or pulses")
	cmd.Flags().BoolVar(&mandals, "mandals", false, "list mandals instead of produce")
	return cmd
}
