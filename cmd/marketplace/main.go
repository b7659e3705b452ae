package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeMC777/agromercado/internal/app"
	"github.com/MikeMC777/agromercado/internal/config"
	"github.com/MikeMC777/agromercado/internal/idgen"
	"github.com/MikeMC777/agromercado/internal/user"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes one command line and releases the store afterwards. Every
// invocation gets a run id in the log.
func run(ctx context.Context, args []string, out io.Writer) error {
	start := time.Now()
	rid := idgen.New()

	c := &cli{}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(out)
	cmd, err := root.ExecuteContextC(ctx)
	if cerr := c.close(); err == nil {
		err = cerr
	}

	name := root.Name()
	if cmd != nil {
		name = cmd.CommandPath()
	}
	log.Printf("[cli] rid=%s cmd=%q ok=%t dur=%s", rid, name, err == nil, time.Since(start))
	return err
}

// cli carries the global flags and the lazily opened app.
type cli struct {
	driver string
	dsn    string
	app    *app.App
}

func (c *cli) open(cmd *cobra.Command) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg := config.Load()
	if c.driver != "" {
		cfg.StoreDriver = c.driver
	}
	if c.dsn != "" {
		cfg.SetDSN(c.dsn)
	}
	a, err := app.Open(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// as opens the app and checks the logged-in user has role.
func (c *cli) as(cmd *cobra.Command, role user.Role) (*app.App, *user.User, error) {
	a, err := c.open(cmd)
	if err != nil {
		return nil, nil, err
	}
	u, err := a.Session.Require(cmd.Context(), role)
	if err != nil {
		return nil, nil, err
	}
	return a, u, nil
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "marketplace",
		Short:         "Farm produce marketplace",
		Long:          "Buy and sell vegetables, fruits and pulses straight from farmers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.driver, "driver", "", "store driver: memory, sqlite, postgres or redis (default from STORE_DRIVER)")
	root.PersistentFlags().StringVar(&c.dsn, "dsn", "", "store location for the selected driver")

	// Accounts
	root.AddCommand(registerCmd(c))
	root.AddCommand(loginCmd(c))
	root.AddCommand(logoutCmd(c))
	root.AddCommand(whoamiCmd(c))
	root.AddCommand(profileCmd(c))

	// Shopping
	root.AddCommand(productCmd(c))
	root.AddCommand(cartCmd(c))
	root.AddCommand(checkoutCmd(c))
	root.AddCommand(ordersCmd(c))
	root.AddCommand(dashboardCmd(c))

	// Data
	root.AddCommand(exportCmd(c))
	root.AddCommand(importCmd(c))
	root.AddCommand(catalogCmd())
	return root
}

func table(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
}
