package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeMC777/agromercado/internal/user"
)

func registerCmd(c *cli) *cobra.Command {
	var in user.RegisterRequest
	var role string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a buyer or seller account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			if in.ConfirmPassword == "" {
				in.ConfirmPassword = in.Password
			}
			in.Role = user.Role(role)
			u, err := a.Users.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s %s (%s)\n", u.Role, u.Name, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Mobile, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm", "", "password confirmation (defaults to --password)")
	cmd.Flags().StringVar(&role, "role", string(user.RoleBuyer), "buyer or seller")
	return cmd
}

func loginCmd(c *cli) *cobra.Command {
	var name, password, role string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a buyer or seller",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			u, err := a.Users.Authenticate(cmd.Context(), name, password, user.Role(role))
			if err != nil {
				return err
			}
			if err := a.Session.Login(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", u.Name, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", string(user.RoleBuyer), "buyer or seller")
	return cmd
}

func logoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			if err := a.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func whoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			u, err := a.Session.Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", u.ID, u.Name, u.Role)
			return nil
		},
	}
}

func profileCmd(c *cli) *cobra.Command {
	var name, mobile string
	var p user.Profile
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the logged-in user's profile",
		Long:  "Without flags the profile is printed. Set flags replace those fields and keep the rest.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cur, err := a.Session.Current(ctx)
			if err != nil {
				return err
			}
			u, err := a.Users.Get(ctx, cur.ID)
			if err != nil {
				return err
			}
			if anyChanged(cmd, profileFlags) {
				next := mergeProfile(cmd, u, p)
				u, err = a.Users.UpdateProfile(ctx, u.ID, user.UpdateProfileRequest{Name: name, Mobile: mobile, Profile: next})
				if err != nil {
					return err
				}
				if err := a.Session.Refresh(ctx, u); err != nil {
					return err
				}
			}
			printProfile(cmd, u)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "full name")
	f.StringVar(&mobile, "mobile", "", "mobile number")
	f.StringVar(&p.Gender, "gender", "", "gender")
	f.StringVar(&p.BusinessName, "business", "", "business name (sellers)")
	f.StringVar(&p.GSTNumber, "gst", "", "GST number (sellers)")
	f.StringVar(&p.PanCard, "pan", "", "PAN card number")
	f.StringVar(&p.BankAccount, "bank", "", "bank account")
	f.StringVar(&p.Address.HouseNo, "house", "", "house number")
	f.StringVar(&p.Address.Street, "street", "", "street")
	f.StringVar(&p.Address.Village, "village", "", "village")
	f.StringVar(&p.Address.Pincode, "pincode", "", "pincode")
	f.StringVar(&p.Address.Mandal, "mandal", "", "mandal")
	f.StringVar(&p.Address.District, "district", "", "district")
	f.StringVar(&p.Address.State, "state", "", "state")
	return cmd
}

var profileFlags = []string{
	"name", "mobile", "gender", "business", "gst", "pan", "bank",
	"house", "street", "village", "pincode", "mandal", "district", "state",
}

func anyChanged(cmd *cobra.Command, names []string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

// mergeProfile overlays the changed flags on the stored profile.
func mergeProfile(cmd *cobra.Command, u *user.User, in user.Profile) user.Profile {
	var out user.Profile
	if u.Profile != nil {
		out = *u.Profile
	}
	set := func(flag string, dst *string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("gender", &out.Gender, in.Gender)
	set("business", &out.BusinessName, in.BusinessName)
	set("gst", &out.GSTNumber, in.GSTNumber)
	set("pan", &out.PanCard, in.PanCard)
	set("bank", &out.BankAccount, in.BankAccount)
	set("house", &out.Address.HouseNo, in.Address.HouseNo)
	set("street", &out.Address.Street, in.Address.Street)
	set("village", &out.Address.Village, in.Address.Village)
	set("pincode", &out.Address.Pincode, in.Address.Pincode)
	set("mandal", &out.Address.Mandal, in.Address.Mandal)
	set("district", &out.Address.District, in.Address.District)
	set("state", &out.Address.State, in.Address.State)
	return out
}

func printProfile(cmd *cobra.Command, u *user.User) {
	w := table(cmd)
	defer w.Flush()
	fmt.Fprintf(w, "Name\t%s\n", u.Name)
	fmt.Fprintf(w, "Mobile\t%s\n", u.Mobile)
	fmt.Fprintf(w, "Type\t%s\n", u.Role)
	if u.Profile != nil && u.Profile.BusinessName != "" {
		fmt.Fprintf(w, "Business\t%s\n", u.Profile.BusinessName)
	}
	addr := u.Address()
	fmt.Fprintf(w, "Address\t%s %s, %s %s, %s, %s %s\n",
		addr.HouseNo, addr.Street, addr.Village, addr.Mandal, addr.District, addr.State, addr.Pincode)
	if !u.HasAddress() {
		fmt.Fprintln(w, "\t(add village and pincode before checking out)")
	}
}
