package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/healthrecords/healthrecords/internal/domain/identity"
)

func authCmds() []*cobra.Command {
	return []*cobra.Command{loginCmd(), registerCmd(), logoutCmd(), whoamiCmd()}
}

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			app, err := newApp()
			if err != nil {
				return err
			}
			user, err := app.auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", user.FullName(), user.Role)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	return cmd
}

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := identity.Registration{}
			reg.FirstName, _ = cmd.Flags().GetString("first-name")
			reg.LastName, _ = cmd.Flags().GetString("last-name")
			reg.Email, _ = cmd.Flags().GetString("email")
			reg.Password, _ = cmd.Flags().GetString("password")
			reg.Role, _ = cmd.Flags().GetString("role")

			app, err := newApp()
			if err != nil {
				return err
			}
			user, err := app.auth.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s (%s)\n", user.FullName(), user.Role)
			return nil
		},
	}
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	cmd.Flags().String("role", "PATIENT", "Account role (PATIENT, DOCTOR, ADMIN)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.auth.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if !app.session.IsAuthenticated() {
				return fmt.Errorf("not logged in")
			}
			user, err := app.auth.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s> %s\n", user.FullName(), user.Email, user.Role)
			return nil
		},
	}
}
