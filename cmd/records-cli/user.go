package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/healthrecords/healthrecords/internal/domain/identity"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users (admin) and browse directories",
	}
	cmd.AddCommand(
		userListCmd(),
		userDoctorsCmd(),
		userPatientsCmd(),
		userCreateCmd(),
		userEditCmd(),
		userDeleteCmd(),
	)
	return cmd
}

func printUsers(users []identity.User) {
	if len(users) == 0 {
		fmt.Println("No users found")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.FullName(), u.Email, u.Role)
	}
	w.Flush()
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.directory.Load(cmd.Context()); err != nil {
				return err
			}
			printUsers(app.directory.Store().Items())
			return nil
		},
	}
}

func userDoctorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctors",
		Short: "List the public doctor directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			doctors, err := app.directory.Doctors(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(doctors)
			return nil
		},
	}
}

func userPatientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patients",
		Short: "List patients (doctors and admins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			patients, err := app.directory.Patients(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(patients)
			return nil
		},
	}
}

func userFromFlags(cmd *cobra.Command) identity.User {
	user := identity.User{}
	user.FirstName, _ = cmd.Flags().GetString("first-name")
	user.LastName, _ = cmd.Flags().GetString("last-name")
	user.Email, _ = cmd.Flags().GetString("email")
	role, _ := cmd.Flags().GetString("role")
	user.Role = identity.ParseRole(role)
	return user
}

func addUserFlags(cmd *cobra.Command) {
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("email", "", "Email")
	cmd.Flags().String("role", "", "Role (PATIENT, DOCTOR, ADMIN)")
}

func userCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			user, err := app.directory.Create(cmd.Context(), userFromFlags(cmd))
			if err != nil {
				return err
			}
			fmt.Printf("Created user %d (%s)\n", user.ID, user.FullName())
			return nil
		},
	}
	addUserFlags(cmd)
	return cmd
}

func userEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a user (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			user, err := app.directory.Update(cmd.Context(), id, userFromFlags(cmd))
			if err != nil {
				return err
			}
			fmt.Printf("Updated user %d (%s)\n", user.ID, user.FullName())
			return nil
		},
	}
	addUserFlags(cmd)
	return cmd
}

func userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.directory.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted user %d\n", id)
			return nil
		},
	}
}
