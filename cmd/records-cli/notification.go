package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/healthrecords/healthrecords/internal/domain/notification"
)

func notificationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "View and manage notifications",
	}
	cmd.AddCommand(
		notificationListCmd(),
		notificationCountCmd(),
		notificationReadCmd(),
		notificationReadAllCmd(),
	)
	return cmd
}

func printNotifications(notifications []notification.Notification) {
	if len(notifications) == 0 {
		fmt.Println("No notifications")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tREAD")
	for _, n := range notifications {
		read := ""
		if n.IsRead {
			read = "✓"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", n.ID, n.Type, n.Title, read)
	}
	w.Flush()
}

func notificationListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			unread, _ := cmd.Flags().GetBool("unread")

			app, err := newApp()
			if err != nil {
				return err
			}
			if unread {
				err = app.notifications.LoadUnread(cmd.Context())
			} else {
				err = app.notifications.Load(cmd.Context())
			}
			if err != nil {
				return err
			}
			printNotifications(app.notifications.Store().Items())
			return nil
		},
	}
	cmd.Flags().Bool("unread", false, "Show only unread notifications")
	return cmd
}

func notificationCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the unread notification count",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			count, err := app.notifications.UnreadCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(count)
			return nil
		},
	}
}

func notificationReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid notification id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.notifications.MarkRead(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Marked notification %d as read\n", id)
			return nil
		},
	}
}

func notificationReadAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark all notifications as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.notifications.MarkAllRead(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("All notifications marked as read")
			return nil
		},
	}
}
