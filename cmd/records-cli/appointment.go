package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/healthrecords/healthrecords/internal/domain/appointment"
)

func appointmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt"},
		Short:   "Manage appointments",
	}
	cmd.AddCommand(
		appointmentListCmd(),
		appointmentShowCmd(),
		appointmentWatchCmd(),
		appointmentCreateCmd(),
		appointmentEditCmd(),
		appointmentApproveCmd(),
		appointmentRejectCmd(),
		appointmentDeleteCmd(),
	)
	return cmd
}

func printAppointments(appts []appointment.Appointment) {
	if len(appts) == 0 {
		fmt.Println("No appointments found")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tWHEN\tPATIENT\tDOCTOR\tSTATUS")
	for _, a := range appts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Title, a.AppointmentDateTime.Format("2006-01-02 15:04"),
			a.Patient.DisplayName(), a.Doctor.DisplayName(), a.Status)
	}
	w.Flush()
}

func appointmentListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments for the current role",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")

			app, err := newApp()
			if err != nil {
				return err
			}
			if start != "" || end != "" {
				err = app.appointments.LoadByDateRange(cmd.Context(), start, end)
			} else {
				err = app.appointments.Load(cmd.Context())
			}
			if err != nil {
				return err
			}
			printAppointments(app.appointments.Store().Items())
			return nil
		},
	}
	cmd.Flags().String("start", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "Range end (YYYY-MM-DD)")
	return cmd
}

func appointmentShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one appointment with resolved participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			appt, err := app.appointments.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			doctor, err := app.appointments.ResolveDoctor(cmd.Context(), appt, app.users)
			if err != nil {
				return err
			}
			patient, err := app.appointments.ResolvePatient(cmd.Context(), appt, app.users)
			if err != nil {
				return err
			}
			fmt.Printf("Appointment %d: %s\n", appt.ID, appt.Title)
			fmt.Printf("  When:    %s\n", appt.AppointmentDateTime.Format("2006-01-02 15:04"))
			fmt.Printf("  Status:  %s\n", appt.Status)
			fmt.Printf("  Patient: %s <%s>\n", patient.FullName(), patient.Email)
			fmt.Printf("  Doctor:  %s <%s>\n", doctor.FullName(), doctor.Email)
			if appt.Description != "" {
				fmt.Printf("  Details: %s\n", appt.Description)
			}
			if appt.IsVideoConsultation {
				fmt.Printf("  Video:   %s\n", appt.MeetingLink)
			}
			return nil
		},
	}
}

func appointmentWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll the appointment list until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			watcher := appointment.NewWatcher(app.appointments, app.cfg.RefreshInterval(), app.log)
			go watcher.Run(cmd.Context())

			ticker := time.NewTicker(app.cfg.RefreshInterval())
			defer ticker.Stop()
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
					printAppointments(app.appointments.Store().Items())
				}
			}
		},
	}
}

func appointmentInput(cmd *cobra.Command) (appointment.CreateInput, error) {
	in := appointment.CreateInput{}
	in.Title, _ = cmd.Flags().GetString("title")
	in.Description, _ = cmd.Flags().GetString("description")
	in.Notes, _ = cmd.Flags().GetString("notes")
	in.MeetingLink, _ = cmd.Flags().GetString("meeting-link")
	in.IsVideoConsultation, _ = cmd.Flags().GetBool("video")
	in.DoctorID, _ = cmd.Flags().GetInt64("doctor")
	in.PatientID, _ = cmd.Flags().GetInt64("patient")

	when, _ := cmd.Flags().GetString("at")
	if when != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04", when, time.Local)
		if err != nil {
			return in, fmt.Errorf("invalid --at value %q: use YYYY-MM-DD HH:MM", when)
		}
		in.AppointmentDateTime = t
	}
	return in, nil
}

func addAppointmentFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Appointment title")
	cmd.Flags().String("description", "", "Description")
	cmd.Flags().String("notes", "", "Notes")
	cmd.Flags().String("at", "", "Date and time (YYYY-MM-DD HH:MM)")
	cmd.Flags().Int64("doctor", 0, "Doctor id")
	cmd.Flags().Int64("patient", 0, "Patient id (doctors and admins only)")
	cmd.Flags().Bool("video", false, "Video consultation")
	cmd.Flags().String("meeting-link", "", "Meeting link for video consultations")
}

func appointmentCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Request a new appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			in, err := appointmentInput(cmd)
			if err != nil {
				return err
			}
			open, _ := cmd.Flags().GetBool("open")
			var appt *appointment.Appointment
			if open {
				appt, err = app.appointments.CreateOpen(cmd.Context(), in)
			} else {
				appt, err = app.appointments.Create(cmd.Context(), in)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Created appointment %d (%s)\n", appt.ID, appt.Status)
			return nil
		},
	}
	addAppointmentFlags(cmd)
	cmd.Flags().Bool("open", false, "Use the unauthenticated open endpoint")
	return cmd
}

func appointmentEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			in, err := appointmentInput(cmd)
			if err != nil {
				return err
			}
			appt, err := app.appointments.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Printf("Updated appointment %d (%s)\n", appt.ID, appt.Status)
			return nil
		},
	}
	addAppointmentFlags(cmd)
	return cmd
}

func appointmentApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Confirm a pending appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			appt, err := app.appointments.Approve(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Appointment %d is now %s\n", appt.ID, appt.Status)
			return nil
		},
	}
}

func appointmentRejectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending appointment with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}
			reason, _ := cmd.Flags().GetString("reason")
			app, err := newApp()
			if err != nil {
				return err
			}
			appt, err := app.appointments.Reject(cmd.Context(), id, reason)
			if err != nil {
				return err
			}
			fmt.Printf("Appointment %d is now %s\n", appt.ID, appt.Status)
			return nil
		},
	}
	cmd.Flags().String("reason", "", "Rejection reason (required)")
	return cmd
}

func appointmentDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an appointment (asks for confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			yes, _ := cmd.Flags().GetBool("yes")

			deleted, err := app.appointments.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				if !yes {
					fmt.Printf("Delete appointment %d? [y/N]: ", id)
					reader := bufio.NewReader(os.Stdin)
					line, _ := reader.ReadString('\n')
					if !strings.EqualFold(strings.TrimSpace(line), "y") {
						fmt.Println("Cancelled")
						return nil
					}
				}
				deleted, err = app.appointments.Delete(cmd.Context(), id)
				if err != nil {
					return err
				}
			}
			if !deleted {
				return fmt.Errorf("confirmation expired, run the command again")
			}
			fmt.Printf("Deleted appointment %d\n", id)
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	return cmd
}
