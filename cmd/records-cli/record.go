package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/healthrecords/healthrecords/internal/domain/medicalrecord"
)

func medicalRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "medical-records",
		Aliases: []string{"records"},
		Short:   "Manage medical records",
	}
	cmd.AddCommand(
		medicalRecordListCmd(),
		medicalRecordShowCmd(),
		medicalRecordCreateCmd(),
		medicalRecordEditCmd(),
		medicalRecordDeleteCmd(),
	)
	return cmd
}

func medicalRecordListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List medical records",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.records.Load(cmd.Context()); err != nil {
				return err
			}
			records := app.records.Store().Items()
			if len(records) == 0 {
				fmt.Println("No medical records found")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDIAGNOSIS\tTREATMENT\tPATIENT\tDOCTOR")
			for _, r := range records {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					r.ID, r.Diagnosis, r.Treatment, r.Patient.FullName(), r.Doctor.FullName())
			}
			w.Flush()
			return nil
		},
	}
}

func medicalRecordShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one medical record with its prescriptions and lab reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			record, err := app.records.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Record %d\n", record.ID)
			fmt.Printf("  Diagnosis: %s\n", record.Diagnosis)
			fmt.Printf("  Treatment: %s\n", record.Treatment)
			if record.Notes != "" {
				fmt.Printf("  Notes:     %s\n", record.Notes)
			}
			fmt.Printf("  Patient:   %s\n", record.Patient.FullName())
			fmt.Printf("  Doctor:    %s\n", record.Doctor.FullName())
			for _, p := range record.Prescriptions {
				fmt.Printf("  Prescription %d: %s %s\n", p.ID, p.MedicationName, p.Dosage)
			}
			for _, l := range record.LabReports {
				fmt.Printf("  Lab report %d: %s\n", l.ID, l.TestName)
			}
			return nil
		},
	}
}

func recordInput(cmd *cobra.Command) medicalrecord.Input {
	in := medicalrecord.Input{}
	in.Diagnosis, _ = cmd.Flags().GetString("diagnosis")
	in.Treatment, _ = cmd.Flags().GetString("treatment")
	in.Notes, _ = cmd.Flags().GetString("notes")
	in.PatientID, _ = cmd.Flags().GetInt64("patient")
	in.DoctorID, _ = cmd.Flags().GetInt64("doctor")
	return in
}

func addRecordFlags(cmd *cobra.Command) {
	cmd.Flags().String("diagnosis", "", "Diagnosis")
	cmd.Flags().String("treatment", "", "Treatment")
	cmd.Flags().String("notes", "", "Notes")
	cmd.Flags().Int64("patient", 0, "Patient id")
	cmd.Flags().Int64("doctor", 0, "Doctor id")
}

func medicalRecordCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a medical record",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			record, err := app.records.Create(cmd.Context(), recordInput(cmd))
			if err != nil {
				return err
			}
			fmt.Printf("Created medical record %d\n", record.ID)
			return nil
		},
	}
	addRecordFlags(cmd)
	return cmd
}

func medicalRecordEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a medical record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			record, err := app.records.Update(cmd.Context(), id, recordInput(cmd))
			if err != nil {
				return err
			}
			fmt.Printf("Updated medical record %d\n", record.ID)
			return nil
		},
	}
	addRecordFlags(cmd)
	return cmd
}

func medicalRecordDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a medical record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.records.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted medical record %d\n", id)
			return nil
		},
	}
}
