package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/healthrecords/healthrecords/internal/domain/prescription"
	"github.com/healthrecords/healthrecords/internal/platform/upload"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

func prescriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prescriptions",
		Aliases: []string{"rx"},
		Short:   "Manage prescriptions",
	}
	cmd.AddCommand(
		prescriptionListCmd(),
		prescriptionCreateCmd(),
		prescriptionEditCmd(),
		prescriptionDeleteCmd(),
		prescriptionDownloadCmd(),
	)
	return cmd
}

func prescriptionListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prescriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			patientID, _ := cmd.Flags().GetInt64("patient")
			doctorID, _ := cmd.Flags().GetInt64("doctor")
			recordID, _ := cmd.Flags().GetInt64("record")

			app, err := newApp()
			if err != nil {
				return err
			}
			switch {
			case patientID != 0:
				err = app.prescriptions.LoadByPatient(cmd.Context(), patientID)
			case doctorID != 0:
				err = app.prescriptions.LoadByDoctor(cmd.Context(), doctorID)
			case recordID != 0:
				err = app.prescriptions.LoadByMedicalRecord(cmd.Context(), recordID)
			default:
				err = app.prescriptions.Load(cmd.Context())
			}
			if err != nil {
				return err
			}
			prescriptions := app.prescriptions.Store().Items()
			if len(prescriptions) == 0 {
				fmt.Println("No prescriptions found")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMEDICATION\tDOSAGE\tSTART\tEND\tPATIENT")
			for _, p := range prescriptions {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.MedicationName, p.Dosage,
					p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"),
					p.PatientName)
			}
			w.Flush()
			return nil
		},
	}
	cmd.Flags().Int64("patient", 0, "Filter by patient id")
	cmd.Flags().Int64("doctor", 0, "Filter by doctor id")
	cmd.Flags().Int64("record", 0, "Filter by medical record id")
	return cmd
}

func prescriptionInput(cmd *cobra.Command) (prescription.Input, error) {
	in := prescription.Input{}
	in.MedicationName, _ = cmd.Flags().GetString("medication")
	in.Dosage, _ = cmd.Flags().GetString("dosage")
	in.Instructions, _ = cmd.Flags().GetString("instructions")
	in.MedicalRecordID, _ = cmd.Flags().GetInt64("record")

	for _, f := range []struct {
		flag string
		dst  *wire.DateTime
	}{
		{"start", &in.StartDate},
		{"end", &in.EndDate},
	} {
		raw, _ := cmd.Flags().GetString(f.flag)
		if raw == "" {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return in, fmt.Errorf("invalid --%s value %q: use YYYY-MM-DD", f.flag, raw)
		}
		*f.dst = wire.NewDateTime(t)
	}

	path, _ := cmd.Flags().GetString("file")
	if path != "" {
		file, err := upload.Open(path)
		if err != nil {
			return in, err
		}
		in.File = file
	}
	return in, nil
}

func addPrescriptionFlags(cmd *cobra.Command) {
	cmd.Flags().String("medication", "", "Medication name")
	cmd.Flags().String("dosage", "", "Dosage")
	cmd.Flags().String("instructions", "", "Instructions")
	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().Int64("record", 0, "Medical record id")
	cmd.Flags().String("file", "", "Attachment path (PDF or image, max 10MB)")
}

func prescriptionCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a prescription, optionally with an attachment",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			in, err := prescriptionInput(cmd)
			if err != nil {
				return err
			}
			p, err := app.prescriptions.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Created prescription %d\n", p.ID)
			return nil
		},
	}
	addPrescriptionFlags(cmd)
	return cmd
}

func prescriptionEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a prescription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid prescription id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			in, err := prescriptionInput(cmd)
			if err != nil {
				return err
			}
			p, err := app.prescriptions.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Printf("Updated prescription %d\n", p.ID)
			return nil
		},
	}
	addPrescriptionFlags(cmd)
	return cmd
}

func prescriptionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prescription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid prescription id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.prescriptions.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted prescription %d\n", id)
			return nil
		},
	}
}

func prescriptionDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a prescription attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid prescription id %q", args[0])
			}
			out, _ := cmd.Flags().GetString("out")

			app, err := newApp()
			if err != nil {
				return err
			}
			data, _, name, err := app.prescriptions.Download(cmd.Context(), id)
			if err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			if out == "" {
				out = fmt.Sprintf("prescription-%d", id)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Saved %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().String("out", "", "Output path (defaults to the server-suggested filename)")
	return cmd
}
