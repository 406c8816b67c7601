package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/healthrecords/healthrecords/internal/domain/labreport"
	"github.com/healthrecords/healthrecords/internal/platform/upload"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

func labReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lab-reports",
		Aliases: []string{"labs"},
		Short:   "Manage lab reports",
	}
	cmd.AddCommand(
		labReportListCmd(),
		labReportCreateCmd(),
		labReportEditCmd(),
		labReportDeleteCmd(),
		labReportDownloadCmd(),
	)
	return cmd
}

func labReportListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lab reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			patientID, _ := cmd.Flags().GetInt64("patient")
			doctorID, _ := cmd.Flags().GetInt64("doctor")

			app, err := newApp()
			if err != nil {
				return err
			}
			switch {
			case patientID != 0:
				err = app.labReports.LoadByPatient(cmd.Context(), patientID)
			case doctorID != 0:
				err = app.labReports.LoadByDoctor(cmd.Context(), doctorID)
			default:
				err = app.labReports.Load(cmd.Context())
			}
			if err != nil {
				return err
			}
			reports := app.labReports.Store().Items()
			if len(reports) == 0 {
				fmt.Println("No lab reports found")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTEST\tPATIENT\tDOCTOR\tTEST DATE\tFILE")
			for _, r := range reports {
				file := "-"
				if r.FileName != "" {
					file = r.FileName
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.TestName, r.Patient.FullName(), r.Doctor.FullName(),
					r.TestDate.Format("2006-01-02"), file)
			}
			w.Flush()
			return nil
		},
	}
	cmd.Flags().Int64("patient", 0, "Filter by patient id")
	cmd.Flags().Int64("doctor", 0, "Filter by doctor id")
	return cmd
}

func labReportInput(cmd *cobra.Command) (labreport.Input, error) {
	in := labreport.Input{}
	in.TestName, _ = cmd.Flags().GetString("test-name")
	in.TestResults, _ = cmd.Flags().GetString("results")
	in.PatientID, _ = cmd.Flags().GetInt64("patient")
	in.DoctorID, _ = cmd.Flags().GetInt64("doctor")
	in.MedicalRecordID, _ = cmd.Flags().GetInt64("record")

	for _, f := range []struct {
		flag string
		dst  *wire.DateTime
	}{
		{"test-date", &in.TestDate},
		{"report-date", &in.ReportDate},
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

func addLabReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("test-name", "", "Test name")
	cmd.Flags().String("results", "", "Test results")
	cmd.Flags().String("test-date", "", "Test date (YYYY-MM-DD)")
	cmd.Flags().String("report-date", "", "Report date (YYYY-MM-DD)")
	cmd.Flags().Int64("patient", 0, "Patient id")
	cmd.Flags().Int64("doctor", 0, "Doctor id")
	cmd.Flags().Int64("record", 0, "Medical record id")
	cmd.Flags().String("file", "", "Attachment path (PDF or image, max 10MB)")
}

func labReportCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a lab report, optionally with an attachment",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			in, err := labReportInput(cmd)
			if err != nil {
				return err
			}
			report, err := app.labReports.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Created lab report %d\n", report.ID)
			return nil
		},
	}
	addLabReportFlags(cmd)
	return cmd
}

func labReportEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a lab report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lab report id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			in, err := labReportInput(cmd)
			if err != nil {
				return err
			}
			report, err := app.labReports.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Printf("Updated lab report %d\n", report.ID)
			return nil
		},
	}
	addLabReportFlags(cmd)
	return cmd
}

func labReportDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a lab report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lab report id %q", args[0])
			}
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.labReports.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted lab report %d\n", id)
			return nil
		},
	}
}

func labReportDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a lab report attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lab report id %q", args[0])
			}
			out, _ := cmd.Flags().GetString("out")

			app, err := newApp()
			if err != nil {
				return err
			}
			data, _, name, err := app.labReports.Download(cmd.Context(), id)
			if err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			if out == "" {
				out = fmt.Sprintf("lab-report-%d", id)
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
