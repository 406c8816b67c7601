package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthrecords/healthrecords/internal/config"
	"github.com/healthrecords/healthrecords/internal/domain/appointment"
	"github.com/healthrecords/healthrecords/internal/domain/identity"
	"github.com/healthrecords/healthrecords/internal/domain/labreport"
	"github.com/healthrecords/healthrecords/internal/domain/medicalrecord"
	"github.com/healthrecords/healthrecords/internal/domain/notification"
	"github.com/healthrecords/healthrecords/internal/domain/prescription"
	"github.com/healthrecords/healthrecords/internal/platform/api"
	"github.com/healthrecords/healthrecords/internal/platform/session"
)

// app wires the client stack once per invocation and hands each subcommand
// the services it needs.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	session *session.Session
	users   *identity.UsersClient

	auth          *identity.AuthService
	directory     *identity.UsersService
	appointments  *appointment.Service
	records       *medicalrecord.Service
	labReports    *labreport.Service
	prescriptions *prescription.Service
	notifications *notification.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	if cfg.IsDev() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	sess := session.New(session.NewFileTokenStore(cfg.TokenFile))
	client := api.NewClient(cfg.APIBaseURL, cfg.OpenAPIBaseURL, cfg.HTTPTimeout(), sess, logger)

	users := identity.NewUsersClient(client)
	return &app{
		cfg:           cfg,
		log:           logger,
		session:       sess,
		users:         users,
		auth:          identity.NewAuthService(identity.NewAuthClient(client), sess, logger),
		directory:     identity.NewUsersService(users, logger),
		appointments:  appointment.NewService(appointment.NewClient(client), sess, logger),
		records:       medicalrecord.NewService(medicalrecord.NewClient(client), logger),
		labReports:    labreport.NewService(labreport.NewClient(client), logger),
		prescriptions: prescription.NewService(prescription.NewClient(client), logger),
		notifications: notification.NewService(notification.NewClient(client), logger),
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "records-cli",
		Short:         "Health records client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(authCmds()...)
	rootCmd.AddCommand(appointmentCmd())
	rootCmd.AddCommand(medicalRecordCmd())
	rootCmd.AddCommand(labReportCmd())
	rootCmd.AddCommand(prescriptionCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(notificationCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
