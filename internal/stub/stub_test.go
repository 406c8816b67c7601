package stub_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthrecords/healthrecords/internal/domain/appointment"
	"github.com/healthrecords/healthrecords/internal/domain/identity"
	"github.com/healthrecords/healthrecords/internal/domain/labreport"
	"github.com/healthrecords/healthrecords/internal/domain/notification"
	"github.com/healthrecords/healthrecords/internal/platform/api"
	"github.com/healthrecords/healthrecords/internal/platform/session"
	"github.com/healthrecords/healthrecords/internal/platform/upload"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
	"github.com/healthrecords/healthrecords/internal/stub"
)

type actor struct {
	session *session.Session
	api     *api.Client
	auth    *identity.AuthService
	user    *identity.User
}

func newActor(t *testing.T, url string) *actor {
	t.Helper()
	sess := session.New(&session.MemoryTokenStore{})
	client := api.NewClient(url, "", 5*time.Second, sess, zerolog.Nop())
	return &actor{
		session: sess,
		api:     client,
		auth:    identity.NewAuthService(identity.NewAuthClient(client), sess, zerolog.Nop()),
	}
}

func registerActor(t *testing.T, url, first, last, email, role string) *actor {
	t.Helper()
	a := newActor(t, url)
	user, err := a.auth.Register(context.Background(), identity.Registration{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  "secret",
		Role:      role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	a.user = user
	return a
}

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(stub.New("test-secret", zerolog.Nop()).Handler())
	t.Cleanup(server.Close)
	return server
}

func TestLoginFlow(t *testing.T) {
	server := newStubServer(t)
	registerActor(t, server.URL, "Ada", "Lovelace", "ada@example.com", "PATIENT")

	fresh := newActor(t, server.URL)
	user, err := fresh.auth.Login(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != identity.RolePatient {
		t.Fatalf("unexpected role: %q", user.Role)
	}
	if !fresh.session.IsAuthenticated() {
		t.Fatal("login should populate the session")
	}

	profile, err := fresh.auth.Profile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Email != "ada@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, err := fresh.auth.Login(context.Background(), "ada@example.com", "wrong"); err == nil {
		t.Fatal("wrong password should fail")
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	server := newStubServer(t)
	doctor := registerActor(t, server.URL, "Gregory", "House", "house@example.com", "DOCTOR")
	patient := registerActor(t, server.URL, "Ada", "Lovelace", "ada@example.com", "PATIENT")

	patientAppts := appointment.NewService(appointment.NewClient(patient.api), patient.session, zerolog.Nop())
	doctorAppts := appointment.NewService(appointment.NewClient(doctor.api), doctor.session, zerolog.Nop())

	ctx := context.Background()
	created, err := patientAppts.Create(ctx, appointment.CreateInput{
		Title:               "Checkup",
		AppointmentDateTime: time.Now().Add(24 * time.Hour),
		DoctorID:            doctor.user.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != appointment.StatusPending {
		t.Fatalf("new appointment should be pending, got %q", created.Status)
	}

	// The doctor sees the request in their upcoming list.
	if err := doctorAppts.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doctorAppts.Store().Len() != 1 {
		t.Fatalf("doctor should see 1 appointment, got %d", doctorAppts.Store().Len())
	}

	approved, err := doctorAppts.Approve(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.Status != appointment.StatusApproved {
		t.Fatalf("unexpected status: %q", approved.Status)
	}

	// Approving again must fail: the appointment is no longer pending.
	if _, err := doctorAppts.Approve(ctx, created.ID); err == nil {
		t.Fatal("confirming a non-pending appointment should fail")
	}

	// The patient was notified of both the request handling steps.
	patientNotifs := notification.NewService(notification.NewClient(patient.api), zerolog.Nop())
	count, err := patientNotifs.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("patient should have 1 unread notification, got %d", count)
	}
	if err := patientNotifs.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := patientNotifs.Store().Items()
	if len(items) != 1 || items[0].Type != notification.TypeAppointmentConfirmed {
		t.Fatalf("unexpected notifications: %+v", items)
	}

	if err := patientNotifs.MarkAllRead(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, _ = patientNotifs.UnreadCount(ctx)
	if count != 0 {
		t.Fatalf("expected 0 unread after mark-all-read, got %d", count)
	}
}

func TestRejectRequiresReasonAndCancels(t *testing.T) {
	server := newStubServer(t)
	doctor := registerActor(t, server.URL, "Gregory", "House", "house@example.com", "DOCTOR")
	patient := registerActor(t, server.URL, "Ada", "Lovelace", "ada@example.com", "PATIENT")

	patientAppts := appointment.NewService(appointment.NewClient(patient.api), patient.session, zerolog.Nop())
	doctorAppts := appointment.NewService(appointment.NewClient(doctor.api), doctor.session, zerolog.Nop())

	ctx := context.Background()
	created, err := patientAppts.Create(ctx, appointment.CreateInput{
		Title:               "Checkup",
		AppointmentDateTime: time.Now().Add(24 * time.Hour),
		DoctorID:            doctor.user.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := doctorAppts.Reject(ctx, created.ID, ""); err == nil {
		t.Fatal("reject without a reason should fail client-side")
	}

	rejected, err := doctorAppts.Reject(ctx, created.ID, "fully booked")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.Status != appointment.StatusCancelled {
		t.Fatalf("unexpected status: %q", rejected.Status)
	}
}

func TestCreateWithUnknownDoctor(t *testing.T) {
	server := newStubServer(t)
	patient := registerActor(t, server.URL, "Ada", "Lovelace", "ada@example.com", "PATIENT")
	patientAppts := appointment.NewService(appointment.NewClient(patient.api), patient.session, zerolog.Nop())

	_, err := patientAppts.Create(context.Background(), appointment.CreateInput{
		Title:               "Checkup",
		AppointmentDateTime: time.Now().Add(24 * time.Hour),
		DoctorID:            9999,
	})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %T: %v", err, err)
	}
	// The "ERROR: " title prefix is stripped at the boundary.
	if apiErr.Message != "Doctor not found" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestLabReportUploadAndDownload(t *testing.T) {
	server := newStubServer(t)
	doctor := registerActor(t, server.URL, "Gregory", "House", "house@example.com", "DOCTOR")
	patient := registerActor(t, server.URL, "Ada", "Lovelace", "ada@example.com", "PATIENT")

	labs := labreport.NewService(labreport.NewClient(doctor.api), zerolog.Nop())
	ctx := context.Background()

	pdf := []byte("%PDF-1.4 fake report body")
	report, err := labs.Create(ctx, labreport.Input{
		TestName:    "CBC",
		TestResults: "Normal",
		TestDate:    wire.NewDateTime(time.Now().Add(-48 * time.Hour)),
		ReportDate:  wire.NewDateTime(time.Now().Add(-24 * time.Hour)),
		PatientID:   patient.user.ID,
		DoctorID:    doctor.user.ID,
		File:        &upload.File{Name: "cbc.pdf", ContentType: "application/pdf", Data: pdf},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.FileName != "cbc.pdf" || report.FileSize != int64(len(pdf)) {
		t.Fatalf("file metadata not recorded: %+v", report)
	}

	data, contentType, name, err := labs.Download(ctx, report.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != string(pdf) {
		t.Fatal("downloaded bytes do not match the upload")
	}
	if contentType != "application/pdf" || name != "cbc.pdf" {
		t.Fatalf("unexpected metadata: %q %q", contentType, name)
	}

	if err := labs.LoadByPatient(ctx, patient.user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if labs.Store().Len() != 1 {
		t.Fatalf("expected 1 report for patient, got %d", labs.Store().Len())
	}
}

func TestUserDirectoryAccess(t *testing.T) {
	server := newStubServer(t)
	admin := registerActor(t, server.URL, "Root", "Admin", "admin@example.com", "ADMIN")
	registerActor(t, server.URL, "Gregory", "House", "house@example.com", "DOCTOR")
	patient := registerActor(t, server.URL, "Ada", "Lovelace", "ada@example.com", "PATIENT")

	ctx := context.Background()

	adminUsers := identity.NewUsersService(identity.NewUsersClient(admin.api), zerolog.Nop())
	if err := adminUsers.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adminUsers.Store().Len() != 3 {
		t.Fatalf("admin should see 3 users, got %d", adminUsers.Store().Len())
	}

	// The full list is admin-only.
	patientUsers := identity.NewUsersService(identity.NewUsersClient(patient.api), zerolog.Nop())
	if err := patientUsers.Load(ctx); err == nil {
		t.Fatal("patients must not list all users")
	}

	// The doctor directory is public (no token required).
	anon := newActor(t, server.URL)
	anonUsers := identity.NewUsersService(identity.NewUsersClient(anon.api), zerolog.Nop())
	doctors, err := anonUsers.Doctors(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doctors) != 1 || doctors[0].Role != identity.RoleDoctor {
		t.Fatalf("unexpected doctor directory: %+v", doctors)
	}
}
