// Package stub implements an in-memory development server covering the REST
// surface the client consumes. It exists so the client can be exercised end
// to end without the real backend: data lives in maps, tokens are HS256
// JWTs, and the error envelopes mirror the shapes the real backend emits.
package stub

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/healthrecords/healthrecords/internal/domain/appointment"
	"github.com/healthrecords/healthrecords/internal/domain/identity"
	"github.com/healthrecords/healthrecords/internal/domain/labreport"
	"github.com/healthrecords/healthrecords/internal/domain/medicalrecord"
	"github.com/healthrecords/healthrecords/internal/domain/notification"
	"github.com/healthrecords/healthrecords/internal/domain/prescription"
)

const tokenTTL = 24 * time.Hour

// Server holds all stub state.
type Server struct {
	mu             sync.Mutex
	nextID         int64
	users          map[int64]*identity.User
	passwords      map[int64]string
	appointments   map[int64]*appointment.Appointment
	rejectReasons  map[int64]string
	medicalRecords map[int64]*medicalrecord.MedicalRecord
	labReports     map[int64]*labreport.LabReport
	labFiles       map[int64][]byte
	prescriptions  map[int64]*prescription.Prescription
	rxFiles        map[int64][]byte
	notifications  map[int64]*notification.Notification

	secret []byte
	now    func() time.Time
	log    zerolog.Logger
}

func New(secret string, log zerolog.Logger) *Server {
	return &Server{
		users:          make(map[int64]*identity.User),
		passwords:      make(map[int64]string),
		appointments:   make(map[int64]*appointment.Appointment),
		rejectReasons:  make(map[int64]string),
		medicalRecords: make(map[int64]*medicalrecord.MedicalRecord),
		labReports:     make(map[int64]*labreport.LabReport),
		labFiles:       make(map[int64][]byte),
		prescriptions:  make(map[int64]*prescription.Prescription),
		rxFiles:        make(map[int64][]byte),
		notifications:  make(map[int64]*notification.Notification),
		secret:         []byte(secret),
		now:            time.Now,
		log:            log,
	}
}

func (s *Server) newID() int64 {
	s.nextID++
	return s.nextID
}

// Handler builds the echo instance with all routes registered.
func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Use(s.requestLogger)

	// Open endpoints
	e.POST("/auth/register", s.register)
	e.POST("/auth/login", s.login)
	e.GET("/public/doctors", s.listDoctors)
	e.POST("/open/appointments", s.createAppointmentOpen)

	// Authenticated endpoints
	authed := e.Group("", s.requireAuth)
	authed.GET("/auth/profile", s.profile)
	authed.PUT("/auth/profile", s.updateProfile)

	authed.GET("/users", s.listUsers)
	authed.GET("/users/patients", s.listPatients)
	authed.GET("/users/:id", s.getUser)
	authed.POST("/users", s.createUser)
	authed.PUT("/users/:id", s.updateUser)
	authed.DELETE("/users/:id", s.deleteUser)

	authed.GET("/appointments", s.listAppointments)
	authed.GET("/appointments/my-appointments", s.myAppointments)
	authed.GET("/appointments/my-upcoming-appointments", s.myUpcomingAppointments)
	authed.GET("/appointments/date-range", s.appointmentsByDateRange)
	authed.GET("/appointments/:id", s.getAppointment)
	authed.POST("/appointments", s.createAppointment)
	authed.PUT("/appointments/:id", s.updateAppointment)
	authed.DELETE("/appointments/:id", s.deleteAppointment)
	authed.PUT("/appointments/:id/confirm", s.confirmAppointment)
	authed.PUT("/appointments/:id/reject", s.rejectAppointment)

	authed.GET("/medical-records", s.listMedicalRecords)
	authed.GET("/medical-records/:id", s.getMedicalRecord)
	authed.POST("/medical-records", s.createMedicalRecord)
	authed.PUT("/medical-records/:id", s.updateMedicalRecord)
	authed.DELETE("/medical-records/:id", s.deleteMedicalRecord)

	authed.GET("/lab-reports", s.listLabReports)
	authed.GET("/lab-reports/patient/:id", s.labReportsByPatient)
	authed.GET("/lab-reports/doctor/:id", s.labReportsByDoctor)
	authed.GET("/lab-reports/:id", s.getLabReport)
	authed.GET("/lab-reports/:id/download", s.downloadLabReport)
	authed.POST("/lab-reports", s.createLabReport)
	authed.PUT("/lab-reports/:id", s.updateLabReport)
	authed.DELETE("/lab-reports/:id", s.deleteLabReport)

	authed.GET("/prescriptions", s.listPrescriptions)
	authed.GET("/prescriptions/patient/:id", s.prescriptionsByPatient)
	authed.GET("/prescriptions/doctor/:id", s.prescriptionsByDoctor)
	authed.GET("/prescriptions/medical-record/:id", s.prescriptionsByMedicalRecord)
	authed.GET("/prescriptions/:id", s.getPrescription)
	authed.GET("/prescriptions/:id/download", s.downloadPrescription)
	authed.POST("/prescriptions", s.createPrescription)
	authed.PUT("/prescriptions/:id", s.updatePrescription)
	authed.DELETE("/prescriptions/:id", s.deletePrescription)

	authed.GET("/notifications", s.listNotifications)
	authed.GET("/notifications/unread", s.unreadNotifications)
	authed.GET("/notifications/count-unread", s.countUnreadNotifications)
	authed.GET("/notifications/:id", s.getNotification)
	authed.PUT("/notifications/:id/mark-read", s.markNotificationRead)
	authed.PUT("/notifications/mark-all-read", s.markAllNotificationsRead)

	return e
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		evt := s.log.Info()
		if err != nil {
			evt = s.log.Error().Err(err)
		}
		evt.
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", c.Response().Status).
			Dur("latency", time.Since(start)).
			Msg("request")

		return err
	}
}

// issueToken mints an HS256 bearer token for the user.
func (s *Server) issueToken(user *identity.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"uid":   user.ID,
		"email": user.Email,
		"role":  user.Role.Wire(),
		"exp":   s.now().Add(tokenTTL).Unix(),
		"iat":   s.now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}
		token, err := jwt.Parse(header[len(prefix):], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}
		uid, ok := claims["uid"].(float64)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}

		s.mu.Lock()
		user, exists := s.users[int64(uid)]
		s.mu.Unlock()
		if !exists {
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
		}
		c.Set("user", user)
		return next(c)
	}
}

func currentUser(c echo.Context) *identity.User {
	user, _ := c.Get("user").(*identity.User)
	return user
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
