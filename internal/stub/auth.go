package stub

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/healthrecords/healthrecords/internal/domain/identity"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	role := identity.ParseRole(req.Role)
	if role == identity.RoleUnknown {
		role = identity.RolePatient
	}

	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			s.mu.Unlock()
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
	}
	user := &identity.User{
		ID:        s.newID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      role,
		CreatedAt: wire.NewDateTime(s.now()),
		UpdatedAt: wire.NewDateTime(s.now()),
	}
	s.users[user.ID] = user
	s.passwords[user.ID] = req.Password
	s.mu.Unlock()

	token, err := s.issueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "token issuance failed")
	}
	return c.JSON(http.StatusOK, identity.AuthResponse{Token: token, User: *user})
}

func (s *Server) login(c echo.Context) error {
	var creds identity.Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	var user *identity.User
	for _, u := range s.users {
		if strings.EqualFold(u.Email, creds.Email) {
			user = u
			break
		}
	}
	valid := user != nil && s.passwords[user.ID] == creds.Password
	s.mu.Unlock()

	if !valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	token, err := s.issueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "token issuance failed")
	}
	return c.JSON(http.StatusOK, identity.AuthResponse{Token: token, User: *user})
}

func (s *Server) profile(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) updateProfile(c echo.Context) error {
	var update identity.User
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	user.UpdatedAt = wire.NewDateTime(s.now())
	return c.JSON(http.StatusOK, user)
}

func (s *Server) listUsers(c echo.Context) error {
	if currentUser(c).Role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]*identity.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) listDoctors(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doctors := []*identity.User{}
	for _, u := range s.users {
		if u.Role == identity.RoleDoctor {
			doctors = append(doctors, u)
		}
	}
	return c.JSON(http.StatusOK, doctors)
}

func (s *Server) listPatients(c echo.Context) error {
	role := currentUser(c).Role
	if role != identity.RoleDoctor && role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "doctor or admin access required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	patients := []*identity.User{}
	for _, u := range s.users {
		if u.Role == identity.RolePatient {
			patients = append(patients, u)
		}
	}
	return c.JSON(http.StatusOK, patients)
}

func (s *Server) getUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) createUser(c echo.Context) error {
	if currentUser(c).Role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	}
	var user identity.User
	if err := c.Bind(&user); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.newID()
	user.CreatedAt = wire.NewDateTime(s.now())
	user.UpdatedAt = wire.NewDateTime(s.now())
	s.users[user.ID] = &user
	return c.JSON(http.StatusCreated, &user)
}

func (s *Server) updateUser(c echo.Context) error {
	if currentUser(c).Role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var update identity.User
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	if update.Role != identity.RoleUnknown {
		user.Role = update.Role
	}
	user.UpdatedAt = wire.NewDateTime(s.now())
	return c.JSON(http.StatusOK, user)
}

func (s *Server) deleteUser(c echo.Context) error {
	if currentUser(c).Role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	delete(s.users, id)
	delete(s.passwords, id)
	return c.NoContent(http.StatusNoContent)
}
