package identity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/healthrecords/healthrecords/internal/platform/session"
	"github.com/healthrecords/healthrecords/internal/platform/store"
)

// AuthService drives login, registration, and profile maintenance against
// the injected session.
type AuthService struct {
	client  *AuthClient
	session *session.Session
	log     zerolog.Logger
}

func NewAuthService(client *AuthClient, sess *session.Session, log zerolog.Logger) *AuthService {
	return &AuthService{client: client, session: sess, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	res, err := s.client.Login(ctx, Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := s.session.Login(res.Token, res.User.Identity()); err != nil {
		s.log.Warn().Err(err).Msg("token not persisted")
	}
	return &res.User, nil
}

func (s *AuthService) Register(ctx context.Context, reg Registration) (*User, error) {
	if reg.FirstName == "" || reg.LastName == "" {
		return nil, fmt.Errorf("first and last name are required")
	}
	if reg.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if reg.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if ParseRole(reg.Role) == RoleUnknown {
		return nil, fmt.Errorf("role must be one of PATIENT, DOCTOR, ADMIN")
	}
	reg.Role = ParseRole(reg.Role).Wire()

	res, err := s.client.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	if err := s.session.Login(res.Token, res.User.Identity()); err != nil {
		s.log.Warn().Err(err).Msg("token not persisted")
	}
	return &res.User, nil
}

// Profile fetches the authenticated user and refreshes the session identity.
func (s *AuthService) Profile(ctx context.Context) (*User, error) {
	user, err := s.client.Profile(ctx)
	if err != nil {
		return nil, err
	}
	s.session.SetUser(user.Identity())
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, user User) (*User, error) {
	updated, err := s.client.UpdateProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	s.session.SetUser(updated.Identity())
	return updated, nil
}

func (s *AuthService) Logout() error {
	return s.session.Logout()
}

// Role returns the normalized role of the logged-in user.
func (s *AuthService) Role() Role {
	ident, ok := s.session.User()
	if !ok {
		return RoleUnknown
	}
	return ParseRole(ident.Role)
}

// UsersService is the store-backed user directory.
type UsersService struct {
	client *UsersClient
	users  *store.Slice[User]
	log    zerolog.Logger
}

func NewUsersService(client *UsersClient, log zerolog.Logger) *UsersService {
	return &UsersService{client: client, users: store.NewSlice[User](), log: log}
}

// Store exposes the slice for views.
func (s *UsersService) Store() *store.Slice[User] { return s.users }

// Load fetches the user list into the store. A stale response is discarded.
func (s *UsersService) Load(ctx context.Context) error {
	seq := s.users.Begin()
	users, err := s.client.List(ctx)
	if err != nil {
		s.users.Fail(seq, err.Error())
		return err
	}
	s.users.ApplyList(seq, users)
	return nil
}

func (s *UsersService) Get(ctx context.Context, id int64) (*User, error) {
	user, err := s.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.users.SetCurrent(*user)
	return user, nil
}

func (s *UsersService) Create(ctx context.Context, user User) (*User, error) {
	created, err := s.client.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.users.Append(*created)
	return created, nil
}

func (s *UsersService) Update(ctx context.Context, id int64, user User) (*User, error) {
	updated, err := s.client.Update(ctx, id, user)
	if err != nil {
		return nil, err
	}
	s.users.Patch(func(u User) bool { return u.ID == id }, *updated)
	return updated, nil
}

func (s *UsersService) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, id); err != nil {
		return err
	}
	s.users.Remove(func(u User) bool { return u.ID == id })
	return nil
}

// Doctors returns the public doctor directory (used to populate the doctor
// picker in appointment forms).
func (s *UsersService) Doctors(ctx context.Context) ([]User, error) {
	return s.client.Doctors(ctx)
}

// Patients returns the patients visible to the calling doctor.
func (s *UsersService) Patients(ctx context.Context) ([]User, error) {
	return s.client.Patients(ctx)
}
