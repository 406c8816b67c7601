package identity

import (
	"context"
	"fmt"

	"github.com/healthrecords/healthrecords/internal/platform/api"
)

// AuthClient is the call group for the /auth endpoints.
type AuthClient struct {
	api *api.Client
}

func NewAuthClient(client *api.Client) *AuthClient {
	return &AuthClient{api: client}
}

func (c *AuthClient) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.api.Post(ctx, "/auth/login", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *AuthClient) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.api.Post(ctx, "/auth/register", reg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *AuthClient) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.api.Get(ctx, "/auth/profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *AuthClient) UpdateProfile(ctx context.Context, user User) (*User, error) {
	var updated User
	if err := c.api.Put(ctx, "/auth/profile", user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UsersClient is the call group for the /users endpoints plus the public
// doctor directory.
type UsersClient struct {
	api *api.Client
}

func NewUsersClient(client *api.Client) *UsersClient {
	return &UsersClient{api: client}
}

func (c *UsersClient) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.api.Get(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *UsersClient) Get(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.api.Get(ctx, fmt.Sprintf("/users/%d", id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *UsersClient) Create(ctx context.Context, user User) (*User, error) {
	var created User
	if err := c.api.Post(ctx, "/users", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *UsersClient) Update(ctx context.Context, id int64, user User) (*User, error) {
	var updated User
	if err := c.api.Put(ctx, fmt.Sprintf("/users/%d", id), user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *UsersClient) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/users/%d", id))
}

// Doctors lists the public (unauthenticated) doctor directory.
func (c *UsersClient) Doctors(ctx context.Context) ([]User, error) {
	var doctors []User
	if err := c.api.GetOpen(ctx, "/public/doctors", &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// Patients lists patients visible to doctors.
func (c *UsersClient) Patients(ctx context.Context) ([]User, error) {
	var patients []User
	if err := c.api.Get(ctx, "/users/patients", &patients); err != nil {
		return nil, err
	}
	return patients, nil
}
