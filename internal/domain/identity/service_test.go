package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthrecords/healthrecords/internal/platform/api"
	"github.com/healthrecords/healthrecords/internal/platform/session"
)

func newAuthService(t *testing.T, handler http.Handler) (*AuthService, *session.Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	sess := session.New(&session.MemoryTokenStore{})
	client := api.NewClient(server.URL, "", 5*time.Second, sess, zerolog.Nop())
	return NewAuthService(NewAuthClient(client), sess, zerolog.Nop()), sess
}

func TestLoginValidatesInputs(t *testing.T) {
	svc, _ := newAuthService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should go out for empty credentials")
	}))
	if _, err := svc.Login(context.Background(), "", "pw"); err == nil {
		t.Fatal("empty email should fail")
	}
	if _, err := svc.Login(context.Background(), "a@b.c", ""); err == nil {
		t.Fatal("empty password should fail")
	}
}

func TestLoginStoresSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AuthResponse{
			Token: "issued-token",
			User:  User{ID: 4, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: RolePatient},
		})
	})
	svc, sess := newAuthService(t, handler)

	user, err := svc.Login(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 4 {
		t.Fatalf("unexpected user: %+v", user)
	}
	if sess.Token() != "issued-token" {
		t.Fatalf("token not stored: %q", sess.Token())
	}
	ident, ok := sess.User()
	if !ok || ident.ID != 4 || ident.Role != string(RolePatient) {
		t.Fatalf("identity not stored: %+v %v", ident, ok)
	}
	if svc.Role() != RolePatient {
		t.Fatalf("unexpected role: %q", svc.Role())
	}
}

func TestRegisterValidatesRole(t *testing.T) {
	svc, _ := newAuthService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should go out for an invalid role")
	}))
	_, err := svc.Register(context.Background(), Registration{
		FirstName: "A", LastName: "B", Email: "a@b.c", Password: "pw", Role: "WIZARD",
	})
	if err == nil {
		t.Fatal("unknown role should fail")
	}
}

func TestRegisterNormalizesRoleToWireForm(t *testing.T) {
	var got Registration
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(AuthResponse{Token: "t", User: User{ID: 1, Role: RoleDoctor}})
	})
	svc, _ := newAuthService(t, handler)

	if _, err := svc.Register(context.Background(), Registration{
		FirstName: "A", LastName: "B", Email: "a@b.c", Password: "pw", Role: "doctor",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Role != "ROLE_DOCTOR" {
		t.Fatalf("role not sent in wire form: %q", got.Role)
	}
}

func TestUsersServiceCRUDUpdatesStore(t *testing.T) {
	users := map[int64]User{
		1: {ID: 1, FirstName: "A", Role: RolePatient},
		2: {ID: 2, FirstName: "B", Role: RoleDoctor},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		list := []User{users[1], users[2]}
		json.NewEncoder(w).Encode(list)
	})
	mux.HandleFunc("/users/2", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			var u User
			json.NewDecoder(r.Body).Decode(&u)
			u.ID = 2
			users[2] = u
			json.NewEncoder(w).Encode(u)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			json.NewEncoder(w).Encode(users[2])
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	sess := session.New(&session.MemoryTokenStore{})
	client := api.NewClient(server.URL, "", 5*time.Second, sess, zerolog.Nop())
	svc := NewUsersService(NewUsersClient(client), zerolog.Nop())

	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Store().Len() != 2 {
		t.Fatalf("expected 2 users, got %d", svc.Store().Len())
	}

	updated, err := svc.Update(ctx, 2, User{FirstName: "Bee", Role: RoleDoctor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FirstName != "Bee" {
		t.Fatalf("unexpected update: %+v", updated)
	}
	for _, u := range svc.Store().Items() {
		if u.ID == 2 && u.FirstName != "Bee" {
			t.Fatalf("store not patched: %+v", u)
		}
	}

	if err := svc.Delete(ctx, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Store().Len() != 1 {
		t.Fatalf("store not trimmed after delete: %d", svc.Store().Len())
	}
}
