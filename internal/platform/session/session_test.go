package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestLoginLogout(t *testing.T) {
	s := New(&MemoryTokenStore{})
	if s.IsAuthenticated() {
		t.Fatal("fresh session should not be authenticated")
	}

	ident := Identity{ID: 7, FirstName: "Ada", LastName: "Lovelace", Role: "DOCTOR"}
	if err := s.Login("tok", ident); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsAuthenticated() || s.Token() != "tok" {
		t.Fatal("login did not take effect")
	}
	user, ok := s.User()
	if !ok || user.ID != 7 {
		t.Fatalf("unexpected user: %+v %v", user, ok)
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.IsAuthenticated() || s.Token() != "" {
		t.Fatal("logout did not clear the session")
	}
	if _, ok := s.User(); ok {
		t.Fatal("logout did not clear the user")
	}
}

func TestPersistedTokenLoadedOnNew(t *testing.T) {
	store := &MemoryTokenStore{}
	if err := store.Save("persisted"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := New(store)
	if !s.IsAuthenticated() || s.Token() != "persisted" {
		t.Fatal("persisted token should restore the session")
	}
	if _, ok := s.User(); ok {
		t.Fatal("user should stay unknown until a profile fetch")
	}
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewFileTokenStore(path)

	if token, err := store.Load(); err != nil || token != "" {
		t.Fatalf("missing file should read as empty: %q %v", token, err)
	}
	if err := store.Save("secret-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token, err := store.Load()
	if err != nil || token != "secret-token" {
		t.Fatalf("unexpected load result: %q %v", token, err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token, _ := store.Load(); token != "" {
		t.Fatalf("clear should remove the token, got %q", token)
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	s := New(nil)

	if !s.TokenExpired(now) {
		t.Fatal("empty token counts as expired")
	}

	s.Login(signedToken(t, now.Add(time.Hour)), Identity{})
	if s.TokenExpired(now) {
		t.Fatal("future exp should not be expired")
	}

	s.Login(signedToken(t, now.Add(-time.Hour)), Identity{})
	if !s.TokenExpired(now) {
		t.Fatal("past exp should be expired")
	}

	s.Login("not-a-jwt", Identity{})
	if !s.TokenExpired(now) {
		t.Fatal("malformed token counts as expired")
	}
}
