package identity

import (
	"encoding/json"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"ADMIN", RoleAdmin},
		{"ROLE_ADMIN", RoleAdmin},
		{"admin", RoleAdmin},
		{"Doctor", RoleDoctor},
		{"ROLE_DOCTOR", RoleDoctor},
		{"patient", RolePatient},
		{"ROLE_PATIENT", RolePatient},
		{"  role_patient  ", RolePatient},
		{"nurse", RoleUnknown},
		{"", RoleUnknown},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.raw); got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestRoleJSONNormalizes(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"id":1,"firstName":"A","lastName":"B","role":"ROLE_DOCTOR"}`), &u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != RoleDoctor {
		t.Fatalf("role not normalized: %q", u.Role)
	}
}

func TestRoleWire(t *testing.T) {
	if RoleAdmin.Wire() != "ROLE_ADMIN" {
		t.Fatalf("unexpected wire form: %q", RoleAdmin.Wire())
	}
}

func TestUserFullName(t *testing.T) {
	u := User{FirstName: "Grace", LastName: "Hopper"}
	if u.FullName() != "Grace Hopper" {
		t.Fatalf("unexpected full name: %q", u.FullName())
	}
}

func TestUserIdentity(t *testing.T) {
	u := User{ID: 3, FirstName: "Grace", LastName: "Hopper", Email: "g@example.com", Role: RoleAdmin}
	ident := u.Identity()
	if ident.ID != 3 || ident.Email != "g@example.com" || ident.Role != string(RoleAdmin) {
		t.Fatalf("unexpected identity: %+v", ident)
	}
}
