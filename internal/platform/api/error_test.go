package api

import (
	"errors"
	"testing"
)

func TestExtractMessagePrecedence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"error field wins", `{"error":"bad input","message":"ignored","title":"ERROR: ignored"}`, "bad input"},
		{"message next", `{"message":"session expired","title":"ERROR: ignored"}`, "session expired"},
		{"error title prefix stripped", `{"title":"ERROR: Doctor not found"}`, "Doctor not found"},
		{"title without prefix ignored", `{"title":"Doctor not found"}`, MsgFallback},
		{"plain string body", `"service unavailable"`, "service unavailable"},
		{"empty body", ``, MsgFallback},
		{"garbage body", `<html>oops</html>`, MsgFallback},
		{"empty object", `{}`, MsgFallback},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractMessage([]byte(tc.body)); got != tc.want {
				t.Fatalf("extractMessage(%q) = %q, want %q", tc.body, got, tc.want)
			}
		})
	}
}

func TestServerError(t *testing.T) {
	err := serverError(400, []byte(`{"title":"ERROR: Doctor not found"}`))
	if err.Kind != KindServer {
		t.Fatalf("expected KindServer, got %v", err.Kind)
	}
	if err.Status != 400 {
		t.Fatalf("expected status 400, got %d", err.Status)
	}
	if err.Message != "Doctor not found" {
		t.Fatalf("unexpected message: %q", err.Message)
	}
}

func TestTransportErrorClassification(t *testing.T) {
	err := transportError(errors.New("dial tcp: connection refused"))
	if err.Kind != KindConnectivity || err.Message != MsgConnectivity {
		t.Fatalf("expected connectivity error, got %+v", err)
	}
	if !err.IsConnectivity() {
		t.Fatal("connectivity error should report IsConnectivity")
	}

	err = transportError(errors.New("blocked by CORS policy"))
	if err.Kind != KindCORS || err.Message != MsgCORS {
		t.Fatalf("expected CORS error, got %+v", err)
	}
	if !err.IsConnectivity() {
		t.Fatal("CORS error should report IsConnectivity")
	}
}
