package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCheckError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", Forbidden("drivers only"), http.StatusForbidden},
		{"not found", NotFound("Client not found"), http.StatusNotFound},
		{"invalid", Invalid("amount must be numeric"), http.StatusBadRequest},
		{"conflict maps to bad request", Conflict("Plate already exists"), http.StatusBadRequest},
		{"wrapped", fmt.Errorf("update vehicle: %w", NotFound("Vehicle not found")), http.StatusNotFound},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := CheckError(tc.err); got != tc.want {
			t.Fatalf("%s: CheckError = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestMessageHidesInternalDetail(t *testing.T) {
	if got := Message(errors.New("pq: password authentication failed")); got != "Internal server error" {
		t.Fatalf("Message leaked detail: %q", got)
	}
	if got := Message(fmt.Errorf("create client: %w", Conflict("Company name already exists"))); got != "Company name already exists" {
		t.Fatalf("Message = %q", got)
	}
	if got := Message(fmt.Errorf("lookup: %w", ErrNotFound)); got != "Not found" {
		t.Fatalf("Message = %q", got)
	}
}
