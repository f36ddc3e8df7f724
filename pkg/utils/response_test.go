package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleet-backend/internal/apperrors"
)

func TestRespondAppError(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{apperrors.Conflict("A client with this company name already exists"), http.StatusBadRequest, "A client with this company name already exists"},
		{apperrors.NotFound("Run not found"), http.StatusNotFound, "Run not found"},
		{errors.New("pq: relation \"runs\" does not exist"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondAppError(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil), tc.err)
		if rec.Code != tc.wantStatus {
			t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
		}
		var body struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Success || body.Error != tc.wantMsg {
			t.Fatalf("body = %+v, want error %q", body, tc.wantMsg)
		}
	}
}
