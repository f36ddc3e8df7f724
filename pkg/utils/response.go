package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"fleet-backend/internal/apperrors"

	"github.com/go-chi/chi/v5/middleware"
)

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// RespondData wraps data in the success envelope.
func RespondData(w http.ResponseWriter, status int, data interface{}) {
	RespondJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// RespondMessage is the envelope for writes that return no body.
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// RespondCreated reports the id of a freshly inserted row.
func RespondCreated(w http.ResponseWriter, message string, id int64) {
	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": message,
		"id":      id,
	})
}

// RespondAppError maps err onto its status. Internal errors are logged with
// the request id and answered with a generic message.
func RespondAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.CheckError(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ [%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
	}
	RespondError(w, status, apperrors.Message(err))
}
