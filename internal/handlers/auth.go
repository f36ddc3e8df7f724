package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/auth"
	"fleet-backend/pkg/utils"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string, role auth.Role) (auth.Identity, error)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    auth.Identity `json:"user"`
}

func Login(authn Authenticator, codec *auth.SessionCodec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if req.Email == "" || req.Password == "" || req.Role == "" {
			utils.RespondError(w, http.StatusBadRequest, "Email, password and role are required")
			return
		}

		log.Printf("🔐 Login attempt for: %s (%s)", req.Email, req.Role)

		identity, err := authn.Authenticate(r.Context(), req.Email, req.Password, auth.Role(req.Role))
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthenticated) {
				log.Printf("❌ Login failed for: %s", req.Email)
			}
			utils.RespondAppError(w, r, err)
			return
		}

		cookie, err := codec.Cookie(identity)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		http.SetCookie(w, cookie)

		log.Printf("✅ Login successful: %s (%s)", identity.Email, identity.Role)
		utils.RespondJSON(w, http.StatusOK, LoginResponse{
			Success: true,
			Message: "Login successful",
			User:    identity,
		})
	}
}

func Logout(codec *auth.SessionCodec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, codec.ClearCookie())
		utils.RespondMessage(w, http.StatusOK, "Logged out")
	}
}

// GetSession returns the caller resolved by the Auth middleware.
func GetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    currentUser(r),
		})
	}
}
