package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"fleet-backend/pkg/utils"
)

type DeviceTokenStore interface {
	UpsertDeviceToken(ctx context.Context, driverID int64, token, platform string) error
}

// RegisterDeviceToken registers a Firebase Cloud Messaging token for the
// calling driver.
func RegisterDeviceToken(store DeviceTokenStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)

		var req struct {
			Token    string `json:"token"`
			Platform string `json:"platform"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}

		req.Token = strings.TrimSpace(req.Token)
		if req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "Token is required")
			return
		}
		if req.Platform != "ios" && req.Platform != "android" {
			utils.RespondError(w, http.StatusBadRequest, "Invalid platform (must be 'ios' or 'android')")
			return
		}

		if err := store.UpsertDeviceToken(r.Context(), user.ID, req.Token, req.Platform); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}

		log.Printf("📱 Device token registered: %s (%s)", user.Email, req.Platform)
		utils.RespondMessage(w, http.StatusOK, "Device token registered successfully")
	}
}
