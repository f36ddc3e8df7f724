package handlers

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/models"
	"fleet-backend/pkg/utils"
)

type ClientStore interface {
	ActiveSetter
	ListClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, id int64) (*models.Client, error)
	CreateClient(ctx context.Context, in models.ClientInput) (int64, error)
	UpdateClient(ctx context.Context, id int64, in models.ClientInput) error
}

func normalizeClient(in *models.ClientInput) error {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if in.CompanyName == "" {
		return apperrors.Invalid("Company name is required")
	}
	for _, f := range []**string{&in.Address, &in.City, &in.PostalCode, &in.Country,
		&in.ContactPerson, &in.Email, &in.Phone, &in.Fax, &in.TaxNumber, &in.BankName, &in.BankAccount} {
		*f = trimmed(*f)
	}
	if in.Email != nil {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			return apperrors.Invalid("Invalid email address")
		}
	}
	return nil
}

func ListClients(store ClientStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients, err := store.ListClients(r.Context())
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, clients)
	}
}

func GetClient(store ClientStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		client, err := store.GetClient(r.Context(), id)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, client)
	}
}

// CreateClient answers 400 when the company name is already taken; the
// unique index rejects the insert so nothing is written.
func CreateClient(store ClientStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.ClientInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := normalizeClient(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		id, err := store.CreateClient(r.Context(), in)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondCreated(w, "Client created", id)
	}
}

func UpdateClient(store ClientStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		var in models.ClientInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := normalizeClient(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := store.UpdateClient(r.Context(), id, in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondMessage(w, http.StatusOK, "Client updated")
	}
}
