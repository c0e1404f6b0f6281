package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"horizon-server/src/actions"
	"horizon-server/src/middleware"
	"horizon-server/src/models"
	"horizon-server/src/util"
)

func CreateTransfer(svc *actions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req models.TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode transfer request body: %v", err)
			badRequest(w, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if msg := validateTransfer(req); msg != "" {
			badRequest(w, msg)
			return
		}

		tx, err := svc.CreateTransfer(r.Context(), user, req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, tx)
	}
}

func validateTransfer(req models.TransferRequest) string {
	switch {
	case !util.ValidateEmail(req.Email):
		return "invalid email format"
	case req.SenderBank == "":
		return "senderBank is required"
	case req.SharableID == "":
		return "sharableId is required"
	}
	if _, err := util.NormalizeAmount(req.Amount); err != nil {
		return err.Error()
	}
	return ""
}
