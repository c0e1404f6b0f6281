package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"horizon-server/src/actions"
	"horizon-server/src/middleware"
	"horizon-server/src/models"
)

func CreateLinkToken(svc *actions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		token, err := svc.CreateLinkToken(r.Context(), user)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"linkToken": token})
	}
}

func ExchangePublicToken(svc *actions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req models.ExchangePublicTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode exchange public token request body: %v", err)
			badRequest(w, "invalid request body")
			return
		}
		if req.PublicToken == "" {
			badRequest(w, "publicToken is required")
			return
		}

		bank, err := svc.ExchangePublicToken(r.Context(), user, req.PublicToken)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, bank)
	}
}
