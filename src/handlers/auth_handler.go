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

func SignUp(svc *actions.Service, jwtSecret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SignUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode sign-up request body: %v", err)
			badRequest(w, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		req.State = strings.ToUpper(strings.TrimSpace(req.State))

		if msg := validateSignUp(req); msg != "" {
			badRequest(w, msg)
			return
		}

		user, session, err := svc.SignUp(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		token, err := middleware.MintSessionToken(jwtSecret, session.ID, session.ExpiresAt)
		if err != nil {
			log.Printf("ERROR: Failed to sign session token for user %s: %v", user.ID, err)
			writeError(w, actions.E("sign-up", actions.KindInternal, err))
			return
		}

		middleware.SetSessionCookie(w, token, session.ExpiresAt)
		writeJSON(w, http.StatusCreated, user)
	}
}

func SignIn(svc *actions.Service, jwtSecret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SignInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode sign-in request body: %v", err)
			badRequest(w, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if !util.ValidateEmail(req.Email) || req.Password == "" {
			badRequest(w, "email and password are required")
			return
		}

		user, session, err := svc.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		token, err := middleware.MintSessionToken(jwtSecret, session.ID, session.ExpiresAt)
		if err != nil {
			log.Printf("ERROR: Failed to sign session token for user %s: %v", user.ID, err)
			writeError(w, actions.E("sign-in", actions.KindInternal, err))
			return
		}

		middleware.SetSessionCookie(w, token, session.ExpiresAt)
		writeJSON(w, http.StatusOK, user)
	}
}

// SignOut deletes the session exactly once and clears the cookie whether or
// not the deletion succeeded.
func SignOut(svc *actions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := middleware.SessionFrom(r.Context())
		if !ok {
			http.Error(w, "missing session", http.StatusUnauthorized)
			return
		}

		if err := svc.SignOut(r.Context(), session.ID); err != nil {
			log.Printf("ERROR: Failed to delete session %s: %v", session.ID, err)
		}

		middleware.ClearSessionCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

func Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func validateSignUp(req models.SignUpRequest) string {
	switch {
	case !util.ValidateEmail(req.Email):
		return "invalid email format"
	case !util.ValidatePassword(req.Password):
		return "password must be at least 8 characters with uppercase, lowercase, and digit"
	case !util.ValidateName(req.FirstName) || !util.ValidateName(req.LastName):
		return "first and last name are required"
	case strings.TrimSpace(req.Address1) == "" || strings.TrimSpace(req.City) == "":
		return "address and city are required"
	case !util.ValidateState(req.State):
		return "state must be a two-letter code"
	case !util.ValidatePostalCode(req.PostalCode):
		return "postal code must be five digits"
	case !util.ValidateDateOfBirth(req.DateOfBirth):
		return "date of birth must be YYYY-MM-DD and in the past"
	case !util.ValidateSSN(req.SSN):
		return "ssn must be the last four digits"
	}
	return ""
}
