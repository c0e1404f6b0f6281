package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"horizon-server/src/actions"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an action's failure kind to an HTTP status and a tagged
// JSON body, so callers can branch on the kind instead of a bare null.
func writeError(w http.ResponseWriter, err error) {
	kind := actions.KindOf(err)

	var status int
	switch kind {
	case actions.KindInvalidInput:
		status = http.StatusBadRequest
	case actions.KindUnauthorized:
		status = http.StatusUnauthorized
	case actions.KindNotFound:
		status = http.StatusNotFound
	case actions.KindConflict, actions.KindAmbiguous:
		status = http.StatusConflict
	case actions.KindAggregator, actions.KindProcessor:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	log.Printf("ERROR: %v", err)
	writeJSON(w, status, errorBody{Error: errorDetail{Kind: string(kind), Message: err.Error()}})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Kind:    string(actions.KindInvalidInput),
		Message: message,
	}})
}
