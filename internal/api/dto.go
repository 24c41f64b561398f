package api

import (
	"encoding/json"
	"net/http"
)

// UserInfoResponse is the payload returned by /auth/me.
type UserInfoResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}
