package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError sends the same {code, message} body the API handlers use
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
