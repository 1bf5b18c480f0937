package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError answers in the same {"error": ...} shape the REST handlers use.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
