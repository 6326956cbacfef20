package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// APIError is the error body shape the frontend contract expects.
type APIError struct {
	Error bool   `json:"error"`
	Code  int    `json:"code"`
	Text  string `json:"text"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status, code int, text string) {
	writeJSON(w, status, APIError{Error: true, Code: code, Text: text})
}

// asString renders a loosely-typed JSON value (string or number) as a
// string; empty for anything else. Request bodies from the docs UI carry
// ids as either type.
func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return fmt.Sprintf("%v", val)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

// asInt64 renders a loosely-typed JSON value as an integer.
func asInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case float64:
		return int64(val), true
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
