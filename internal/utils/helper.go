package utils

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"
)

func StrPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func WriteJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSONError writes {"detail": message}. Detail may be any JSON value.
func WriteJSONError(w http.ResponseWriter, detail any, code int) {
	WriteJSON(w, code, map[string]any{"detail": detail})
}
