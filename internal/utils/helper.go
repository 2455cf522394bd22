package utils

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
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

func ParseIntOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

const orderCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateOrderCode builds a human-readable unique order code,
// e.g. ORD-MB3K2F1A-X7Q9Z.
func GenerateOrderCode() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteByte(orderCodeAlphabet[rand.Intn(len(orderCodeAlphabet))])
	}

	return strings.ToUpper("ORD-" + ts + "-" + b.String())
}
