package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// APIKeyHeader carries the shared secret on mutating requests
const APIKeyHeader = "x-api-key"

// CredentialChecker decides whether a caller-supplied key is acceptable
type CredentialChecker interface {
	Check(ctx context.Context, key string) bool
}

// StaticKeyChecker accepts exactly one configured secret
type StaticKeyChecker struct {
	secret []byte
}

// NewStaticKeyChecker creates a checker for secret
func NewStaticKeyChecker(secret string) *StaticKeyChecker {
	return &StaticKeyChecker{secret: []byte(secret)}
}

// Check reports whether key equals the configured secret
func (c *StaticKeyChecker) Check(_ context.Context, key string) bool {
	if key == "" || len(c.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), c.secret) == 1
}

// APIKeyAuth middleware validates the API key from the x-api-key header.
// Missing and wrong keys are both rejected with 401 before the handler runs.
func APIKeyAuth(checker CredentialChecker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.Check(r.Context(), r.Header.Get(APIKeyHeader)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
