package chi

import (
	"crypto/subtle"
	"net/http"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// SecretAuthMiddleware returns a middleware that validates the Backend-Secret
// header. If secrets is empty, authentication is disabled (pass-through).
func SecretAuthMiddleware(secrets []string) func(http.Handler) http.Handler {
	validSecrets := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			validSecrets = append(validSecrets, s)
		}
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled — pass everything through
		if len(validSecrets) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			secret := r.Header.Get("Backend-Secret")
			if !secretMatches(secret, validSecrets) {
				writeError(w, http.StatusUnauthorized, ErrorCodeInvalidCredentials, "Invalid credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func secretMatches(secret string, validSecrets []string) bool {
	if secret == "" {
		return false
	}
	for _, v := range validSecrets {
		if subtle.ConstantTimeCompare([]byte(secret), []byte(v)) == 1 {
			return true
		}
	}
	return false
}
