package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/imagefolders/internal/ctxkeys"
	"github.com/templui/imagefolders/internal/service"
)

// Auth reads the bearer token (Authorization header or x-auth-token) and adds the owner to the context if valid.
// Requests without a valid token continue anonymously; RequireAuth rejects them where needed.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			owner, err := authService.Owner(token)
			if err != nil {
				slog.Debug("rejected token", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithOwner(r.Context(), owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the request carries a verified owner
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Owner(r.Context()) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Token is not valid")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get("x-auth-token"))
}
