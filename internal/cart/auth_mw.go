package cart

import (
	"context"
	"net/http"

	"KeeperStore/pkg/kit"
)

type ctxKey string

const userKey ctxKey = "user"

type User struct {
	ID   string
	Role string
}

func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey).(User)
	return u, ok
}

// RequireUserHeaders trusts the identity headers the gateway injects after
// validating the bearer token. Requests arriving without them are rejected.
func RequireUserHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := r.Header.Get("X-User-Id")
		if uid == "" {
			kit.WriteError(w, r, http.StatusUnauthorized, "missing identity", nil)
			return
		}

		u := User{ID: uid, Role: r.Header.Get("X-User-Role")}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}
