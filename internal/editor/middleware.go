package editor

import (
	"context"
	"net/http"
	"strings"

	"CatalogEditor/pkg/kit"
)

type ctxKey string

const editorKey ctxKey = "editor"

func FromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(editorKey).(string)
	return v, ok
}

// Require rejects requests without a valid editor token. A nil maker lets
// every request through.
func Require(tm *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tm == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
				return
			}

			claims, err := tm.Parse(strings.TrimPrefix(authz, "Bearer "))
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, err.Error(), nil)
				return
			}

			ctx := context.WithValue(r.Context(), editorKey, claims.Editor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
