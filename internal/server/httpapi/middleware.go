package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/nuudash/internal/common"
)

type ctxKey string

const accessTokenKey ctxKey = "accessToken"

func accessToken(ctx context.Context) string {
	t, _ := ctx.Value(accessTokenKey).(string)
	return t
}

// WithBearer requires an "Authorization: Bearer <token>" header and puts
// the token into the request context.
func WithBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: common.ErrUnauthorized.Error()})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accessTokenKey, token)))
	})
}
