package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridgewatch/pkg/app/errors"
	apphttp "github.com/chainsafe/bridgewatch/pkg/app/http"
)

// TokenValidator turns a bearer token into a principal
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*Principal, error)
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's principal in the request context.
func Middleware(v TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				apphttp.WriteError(w, apperrors.UnAuthorizedError(nil, "missing bearer token"))
				return
			}

			principal, err := v.ValidateToken(r.Context(), token)
			if err != nil {
				logger.Debug("rejected bearer token", zap.String("path", r.URL.Path), zap.Error(err))
				apphttp.WriteError(w, apperrors.UnAuthorizedError(err, "invalid bearer token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
