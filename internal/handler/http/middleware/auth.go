package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only unrevoked access tokens and stores the resolved
// actor on the request context. It must run after jwtauth.Verifier.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			revoked, err := jwtService.IsTokenRevoked(r.Context(), jwtauth.TokenFromHeader(r))
			if err != nil {
				slog.Error("failed to check token revocation", "error", err)
				response.InternalServerError(w, "Failed to verify token")
				return
			}
			if revoked {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			actor, err := access.ActorFromClaims(claims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(access.WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}
