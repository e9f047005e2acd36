package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/handler/http/response"
)

// RequirePermission checks the route-level permission of the caller's role.
// Staff accounts pass every check. Record-level rules stay in the services.
func RequirePermission(permission access.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := access.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !actor.IsStaff && !access.HasPermission(actor.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but role is '%s'", permission, actor.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
