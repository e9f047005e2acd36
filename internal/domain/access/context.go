package access

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// WithActor stores an already resolved actor on ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// FromContext returns the actor for the request, preferring one stored with
// WithActor and falling back to the verified JWT claims.
func FromContext(ctx context.Context) (Actor, error) {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a, nil
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Actor{}, ErrUnauthenticated
	}
	return ActorFromClaims(claims)
}

func ActorFromClaims(claims map[string]interface{}) (Actor, error) {
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return Actor{}, ErrUnauthenticated
	}
	roleStr, _ := claims["role"].(string)
	role := Role(roleStr)
	if !role.Valid() {
		return Actor{}, ErrUnauthenticated
	}
	email, _ := claims["email"].(string)
	isStaff, _ := claims["is_staff"].(bool)

	return Actor{
		EmployeeID: employeeID,
		Email:      email,
		Role:       role,
		IsStaff:    isStaff,
	}, nil
}
