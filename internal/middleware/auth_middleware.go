package middleware

import (
	"context"
	"net/http"

	"ticket-scanner-server/internal/service"
	"ticket-scanner-server/pkg/response"
)

type contextKey string

const PrincipalKey contextKey = "principal"

// MsgAuthenticationFailed is returned for every rejected bearer token so
// clients cannot tell which check failed.
const MsgAuthenticationFailed = "The request could not be authenticated, try to log in again."

// Authenticator is satisfied by service.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (*service.Principal, bool)
}

func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			principal, ok := auth.Authenticate(r.Context(), r)
			if !ok {
				response.UnauthorizedCode(w, MsgAuthenticationFailed)
				return
			}

			markPrincipal(w, principal.User.ID, principal.Device.ID)

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetPrincipal(r *http.Request) *service.Principal {
	principal, ok := r.Context().Value(PrincipalKey).(*service.Principal)
	if !ok {
		return nil
	}
	return principal
}
