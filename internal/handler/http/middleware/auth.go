package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-planner-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified access token carrying an
// employee id and a known role.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.Unauthorized(w, user.ErrInvalidToken.Error())
			return
		}

		tokenType, ok := claims["type"].(string)
		if tokenType != jwt.TokenTypeAccess || !ok {
			response.Unauthorized(w, user.ErrInvalidToken.Error())
			return
		}

		if _, err := jwt.PrincipalFromClaims(claims); err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hfn)
}

// Principal returns the caller of an authenticated request.
func Principal(r *http.Request) (user.Principal, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return user.Principal{}, false
	}
	p, err := jwt.PrincipalFromClaims(claims)
	return p, err == nil
}
