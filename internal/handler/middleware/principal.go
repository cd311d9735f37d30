package middleware

import (
	"net/http"

	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
)

// PrincipalFrom rebuilds the caller's principal from the headers set by
// WithAuth.
func PrincipalFrom(r *http.Request) domain.Principal {
	return domain.Principal{
		UserID: r.Header.Get(UserIDHeader),
		Role:   domain.Role(r.Header.Get(UserRoleHeader)),
	}
}
