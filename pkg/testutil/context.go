package testutil

import (
	"net/http"

	id "zoopito/pkg/domain"
	"zoopito/pkg/requestcontext"
)

// AsRole authenticates the request as a freshly generated user with role, as
// the auth middleware would after validating a token.
func AsRole(req *http.Request, role id.Role) *http.Request {
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), id.NewUserID(), role))
}

func AsAdmin(req *http.Request) *http.Request {
	return AsRole(req, id.RoleAdmin)
}

func AsSales(req *http.Request) *http.Request {
	return AsRole(req, id.RoleSales)
}
