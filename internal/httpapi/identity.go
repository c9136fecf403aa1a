package httpapi

import (
	"net/http"

	"github.com/boardhall/boardhall/internal/identity"
)

// Resolver extracts the authenticated caller from a request, spec.md
// §6: "Requests carry an authentication context (opaque to this
// spec)." This seam keeps that context pluggable: production
// deployments front this server with a reverse proxy that does real
// auth and forwards verified identity headers.
type Resolver interface {
	Resolve(r *http.Request) (identity.Identity, bool)
}

// HeaderResolver is the development-default Resolver: it trusts
// X-User-Id/X-Username headers verbatim. It is never appropriate
// behind an untrusted network hop; real deployments supply their own
// Resolver backed by a verified session or reverse-proxy header.
type HeaderResolver struct{}

// Resolve implements Resolver.
func (HeaderResolver) Resolve(r *http.Request) (identity.Identity, bool) {
	id := identity.Identity{
		UserID:   r.Header.Get("X-User-Id"),
		Username: r.Header.Get("X-Username"),
	}
	return id, id.Valid()
}
