package auth

import (
	"context"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/logging"
)

// Requirement is what an entry point demands of its caller.
type Requirement int

const (
	RequireNone Requirement = iota
	RequireAuthenticated
	RequireAdmin
	RequireWriter
)

func (r Requirement) String() string {
	switch r {
	case RequireNone:
		return "none"
	case RequireAuthenticated:
		return "authenticated"
	case RequireAdmin:
		return "admin"
	case RequireWriter:
		return "writer"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Authorize. Reason is nil when Allowed, otherwise
// common.ErrUnauthenticated or common.ErrForbidden.
type Decision struct {
	Allowed bool
	Reason  error
}

var allow = Decision{Allowed: true}

func deny(reason error) Decision { return Decision{Reason: reason} }

// Authorize applies the access policy. id is nil for an anonymous caller.
func Authorize(id *Identity, req Requirement) Decision {
	if req == RequireNone {
		return allow
	}
	if id == nil {
		return deny(common.ErrUnauthenticated)
	}

	switch req {
	case RequireAuthenticated:
		return allow
	case RequireAdmin:
		if id.Role == RoleAdmin {
			return allow
		}
	case RequireWriter:
		if id.Role == RoleWriter {
			return allow
		}
	}
	return deny(common.ErrForbidden)
}

// ShowAdmin reports whether navigation should offer the admin area. It is a
// display hint; Authorize is what protects the area.
func ShowAdmin(id *Identity) bool {
	return id.IsAdmin()
}

// Guard is Authorize with denial logging, shared by the HTTP and gRPC layers.
type Guard struct {
	logger logging.Logger
}

func NewGuard(logger logging.Logger) *Guard {
	return &Guard{logger: logger.With("module", "guard")}
}

// Check authorizes id for resource and logs denials with their reason.
func (g *Guard) Check(ctx context.Context, id *Identity, req Requirement, resource string) Decision {
	d := Authorize(id, req)
	if d.Allowed {
		return d
	}

	args := []any{"resource", resource, "requirement", req.String(), "reason", d.Reason.Error()}
	if id != nil {
		args = append(args, "identifier", id.Identifier, "role", id.Role.String())
	}
	g.logger.Warn(ctx, "access denied", args...)
	return d
}
