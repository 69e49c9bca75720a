package auth

// Role is the closed set of roles a signed-in identity can hold.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWriter Role = "writer"
)

// AdminIdentifier is the identifier that maps to RoleAdmin.
const AdminIdentifier = "admin"

// ComputeRole derives the role for an identifier. It is the only place role
// assignment happens.
func ComputeRole(identifier string) Role {
	if identifier == AdminIdentifier {
		return RoleAdmin
	}
	return RoleWriter
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleWriter
}

func (r Role) String() string { return string(r) }
