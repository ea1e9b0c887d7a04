package enums

// Role is the numeric role the backend assigns to dashboard users.
type Role int

const (
	RoleStaff Role = 1
	RoleAdmin Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleStaff:
		return "staff"
	default:
		return "unknown"
	}
}
