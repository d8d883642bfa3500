package model

import "fmt"

// Role identifies an access level. The numeric values are part of the
// token wire format and must never be renumbered.
type Role int32

const (
	RoleUnprivileged Role = 1
	RoleModerator    Role = 2
	RoleAdmin        Role = 3
	RolePublisher    Role = 4
)

func (r Role) Valid() bool {
	return r >= RoleUnprivileged && r <= RolePublisher
}

func (r Role) String() string {
	switch r {
	case RoleUnprivileged:
		return "unprivileged"
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	case RolePublisher:
		return "publisher"
	default:
		return fmt.Sprintf("role(%d)", int32(r))
	}
}

// ParseRole maps a role name from a request body to its Role value.
func ParseRole(name string) (Role, error) {
	switch name {
	case "unprivileged":
		return RoleUnprivileged, nil
	case "moderator":
		return RoleModerator, nil
	case "admin":
		return RoleAdmin, nil
	case "publisher":
		return RolePublisher, nil
	default:
		return 0, fmt.Errorf("unknown role %q", name)
	}
}

// RolesToInt32 converts a role slice for storage in an integer[] column.
func RolesToInt32(roles []Role) []int32 {
	out := make([]int32, len(roles))
	for i, r := range roles {
		out[i] = int32(r)
	}
	return out
}

func RolesFromInt32(values []int32) []Role {
	out := make([]Role, len(values))
	for i, v := range values {
		out[i] = Role(v)
	}
	return out
}
