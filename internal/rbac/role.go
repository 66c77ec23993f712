package rbac

// Role represents a member's standing within a single group.
// The set is closed; adding a role is a breaking change that requires
// updating the permission table and every consumer of the labels below.
type Role string

const (
	// RoleNone means the viewer has no resolved role in the group.
	// It is the zero value and never grants anything.
	RoleNone Role = ""
	// RoleAdmin is the group administrator.
	RoleAdmin Role = "admin"
	// RoleModerator moderates the group alongside the admin.
	RoleModerator Role = "moderator"
	// RoleMember is a standard group member.
	RoleMember Role = "member"
)

// ParseRole converts a role string from the database to a Role.
// Unknown or empty values map to RoleNone (least privilege).
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleModerator:
		return RoleModerator
	case RoleMember:
		return RoleMember
	default:
		return RoleNone
	}
}

// RoleLabel returns the display name for a role.
// Total over the whole domain: anything outside the closed set is "Unknown".
func RoleLabel(r Role) string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleModerator:
		return "Moderator"
	case RoleMember:
		return "Member"
	default:
		return "Unknown"
	}
}

// RoleColor returns the accent class used when rendering a role badge.
// This is a UI hint only and must never be used for authorization.
func RoleColor(r Role) string {
	switch r {
	case RoleAdmin:
		return "primary"
	case RoleModerator:
		return "secondary"
	default:
		return "default"
	}
}
