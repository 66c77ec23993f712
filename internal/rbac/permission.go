package rbac

// Permission constants define the available group permissions.
// These are used for role-based access control to restrict access
// to specific group resources and actions.
type Permission string

const (
	// PermGroupEdit allows editing the group's name and description.
	PermGroupEdit Permission = "group.edit"
	// PermGroupManageMembers allows changing member roles and removing members.
	PermGroupManageMembers Permission = "group.members.manage"
	// PermGroupViewMembers allows viewing the group's member list.
	PermGroupViewMembers Permission = "group.members.view"
)

// allowedRoles is the exhaustive permission table. A permission missing from
// the table grants nothing, and RoleNone appears in no entry, so the evaluator
// is fail-closed on both axes.
var allowedRoles = map[Permission][]Role{
	PermGroupEdit:          {RoleAdmin, RoleModerator},
	PermGroupManageMembers: {RoleAdmin, RoleModerator},
	PermGroupViewMembers:   {RoleAdmin, RoleModerator, RoleMember},
}

// HasPermission reports whether a viewer with the given group role holds the
// requested permission. It is a pure, deterministic function: no I/O, no
// side effects, same inputs always yield the same output. An unresolved
// viewer (RoleNone) and an unrecognized permission both deny.
func HasPermission(role Role, perm Permission) bool {
	if role == RoleNone {
		return false
	}

	for _, allowed := range allowedRoles[perm] {
		if role == allowed {
			return true
		}
	}

	return false
}
