// Package rbac implements role-based access control for groups.
// It provides the closed role and permission vocabularies, a pure permission
// evaluator, the special-user identity sets, and Fiber middleware that gates
// group routes on the viewer's membership role.
package rbac
