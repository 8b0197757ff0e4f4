package model

// Role is a closed enumeration; authorization is expressed as predicate
// functions on it rather than anything hierarchical.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role may edit or delete content it does
// not own.
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanChangeRoles reports whether the role may promote or demote other
// accounts. Managers have no role-mutation rights.
func (r Role) CanChangeRoles() bool {
	return r == RoleAdmin
}

// CanDeleteUser reports whether a caller with this role may delete the
// target. Admin accounts are never deletable; managers may only remove
// plain users.
func (r Role) CanDeleteUser(target Role) bool {
	if target == RoleAdmin {
		return false
	}
	switch r {
	case RoleAdmin:
		return true
	case RoleManager:
		return target == RoleUser
	}
	return false
}
