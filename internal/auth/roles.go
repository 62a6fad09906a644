package auth

// Role predicates are pure functions over the role enum; they never touch the
// store. The elevated subset is admin and lead_inspector.

// IsAdminLike reports whether the role carries elevated access.
func IsAdminLike(r Role) bool {
	return r == RoleAdmin || r == RoleLeadInspector
}

// CanManageUsers reports whether the role may administer accounts.
func CanManageUsers(r Role) bool {
	return r == RoleAdmin || r == RoleLeadInspector
}

// CanValidateInspections reports whether the role may validate inspections.
func CanValidateInspections(r Role) bool {
	return r == RoleAdmin || r == RoleLeadInspector
}

// CanCreateInspections reports whether the role may create inspections.
func CanCreateInspections(r Role) bool {
	return r == RoleAdmin || r == RoleLeadInspector || r == RoleInspector
}

var roleLabels = map[Role]string{
	RoleAdmin:         "Admin",
	RoleLeadInspector: "Inspecteur en chef",
	RoleInspector:     "Inspecteur",
	RoleViewer:        "Lecteur",
}

// RoleLabel returns the display label for a role, falling back to the raw value.
func RoleLabel(r Role) string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}
