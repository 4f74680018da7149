package user

type Role string

const (
	RoleSuperAdmin Role = "superadmin" // Platform operator
	RoleAdmin      Role = "admin"      // HR admin - decides requests, views all records
	RoleManager    Role = "manager"    // Can decide regularizations for the team
	RoleEmployee   Role = "employee"   // Self-service only
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := RolePermissions[r]
	return ok
}
