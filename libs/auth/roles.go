package auth

// Role is the closed set of principal roles understood by the platform.
// Keeping this a named type (rather than bare strings) forces every
// comparison through the constants below.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleManager      Role = "manager"
	RoleReceptionist Role = "receptionist"
	RoleStaff        Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleReceptionist, RoleStaff:
		return true
	}
	return false
}

// CanManageSchedule reports whether the role may edit working hours,
// blackout dates, and availability rules.
func (r Role) CanManageSchedule() bool {
	return r == RoleOwner || r == RoleManager
}

// CanBook reports whether the role may create or cancel appointments on
// behalf of customers.
func (r Role) CanBook() bool {
	return r == RoleOwner || r == RoleManager || r == RoleReceptionist
}
