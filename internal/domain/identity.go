package domain

type Role string

const (
	RoleTourist       Role = "tourist"
	RoleSafetyOfficer Role = "safety_officer"
	RoleAdmin         Role = "admin"
)

// Identity is the resolved caller. Visibility and mutation rights are decided
// downstream from these two fields alone.
type Identity struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
}

// Elevated reports whether the role may mutate incidents and safety alerts.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSafetyOfficer
}

func (r Role) Valid() bool {
	switch r {
	case RoleTourist, RoleSafetyOfficer, RoleAdmin:
		return true
	}
	return false
}
