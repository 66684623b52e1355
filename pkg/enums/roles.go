package enums

import "fmt"

// StaffRole is the role vocabulary of back-office staff users.
// Staff and agents are separate bounded contexts with independent role sets;
// do not merge the two vocabularies.
type StaffRole string

const (
	StaffRoleWorker    StaffRole = "worker"
	StaffRoleAdmin     StaffRole = "admin"
	StaffRoleMainAdmin StaffRole = "mainadmin"
)

var validStaffRoles = []StaffRole{
	StaffRoleWorker,
	StaffRoleAdmin,
	StaffRoleMainAdmin,
}

// String implements fmt.Stringer.
func (r StaffRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known StaffRole.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsAdministrative reports whether the role may mutate tenant resources.
func (r StaffRole) IsAdministrative() bool {
	return r == StaffRoleAdmin || r == StaffRoleMainAdmin
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}

// AgentRole is the role vocabulary of tenant-facing agent users.
type AgentRole string

const (
	AgentRoleMainAdmin AgentRole = "mainadmin"
	AgentRoleAdmin     AgentRole = "admin"
	AgentRoleAgent     AgentRole = "agent"
)

var validAgentRoles = []AgentRole{
	AgentRoleMainAdmin,
	AgentRoleAdmin,
	AgentRoleAgent,
}

// String implements fmt.Stringer.
func (r AgentRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known AgentRole.
func (r AgentRole) IsValid() bool {
	for _, candidate := range validAgentRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsAdministrative reports whether the role may mutate tenant resources.
func (r AgentRole) IsAdministrative() bool {
	return r == AgentRoleAdmin || r == AgentRoleMainAdmin
}

// ParseAgentRole converts raw input into an AgentRole.
func ParseAgentRole(value string) (AgentRole, error) {
	for _, candidate := range validAgentRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid agent role %q", value)
}

// PrincipalKind distinguishes which user table a token belongs to.
type PrincipalKind string

const (
	PrincipalKindStaff PrincipalKind = "staff"
	PrincipalKindAgent PrincipalKind = "agent"
)

// IsValid reports whether the value is a known PrincipalKind.
func (k PrincipalKind) IsValid() bool {
	return k == PrincipalKindStaff || k == PrincipalKindAgent
}
