package domain

import "strings"

// Roles allowed to run privileged ledger operations.
const (
	RoleNameAdmin     = "admin"
	RoleNameStaff     = "staff"
	RoleNameTreasurer = "treasurer"
)

// Caller identifies who invoked an operation, as asserted by the auth layer.
type Caller struct {
	UserID string
	Roles  []string
}

// HasAnyRole reports whether the caller holds one of roles (case-insensitive).
func (c Caller) HasAnyRole(roles ...string) bool {
	for _, have := range c.Roles {
		for _, want := range roles {
			if strings.EqualFold(strings.TrimSpace(have), want) {
				return true
			}
		}
	}
	return false
}

// IsElevated reports admin, staff or treasurer membership.
func (c Caller) IsElevated() bool {
	return c.HasAnyRole(RoleNameAdmin, RoleNameStaff, RoleNameTreasurer)
}
