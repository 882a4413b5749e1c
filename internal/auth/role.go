// Package auth is the session shell: credential checks against externally
// configured logins, role assignment, and per-session date-filter state.
package auth

import (
	"fmt"
)

// Role is the typed dashboard role. Dispatch on roles is exhaustive; an
// unknown role never survives config load.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleUserAnalyst      Role = "user_analyst"
	RoleFinanceAnalyst   Role = "finance_analyst"
	RoleMarketingAnalyst Role = "marketing_analyst"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleUserAnalyst, RoleFinanceAnalyst, RoleMarketingAnalyst}

// ParseRole validates a configured role string.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}
