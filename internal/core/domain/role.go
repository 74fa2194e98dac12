package domain

import (
	"encoding/json"
	"strings"
)

// Role is the sole authorization axis of an identity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// NormalizeRole maps a raw backend or persisted role string onto the closed
// Role set: ADMIN on a case-insensitive match, USER for everything else.
func NormalizeRole(raw string) Role {
	if strings.ToUpper(raw) == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// UnmarshalJSON normalizes every decoded role. Non-string values decode as USER.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*r = RoleUser
		return nil
	}
	*r = NormalizeRole(raw)
	return nil
}

// In reports whether r is a member of roles.
func (r Role) In(roles []Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}
