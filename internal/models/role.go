package models

import (
	"database/sql/driver"
	"fmt"
	"sort"
)

// Role is the access tier of a user. The zero value is not a valid role.
type Role uint8

const (
	roleInvalid Role = iota
	RoleGuest
	RoleViewer
	RoleOperator
	RoleAdmin
)

// hierarchy lists roles from least to most privileged.
var hierarchy = []Role{RoleGuest, RoleViewer, RoleOperator, RoleAdmin}

var roleNames = map[Role]string{
	RoleGuest:    "guest",
	RoleViewer:   "viewer",
	RoleOperator: "operator",
	RoleAdmin:    "admin",
}

func ParseRole(value string) (Role, error) {
	for role, name := range roleNames {
		if name == value {
			return role, nil
		}
	}
	return roleInvalid, fmt.Errorf("unknown role %q", value)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "invalid"
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return r.String(), nil
}

func (r *Role) Scan(src any) error {
	switch value := src.(type) {
	case string:
		return r.UnmarshalText([]byte(value))
	case []byte:
		return r.UnmarshalText(value)
	}
	return fmt.Errorf("cannot scan %T into Role", src)
}

// RoleSet is an immutable set of roles permitted on an endpoint.
type RoleSet struct {
	members map[Role]struct{}
}

func NewRoleSet(roles ...Role) RoleSet {
	members := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		if role.Valid() {
			members[role] = struct{}{}
		}
	}
	return RoleSet{members: members}
}

// AtLeast returns every role whose rank is equal to or above min.
func AtLeast(min Role) RoleSet {
	roles := []Role{}
	for _, role := range hierarchy {
		if role >= min {
			roles = append(roles, role)
		}
	}
	return NewRoleSet(roles...)
}

func (s RoleSet) Contains(role Role) bool {
	_, ok := s.members[role]
	return ok
}

func (s RoleSet) Roles() []Role {
	roles := make([]Role, 0, len(s.members))
	for role := range s.members {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] > roles[j] })
	return roles
}

// Allow-sets per tier, derived once from the hierarchy.
var (
	AdminOnly       = AtLeast(RoleAdmin)
	OperatorOrAbove = AtLeast(RoleOperator)
	ViewerOrAbove   = AtLeast(RoleViewer)
	AnyRole         = AtLeast(RoleGuest)
)

// Allow is the role gate: an authenticated caller whose role is in the set.
func Allow(role Role, authenticated bool, allowed RoleSet) bool {
	return authenticated && allowed.Contains(role)
}
