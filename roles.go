package authlink

import (
	"encoding/json"
	"slices"
	"strings"
)

// RoleSet is an ordered, de-duplicated set of role tokens. Duplicates and
// input order carry no meaning; two sets compare equal whenever they hold
// the same tokens.
type RoleSet []string

// NewRoleSet builds a RoleSet from raw tokens, trimming whitespace and
// dropping empties and duplicates.
func NewRoleSet(tokens ...string) RoleSet {
	set := make(RoleSet, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if !slices.Contains(set, token) {
			set = append(set, token)
		}
	}
	slices.Sort(set)
	return set
}

// Has reports whether role is a member of the set.
func (r RoleSet) Has(role string) bool {
	return slices.Contains(r, role)
}

// Intersects reports whether the two sets share at least one role.
func (r RoleSet) Intersects(other RoleSet) bool {
	for _, role := range other {
		if r.Has(role) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold exactly the same tokens.
func (r RoleSet) Equal(other RoleSet) bool {
	a := NewRoleSet(r...)
	b := NewRoleSet(other...)
	return slices.Equal(a, b)
}

// Clone returns an independent copy of the set.
func (r RoleSet) Clone() RoleSet {
	if r == nil {
		return nil
	}
	return slices.Clone(r)
}

// UnmarshalJSON normalizes decoded tokens into set form.
func (r *RoleSet) UnmarshalJSON(data []byte) error {
	var tokens []string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return err
	}
	*r = NewRoleSet(tokens...)
	return nil
}

const roleDelimiter = ","

// EncodeRoles serializes a role set to the delimited persistence form.
// Together with DecodeRoles it is the only place the storage encoding is
// visible; everything above the persistence edge works on RoleSet values.
func EncodeRoles(roles RoleSet) string {
	return strings.Join(NewRoleSet(roles...), roleDelimiter)
}

// DecodeRoles parses the delimited persistence form back into a role set.
// Token order inside the encoded string is not meaningful.
func DecodeRoles(encoded string) RoleSet {
	if encoded == "" {
		return RoleSet{}
	}
	return NewRoleSet(strings.Split(encoded, roleDelimiter)...)
}
