package enums

import "fmt"

// APIRole scopes what an API client may do with pricing data.
type APIRole string

const (
	RoleAdmin  APIRole = "admin"
	RoleEditor APIRole = "editor"
	RoleViewer APIRole = "viewer"
)

var validAPIRoles = []APIRole{
	RoleAdmin,
	RoleEditor,
	RoleViewer,
}

// String implements fmt.Stringer.
func (r APIRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known APIRole.
func (r APIRole) IsValid() bool {
	for _, candidate := range validAPIRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanWrite reports whether the role may mutate pricing data.
func (r APIRole) CanWrite() bool {
	return r == RoleAdmin || r == RoleEditor
}

// ParseAPIRole converts raw input into an APIRole.
func ParseAPIRole(value string) (APIRole, error) {
	for _, candidate := range validAPIRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid api role %q", value)
}
