package enums

import "fmt"

// UserRole distinguishes the three panel audiences.
type UserRole string

const (
	UserRoleFarmer    UserRole = "ciftci"
	UserRoleCompany   UserRole = "firma"
	UserRoleAuthority UserRole = "ziraat"
)

var validUserRoles = []UserRole{
	UserRoleFarmer,
	UserRoleCompany,
	UserRoleAuthority,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// UserStatus captures the account lifecycle. Accounts are never hard-deleted;
// UserStatusDeleted is a soft-delete marker.
type UserStatus string

const (
	UserStatusActive    UserStatus = "aktif"
	UserStatusPending   UserStatus = "beklemede"
	UserStatusSuspended UserStatus = "askida"
	UserStatusDeleted   UserStatus = "silindi"
)

var validUserStatuses = []UserStatus{
	UserStatusActive,
	UserStatusPending,
	UserStatusSuspended,
	UserStatusDeleted,
}

// String implements fmt.Stringer.
func (s UserStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known UserStatus.
func (s UserStatus) IsValid() bool {
	for _, candidate := range validUserStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseUserStatus converts raw input into a UserStatus.
func ParseUserStatus(value string) (UserStatus, error) {
	for _, candidate := range validUserStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user status %q", value)
}
