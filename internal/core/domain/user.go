package domain

import (
	"slices"
	"time"
)

const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleCustomer = "ROLE_CUSTOMER"
	RoleUser     = "ROLE_USER"
)

// OwnedUsersQuota caps how many simple users a customer may own.
const OwnedUsersQuota = 20

// roleHierarchy lists the roles each role implicitly grants.
var roleHierarchy = map[string][]string{
	RoleAdmin:    {RoleCustomer, RoleUser},
	RoleCustomer: {RoleUser},
}

// Grants reports whether the role set holds role directly or through the
// hierarchy ADMIN > CUSTOMER > USER.
func Grants(roles []string, role string) bool {
	for _, r := range roles {
		if r == role || slices.Contains(roleHierarchy[r], role) {
			return true
		}
	}
	return false
}

// UserRef is the short form of a user embedded in other representations.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// User is an admin, a customer or a customer-owned simple user. The variant
// is carried by Roles and by the presence of OwnerID.
type User struct {
	ID           int64     `json:"id"         bson:"_id"`
	Username     string    `json:"username"   bson:"username"`
	PasswordHash string    `json:"-"          bson:"password_hash"`
	Roles        []string  `json:"roles"      bson:"roles"`
	OwnerID      *int64    `json:"owner_id"   bson:"owner_id,omitempty"`
	Owner        *UserRef  `json:"owner"      bson:"-"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// HasRole checks the role directly held by the user, ignoring the hierarchy.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// IsOwnedBy reports whether ownerID is the user's owner.
func (u *User) IsOwnedBy(ownerID int64) bool {
	return u.OwnerID != nil && *u.OwnerID == ownerID
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username}
}

// Principal is the authenticated caller of a request.
type Principal struct {
	ID       int64
	Username string
	Roles    []string
}

// HasRole reports whether the caller is granted role, hierarchy included.
func (p Principal) HasRole(role string) bool {
	return Grants(p.Roles, role)
}

// IsAdmin reports whether the caller holds the admin role.
func (p Principal) IsAdmin() bool {
	return slices.Contains(p.Roles, RoleAdmin)
}
