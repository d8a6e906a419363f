package domain

import "time"

// Role names embedded in tokens and checked by route middleware.
// No ROLE_ prefix; the raw name is the claim value.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is an authenticated identity in the directory. The phone number is the
// stable, globally unique authentication key; UserID is a secondary surrogate
// used to link profile data.
type User struct {
	PhoneNumber string     `json:"phone_number" dynamodbav:"phone_number"`
	UserID      string     `json:"id" dynamodbav:"user_id"`
	Roles       []string   `json:"roles" dynamodbav:"roles"`
	Enable      bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type AssignRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=USER ADMIN"`
}
