package domain

import "time"

// UserProfile holds the non-identity data attached to a user. Addresses are
// embedded in the profile item rather than stored in a separate table.
type UserProfile struct {
	PhoneNumber    string    `json:"phone_number" dynamodbav:"phone_number"`
	FirstName      string    `json:"first_name" dynamodbav:"first_name"`
	LastName       string    `json:"last_name,omitempty" dynamodbav:"last_name"`
	Email          string    `json:"email,omitempty" dynamodbav:"email"`
	EmailConfirmed bool      `json:"email_confirmed" dynamodbav:"email_confirmed"`
	DateOfBirth    string    `json:"date_of_birth,omitempty" dynamodbav:"date_of_birth"` // YYYY-MM-DD
	Addresses      []Address `json:"addresses" dynamodbav:"addresses"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Address is a delivery/location entry on a profile. At most one address per
// profile has Default set.
type Address struct {
	AddressID string  `json:"id" dynamodbav:"address_id"`
	Line1     string  `json:"line1" dynamodbav:"line1"`
	Line2     string  `json:"line2,omitempty" dynamodbav:"line2"`
	PlaceID   string  `json:"place_id,omitempty" dynamodbav:"place_id"`
	PlaceName string  `json:"place_name,omitempty" dynamodbav:"place_name"`
	Lat       float64 `json:"lat,omitempty" dynamodbav:"lat"`
	Lng       float64 `json:"lng,omitempty" dynamodbav:"lng"`
	Default   bool    `json:"default" dynamodbav:"default"`
}

type UpsertProfileRequest struct {
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	DateOfBirth *string `json:"date_of_birth"` // expected format: YYYY-MM-DD
}

type AddressRequest struct {
	Line1     string  `json:"line1" validate:"required"`
	Line2     string  `json:"line2"`
	PlaceID   string  `json:"place_id"`
	PlaceName string  `json:"place_name"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Default   bool    `json:"default"`
}
