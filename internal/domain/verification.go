package domain

// Verification kinds stored in the verifications table.
// PK: phone_number, SK: type.
const (
	VerificationOTP   = "otp"
	VerificationEmail = "email"
)

// Verification is a short-lived secret bound to a phone number: either a
// bcrypt hash of an SMS login code or a plain e-mail confirmation token.
// ExpiresAt doubles as the DynamoDB TTL attribute.
type Verification struct {
	PhoneNumber string `dynamodbav:"phone_number"`
	Type        string `dynamodbav:"type"`
	Code        string `dynamodbav:"code"`
	ExpiresAt   int64  `dynamodbav:"expires_at"`
}
