package provider

import "context"

// KeyFirebase identifies the Firebase phone-auth adapter.
const KeyFirebase = "FIREBASE"

// FirebaseAdapter simulates Firebase phone-auth verification. It deliberately
// performs no network calls and always reports success with a fixed test
// identity, keeping the pipeline runnable without Firebase credentials.
type FirebaseAdapter struct{}

func NewFirebaseAdapter() *FirebaseAdapter { return &FirebaseAdapter{} }

func (a *FirebaseAdapter) Key() string { return KeyFirebase }

func (a *FirebaseAdapter) Verify(_ context.Context, providerToken string, _ map[string]any) (*VerifyResult, error) {
	return &VerifyResult{
		Success:     true,
		SubjectID:   "firebase-123456",
		PhoneNumber: "+919871188869",
	}, nil
}
