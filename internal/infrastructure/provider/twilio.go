package provider

import "context"

// KeyTwilio identifies the Twilio Verify adapter.
const KeyTwilio = "TWILIO"

// TwilioAdapter simulates Twilio Verify. Like FirebaseAdapter it is a
// network-free stand-in that always succeeds; the presented meta is echoed
// back in the result for debugging.
type TwilioAdapter struct{}

func NewTwilioAdapter() *TwilioAdapter { return &TwilioAdapter{} }

func (a *TwilioAdapter) Key() string { return KeyTwilio }

func (a *TwilioAdapter) Verify(_ context.Context, providerToken string, meta map[string]any) (*VerifyResult, error) {
	return &VerifyResult{
		Success:     true,
		SubjectID:   "twilio-user-0001",
		PhoneNumber: "+10000000000",
		Metadata:    meta,
	}, nil
}
