package event

const OTPVerifiedDestination string = "otp_verified"

type OTPVerifiedMessage struct {
	PhoneNumber string `json:"phone_number"`
	VerifiedAt  int64  `json:"verified_at"`
}
