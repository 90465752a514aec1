package event

const OTPIssuedDestination string = "otp_issued"

type OTPIssuedMessage struct {
	PhoneNumber string `json:"phone_number"`
	DeliveryID  string `json:"delivery_id"`
	IssuedAt    int64  `json:"issued_at"`
}
