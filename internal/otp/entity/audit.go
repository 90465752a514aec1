package entity

import (
	"time"

	"github.com/nimbusheet/otpgate/internal/pkg/valueobject"
)

// AuditAction identifies the kind of security-relevant event being recorded.
type AuditAction string

const (
	AuditActionOTPSent         AuditAction = "sms_otp_sent"
	AuditActionOTPSendFailed   AuditAction = "sms_otp_failed"
	AuditActionOTPVerified     AuditAction = "sms_otp_verified"
	AuditActionOTPVerifyFailed AuditAction = "sms_otp_verify_failed"
)

func (a AuditAction) String() string { return string(a) }

// AuditActionFromString maps a raw string to a known action, or empty when unknown.
func AuditActionFromString(s string) AuditAction {
	switch AuditAction(s) {
	case AuditActionOTPSent, AuditActionOTPSendFailed, AuditActionOTPVerified, AuditActionOTPVerifyFailed:
		return AuditAction(s)
	default:
		return ""
	}
}

// AuditResourceSMSOTP names the resource all OTP audit events are recorded against.
const AuditResourceSMSOTP = "sms_otp"

// AuditEvent is an immutable record of one issuance or verification attempt.
type AuditEvent struct {
	ID           int64
	Action       AuditAction
	Resource     string
	PhoneNumber  string
	ActorAddress string
	Success      bool
	Details      valueobject.JSONMap
	OccurredAt   time.Time
}

// AuditFilterData narrows an audit trail query. Zero values mean no filter.
type AuditFilterData struct {
	PhoneNumber string
	Action      AuditAction
	Success     *bool
	DateFrom    time.Time
	DateTo      time.Time
	Size        int32
	Page        int32
}
