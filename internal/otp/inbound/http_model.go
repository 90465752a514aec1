package inbound

import "time"

type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type SendOTPResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DeliveryID string `json:"delivery_id,omitempty"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

type VerifyOTPResponse struct {
	Valid bool `json:"valid"`
}

type AuditEventItem struct {
	ID           int64          `json:"id"`
	Action       string         `json:"action"`
	Resource     string         `json:"resource"`
	PhoneNumber  string         `json:"phone_number"`
	ActorAddress string         `json:"actor_address"`
	Success      bool           `json:"success"`
	Details      map[string]any `json:"details,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
}

type AuditListResponse struct {
	Events []AuditEventItem `json:"events"`
}

type AuditExportRequest struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

type AuditExportResponse struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Count  int    `json:"count"`
}
