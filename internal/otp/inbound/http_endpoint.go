package inbound

import (
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/otp/usecase"
	"github.com/nimbusheet/otpgate/internal/pkg/goerror"
	"github.com/nimbusheet/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for OTP issuance, verification and the
// audit trail.
type HTTPEndpoint struct {
	uc uc
}

// Send issues a one-time passcode and delivers it over SMS.
// @Summary Send OTP
// @Description Generates a passcode for the phone number and delivers it via the configured SMS channel.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Send payload"
// @Success 200 {object} router.successResponse{data=SendOTPResponse} "Delivery result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/send [post]
func (h *HTTPEndpoint) Send(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.IssueOTP(r.Context(), usecase.IssueOTPInput{
		PhoneNumber:  req.PhoneNumber,
		ActorAddress: r.RemoteAddr,
	})
	if err != nil {
		return nil, err
	}

	return SendOTPResponse{
		Success:    resp.Success,
		Message:    resp.Message,
		DeliveryID: resp.DeliveryID,
	}, nil
}

// Verify checks a submitted passcode.
// @Summary Verify OTP
// @Description Validates the passcode for the phone number and consumes it on success.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "Verification result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		PhoneNumber:  req.PhoneNumber,
		Code:         req.Code,
		ActorAddress: r.RemoteAddr,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{Valid: resp.Valid}, nil
}

// AuditList returns audit trail entries, newest first.
// @Summary List audit events
// @Description Lists OTP audit events filtered by phone number, action, outcome and date range.
// @Tags OTP, Audit
// @Produce json
// @Security BearerAuth
// @Param phone_number query string false "Filter by phone number"
// @Param action query string false "Filter by action"
// @Param success query bool false "Filter by outcome"
// @Param date_from query string false "Start date (YYYY-MM-DD)"
// @Param date_to query string false "End date (YYYY-MM-DD)"
// @Param size query int false "Page size"
// @Param page query int false "Page number"
// @Success 200 {object} router.successResponse{data=AuditListResponse} "Audit events"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/audit [get]
func (h *HTTPEndpoint) AuditList(r *router.Request) (any, error) {
	dateFrom, err := r.GetQueryDate("date_from", time.DateOnly)
	if err != nil {
		return nil, err
	}

	dateTo, err := r.GetQueryDate("date_to", time.DateOnly)
	if err != nil {
		return nil, err
	}

	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	var success *bool
	if raw := r.GetQuery("success"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, goerror.NewInvalidFormat("success must be a boolean")
		}
		success = &v
	}

	resp, err := h.uc.AuditList(r.Context(), usecase.AuditListInput{
		PhoneNumber: r.GetQuery("phone_number"),
		Action:      r.GetQuery("action"),
		Success:     success,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		Size:        size,
		Page:        page,
	})
	if err != nil {
		return nil, err
	}

	return AuditListResponse{
		Events: lo.Map(resp.Events, func(ev entity.AuditEvent, _ int) AuditEventItem {
			return AuditEventItem{
				ID:           ev.ID,
				Action:       ev.Action.String(),
				Resource:     ev.Resource,
				PhoneNumber:  ev.PhoneNumber,
				ActorAddress: ev.ActorAddress,
				Success:      ev.Success,
				Details:      ev.Details,
				OccurredAt:   ev.OccurredAt,
			}
		}),
	}, nil
}

// AuditExport writes the audit trail for a date range to object storage.
// @Summary Export audit events
// @Description Exports OTP audit events for a date range to object storage as NDJSON.
// @Tags OTP, Audit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AuditExportRequest true "Export payload"
// @Success 200 {object} router.successResponse{data=AuditExportResponse} "Export location"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 409 {object} router.errorResponse "Export already ran"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/audit/export [post]
func (h *HTTPEndpoint) AuditExport(r *router.Request) (any, error) {
	var req AuditExportRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	dateFrom, err := time.Parse(time.DateOnly, req.DateFrom)
	if err != nil {
		return nil, goerror.NewInvalidFormat("date_from must be YYYY-MM-DD")
	}

	dateTo, err := time.Parse(time.DateOnly, req.DateTo)
	if err != nil {
		return nil, goerror.NewInvalidFormat("date_to must be YYYY-MM-DD")
	}

	resp, err := h.uc.AuditExport(r.Context(), usecase.AuditExportInput{
		DateFrom: dateFrom,
		DateTo:   dateTo.Add(24*time.Hour - time.Nanosecond),
	})
	if err != nil {
		return nil, err
	}

	return AuditExportResponse{
		Bucket: resp.Bucket,
		Key:    resp.Key,
		Count:  resp.Count,
	}, nil
}
