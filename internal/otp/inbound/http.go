package inbound

import (
	"context"

	"github.com/nimbusheet/otpgate/internal/otp/usecase"
	"github.com/nimbusheet/otpgate/internal/pkg/router"
)

type uc interface {
	IssueOTP(ctx context.Context, in usecase.IssueOTPInput) (*usecase.SendOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)

	AuditList(ctx context.Context, in usecase.AuditListInput) (*usecase.AuditListOutput, error)
	AuditExport(ctx context.Context, in usecase.AuditExportInput) (*usecase.AuditExportOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// OTP lifecycle
	r.POST("/api/v1/otp/send", end.Send)
	r.POST("/api/v1/otp/verify", end.Verify)

	// Audit trail (need authenticated)
	r.GET("/api/v1/otp/audit", end.AuditList)
	r.POST("/api/v1/otp/audit/export", end.AuditExport)
}
