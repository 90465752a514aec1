package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/goerror"
)

const auditListDefaultSize int32 = 50

type (
	AuditListInput struct {
		PhoneNumber string
		Action      string
		Success     *bool
		DateFrom    time.Time
		DateTo      time.Time
		Size        int32
		Page        int32
	}

	AuditListOutput struct {
		Events []entity.AuditEvent
	}
)

// AuditList returns audit trail entries matching the filter, newest first.
func (s *Usecase) AuditList(ctx context.Context, in AuditListInput) (*AuditListOutput, error) {
	ctx, span := s.startSpan(ctx, "AuditList")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return nil, err
	}

	filter := entity.AuditFilterData{
		PhoneNumber: in.PhoneNumber,
		Action:      entity.AuditActionFromString(in.Action),
		Success:     in.Success,
		DateFrom:    in.DateFrom,
		DateTo:      in.DateTo,
		Size:        lo.Ternary(in.Size > 0, in.Size, auditListDefaultSize),
		Page:        max(in.Page, 0),
	}

	events, err := s.repoDB.GetAuditEvents(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get audit events", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AuditListOutput{Events: events}, nil
}
