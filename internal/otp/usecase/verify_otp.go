package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/goerror"
	"github.com/nimbusheet/otpgate/internal/pkg/phone"
)

type (
	VerifyOTPInput struct {
		PhoneNumber  string
		Code         string
		ActorAddress string
	}

	VerifyOTPOutput struct {
		Valid bool
	}
)

// VerifyOTP checks the submitted passcode against the active record and
// consumes the record on success. Every failure path answers invalid, never
// an error, so callers cannot distinguish why a code was rejected.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	if !phone.IsValid(in.PhoneNumber) || in.Code == "" {
		s.recordAudit(ctx, entity.AuditActionOTPVerifyFailed, in.PhoneNumber, in.ActorAddress, false,
			map[string]any{"reason": "malformed input"})

		return &VerifyOTPOutput{Valid: false}, nil
	}

	rec, err := s.store.Get(ctx, in.PhoneNumber)
	if errors.Is(err, goerror.ErrNotFound) {
		s.recordAudit(ctx, entity.AuditActionOTPVerifyFailed, in.PhoneNumber, in.ActorAddress, false,
			map[string]any{"reason": "no active code"})

		return &VerifyOTPOutput{Valid: false}, nil
	}
	if err != nil {
		// Fail closed, a backend outage must never let a code through.
		slog.ErrorContext(ctx, "failed to read otp record", "phone_number", in.PhoneNumber, "error", err)
		s.recordAudit(ctx, entity.AuditActionOTPVerifyFailed, in.PhoneNumber, in.ActorAddress, false,
			map[string]any{"reason": "store unavailable"})

		return &VerifyOTPOutput{Valid: false}, nil
	}

	now := s.clock.Now()
	if rec.Expired(now, s.cfg.GetMinute("modules.otp.code_ttl_minutes")) {
		if err := s.store.Delete(ctx, in.PhoneNumber); err != nil {
			slog.WarnContext(ctx, "failed to delete expired otp record", "phone_number", in.PhoneNumber, "error", err)
		}
		s.recordAudit(ctx, entity.AuditActionOTPVerifyFailed, in.PhoneNumber, in.ActorAddress, false,
			map[string]any{"reason": "code expired"})

		return &VerifyOTPOutput{Valid: false}, nil
	}

	if !s.hmac.Verify(rec.CodeHash, in.Code) {
		s.recordAudit(ctx, entity.AuditActionOTPVerifyFailed, in.PhoneNumber, in.ActorAddress, false,
			map[string]any{"reason": "code mismatch"})

		return &VerifyOTPOutput{Valid: false}, nil
	}

	// Consume before answering so the code can never validate twice.
	if err := s.store.Delete(ctx, in.PhoneNumber); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp record", "phone_number", in.PhoneNumber, "error", err)
		s.recordAudit(ctx, entity.AuditActionOTPVerifyFailed, in.PhoneNumber, in.ActorAddress, false,
			map[string]any{"reason": "store unavailable"})

		return &VerifyOTPOutput{Valid: false}, nil
	}

	s.recordAudit(ctx, entity.AuditActionOTPVerified, in.PhoneNumber, in.ActorAddress, true, nil)

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		return s.repoMessaging.PublishOTPVerified(ctx, OTPVerifiedEvent{
			PhoneNumber: in.PhoneNumber,
			VerifiedAt:  now,
		})
	})

	return &VerifyOTPOutput{Valid: true}, nil
}
