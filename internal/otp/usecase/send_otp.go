package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/phone"
)

type (
	SendOTPInput struct {
		PhoneNumber  string
		Code         string `validate:"required,numeric"`
		ActorAddress string
	}

	SendOTPOutput struct {
		Success    bool
		Message    string
		DeliveryID string
	}
)

// SendOTP delivers the given passcode over SMS and stores its hash for later
// verification. Expected failures come back as an unsuccessful output with a
// caller-facing message, not as an error.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) (*SendOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	if !phone.IsValid(in.PhoneNumber) {
		slog.WarnContext(ctx, "rejected malformed phone number", "actor_address", in.ActorAddress)
		return &SendOTPOutput{Success: false, Message: MsgInvalidPhoneNumber}, nil
	}

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "rejected malformed otp code", "actor_address", in.ActorAddress)
		return &SendOTPOutput{Success: false, Message: "Invalid verification code"}, nil
	}

	allowed, err := s.limiter.TryAcquire(ctx,
		in.PhoneNumber,
		s.cfg.GetInt("modules.otp.rate_limit_max_requests"),
		s.cfg.GetSecond("modules.otp.rate_limit_window_seconds"),
	)
	if err != nil {
		// Fail open, the limiter backend being down must not block sign-ins.
		slog.WarnContext(ctx, "rate limiter unavailable, admitting request",
			"phone_number", in.PhoneNumber, "error", err)
		allowed = true
	}
	if !allowed {
		s.recordAudit(ctx, entity.AuditActionOTPSendFailed, in.PhoneNumber, in.ActorAddress, false,
			map[string]any{"error": MsgRateLimited})

		return &SendOTPOutput{Success: false, Message: MsgRateLimited}, nil
	}

	ttl := s.cfg.GetMinute("modules.otp.code_ttl_minutes")
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", in.Code, int(ttl.Minutes()))

	res, err := s.channel.Send(ctx, in.PhoneNumber, body)
	if err != nil {
		slog.ErrorContext(ctx, "sms delivery aborted", "phone_number", in.PhoneNumber, "error", err)
		s.recordAudit(ctx, entity.AuditActionOTPSendFailed, in.PhoneNumber, in.ActorAddress, false,
			map[string]any{"error": err.Error()})

		return &SendOTPOutput{Success: false, Message: "Failed to send OTP"}, nil
	}
	if !res.Success {
		slog.WarnContext(ctx, "sms delivery rejected", "phone_number", in.PhoneNumber, "reason", res.Message)
		s.recordAudit(ctx, entity.AuditActionOTPSendFailed, in.PhoneNumber, in.ActorAddress, false,
			map[string]any{"error": res.Message})

		return &SendOTPOutput{Success: false, Message: res.Message}, nil
	}

	// The record is written only after delivery succeeds so a failed send
	// never leaves a verifiable code behind.
	codeHash, err := s.hmac.Hash(in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		s.recordAudit(ctx, entity.AuditActionOTPSendFailed, in.PhoneNumber, in.ActorAddress, false,
			map[string]any{"error": MsgStoreFailed})

		return &SendOTPOutput{Success: false, Message: MsgStoreFailed}, nil
	}

	issuedAt := s.clock.Now()
	rec := entity.OTPRecord{
		PhoneNumber: in.PhoneNumber,
		CodeHash:    string(codeHash),
		IssuedAt:    issuedAt,
	}
	if err := s.store.Put(ctx, rec, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to store otp record", "phone_number", in.PhoneNumber, "error", err)
		s.recordAudit(ctx, entity.AuditActionOTPSendFailed, in.PhoneNumber, in.ActorAddress, false,
			map[string]any{"error": MsgStoreFailed})

		return &SendOTPOutput{Success: false, Message: MsgStoreFailed}, nil
	}

	s.recordAudit(ctx, entity.AuditActionOTPSent, in.PhoneNumber, in.ActorAddress, true,
		map[string]any{"delivery_id": res.DeliveryID})

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		return s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
			PhoneNumber: in.PhoneNumber,
			DeliveryID:  res.DeliveryID,
			IssuedAt:    issuedAt,
		})
	})

	return &SendOTPOutput{Success: true, Message: MsgOTPSent, DeliveryID: res.DeliveryID}, nil
}
