package usecase

import (
	"context"
	"log/slog"

	"github.com/nimbusheet/otpgate/internal/pkg/goerror"
)

type IssueOTPInput struct {
	PhoneNumber  string
	ActorAddress string
}

// IssueOTP generates a fresh passcode and hands it to SendOTP, so callers
// never choose their own codes.
func (s *Usecase) IssueOTP(ctx context.Context, in IssueOTPInput) (*SendOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "IssueOTP")
	defer span.End()

	code, err := s.codegen.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	return s.SendOTP(ctx, SendOTPInput{
		PhoneNumber:  in.PhoneNumber,
		Code:         code,
		ActorAddress: in.ActorAddress,
	})
}
