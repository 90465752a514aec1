package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/sms"
)

func TestSendOTP(t *testing.T) {
	t.Run("success delivers, stores hash and audits once", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		out, err := f.uc.SendOTP(context.Background(), SendOTPInput{
			PhoneNumber:  "+15005550006",
			Code:         "123456",
			ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err != nil {
			t.Fatalf("SendOTP() error = %v", err)
		}
		if !out.Success || out.DeliveryID != "dl-1" {
			t.Errorf("SendOTP() = %+v, want success with delivery id", out)
		}

		rec, err := f.store.Get(context.Background(), "+15005550006")
		if err != nil {
			t.Fatalf("store.Get() error = %v", err)
		}
		if rec.CodeHash == "123456" || rec.CodeHash == "" {
			t.Errorf("store kept code in the clear or empty: %q", rec.CodeHash)
		}

		evs := f.repoDB.recorded()
		if len(evs) != 1 || evs[0].Action != entity.AuditActionOTPSent || !evs[0].Success {
			t.Errorf("audit events = %v, want one successful %s", auditActions(evs), entity.AuditActionOTPSent)
		}
		if evs[0].Details["delivery_id"] != "dl-1" {
			t.Errorf("audit details = %v, want delivery_id dl-1", evs[0].Details)
		}

		if err := f.grm.Wait(); err != nil {
			t.Fatalf("goroutine.Wait() error = %v", err)
		}
		if len(f.msg.issued) != 1 || f.msg.issued[0].PhoneNumber != "+15005550006" {
			t.Errorf("issued events = %+v, want one for the phone", f.msg.issued)
		}
	})

	t.Run("malformed phone fails without audit or delivery", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		out, err := f.uc.SendOTP(context.Background(), SendOTPInput{
			PhoneNumber:  "5005550006",
			Code:         "123456",
			ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err != nil {
			t.Fatalf("SendOTP() error = %v", err)
		}
		if out.Success || out.Message != MsgInvalidPhoneNumber {
			t.Errorf("SendOTP() = %+v, want failure with %q", out, MsgInvalidPhoneNumber)
		}
		if len(f.channel.sent) != 0 {
			t.Errorf("channel.sent = %v, want no delivery", f.channel.sent)
		}
		if evs := f.repoDB.recorded(); len(evs) != 0 {
			t.Errorf("audit events = %v, want none", auditActions(evs))
		}
		if f.limiter.calls != 0 {
			t.Errorf("limiter.calls = %d, want 0", f.limiter.calls)
		}
	})

	t.Run("rate limited fails with audit and no delivery", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.limiter.allowed = false

		// Act
		out, err := f.uc.SendOTP(context.Background(), SendOTPInput{
			PhoneNumber:  "+15005550006",
			Code:         "123456",
			ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err != nil {
			t.Fatalf("SendOTP() error = %v", err)
		}
		if out.Success || out.Message != MsgRateLimited {
			t.Errorf("SendOTP() = %+v, want failure with %q", out, MsgRateLimited)
		}
		if len(f.channel.sent) != 0 {
			t.Errorf("channel.sent = %v, want no delivery", f.channel.sent)
		}

		evs := f.repoDB.recorded()
		if len(evs) != 1 || evs[0].Action != entity.AuditActionOTPSendFailed {
			t.Fatalf("audit events = %v, want one %s", auditActions(evs), entity.AuditActionOTPSendFailed)
		}
		if evs[0].Details["error"] != MsgRateLimited {
			t.Errorf("audit details = %v, want rate limit message", evs[0].Details)
		}
	})

	t.Run("limiter backend outage fails open", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.limiter.allowed = false
		f.limiter.err = errors.New("redis down")

		// Act
		out, err := f.uc.SendOTP(context.Background(), SendOTPInput{
			PhoneNumber:  "+15005550006",
			Code:         "123456",
			ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err != nil {
			t.Fatalf("SendOTP() error = %v", err)
		}
		if !out.Success {
			t.Errorf("SendOTP() = %+v, want success despite limiter outage", out)
		}
	})

	t.Run("provider rejection fails without storing a record", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.channel.result = sms.Result{Success: false, Message: "Failed to send OTP: unreachable carrier"}

		// Act
		out, err := f.uc.SendOTP(context.Background(), SendOTPInput{
			PhoneNumber:  "+15005550006",
			Code:         "123456",
			ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err != nil {
			t.Fatalf("SendOTP() error = %v", err)
		}
		if out.Success || out.Message != "Failed to send OTP: unreachable carrier" {
			t.Errorf("SendOTP() = %+v, want provider failure message", out)
		}
		if _, err := f.store.Get(context.Background(), "+15005550006"); err == nil {
			t.Error("store.Get() found a record, want none after failed delivery")
		}

		evs := f.repoDB.recorded()
		if len(evs) != 1 || evs[0].Action != entity.AuditActionOTPSendFailed {
			t.Errorf("audit events = %v, want one %s", auditActions(evs), entity.AuditActionOTPSendFailed)
		}
	})

	t.Run("store failure audits a failed send", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.store.putErr = errors.New("store down")

		// Act
		out, err := f.uc.SendOTP(context.Background(), SendOTPInput{
			PhoneNumber:  "+15005550006",
			Code:         "123456",
			ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err != nil {
			t.Fatalf("SendOTP() error = %v", err)
		}
		if out.Success || out.Message != MsgStoreFailed {
			t.Errorf("SendOTP() = %+v, want failure with %q", out, MsgStoreFailed)
		}

		evs := f.repoDB.recorded()
		if len(evs) != 1 || evs[0].Action != entity.AuditActionOTPSendFailed {
			t.Errorf("audit events = %v, want one %s", auditActions(evs), entity.AuditActionOTPSendFailed)
		}
	})
}

func TestIssueOTP(t *testing.T) {
	t.Run("generates a code and sends it", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		out, err := f.uc.IssueOTP(context.Background(), IssueOTPInput{
			PhoneNumber:  "+15005550006",
			ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err != nil {
			t.Fatalf("IssueOTP() error = %v", err)
		}
		if !out.Success {
			t.Errorf("IssueOTP() = %+v, want success", out)
		}
		if len(f.channel.sent) != 1 {
			t.Errorf("channel.sent = %v, want one delivery", f.channel.sent)
		}
	})

	t.Run("generator failure surfaces as server error", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.uc.codegen = &fakeGenerator{err: errors.New("entropy exhausted")}

		// Act
		_, err := f.uc.IssueOTP(context.Background(), IssueOTPInput{
			PhoneNumber:  "+15005550006",
			ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err == nil {
			t.Fatal("IssueOTP() error = nil, want error")
		}
	})
}
