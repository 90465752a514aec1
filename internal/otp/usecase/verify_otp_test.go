package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
)

func (f *ucFixture) issue(t *testing.T, phoneNumber, code string) {
	t.Helper()

	out, err := f.uc.SendOTP(context.Background(), SendOTPInput{
		PhoneNumber:  phoneNumber,
		Code:         code,
		ActorAddress: "10.0.0.1:5000",
	})
	if err != nil || !out.Success {
		t.Fatalf("SendOTP() = %+v, %v, want success", out, err)
	}

	f.repoDB.events = nil
}

func TestVerifyOTP(t *testing.T) {
	t.Run("correct code validates once and consumes the record", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.issue(t, "+15005550006", "123456")

		// Act
		first, err1 := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			PhoneNumber: "+15005550006", Code: "123456", ActorAddress: "10.0.0.1:5000",
		})
		second, err2 := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			PhoneNumber: "+15005550006", Code: "123456", ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err1 != nil || err2 != nil {
			t.Fatalf("VerifyOTP() errors = %v, %v", err1, err2)
		}
		if !first.Valid {
			t.Error("first VerifyOTP().Valid = false, want true")
		}
		if second.Valid {
			t.Error("second VerifyOTP().Valid = true, want false after consumption")
		}

		evs := f.repoDB.recorded()
		if len(evs) != 2 {
			t.Fatalf("audit events = %v, want two", auditActions(evs))
		}
		if evs[0].Action != entity.AuditActionOTPVerified || evs[1].Action != entity.AuditActionOTPVerifyFailed {
			t.Errorf("audit events = %v, want verified then verify_failed", auditActions(evs))
		}

		if err := f.grm.Wait(); err != nil {
			t.Fatalf("goroutine.Wait() error = %v", err)
		}
		if len(f.msg.verified) != 1 {
			t.Errorf("verified events = %+v, want one", f.msg.verified)
		}
	})

	t.Run("wrong code is invalid and keeps the record", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.issue(t, "+15005550006", "123456")

		// Act
		wrong, err1 := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			PhoneNumber: "+15005550006", Code: "654321", ActorAddress: "10.0.0.1:5000",
		})
		right, err2 := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			PhoneNumber: "+15005550006", Code: "123456", ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err1 != nil || err2 != nil {
			t.Fatalf("VerifyOTP() errors = %v, %v", err1, err2)
		}
		if wrong.Valid {
			t.Error("VerifyOTP() with wrong code = true, want false")
		}
		if !right.Valid {
			t.Error("VerifyOTP() with right code after a miss = false, want true")
		}
	})

	t.Run("no active code is invalid", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		out, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			PhoneNumber: "+15005550006", Code: "123456", ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err != nil {
			t.Fatalf("VerifyOTP() error = %v", err)
		}
		if out.Valid {
			t.Error("VerifyOTP().Valid = true, want false when nothing was issued")
		}

		evs := f.repoDB.recorded()
		if len(evs) != 1 || evs[0].Action != entity.AuditActionOTPVerifyFailed {
			t.Errorf("audit events = %v, want one %s", auditActions(evs), entity.AuditActionOTPVerifyFailed)
		}
	})

	t.Run("expired code is invalid", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.issue(t, "+15005550006", "123456")
		f.clock.now = f.clock.now.Add(5*time.Minute + time.Second)

		// Act
		out, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			PhoneNumber: "+15005550006", Code: "123456", ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err != nil {
			t.Fatalf("VerifyOTP() error = %v", err)
		}
		if out.Valid {
			t.Error("VerifyOTP().Valid = true, want false past the ttl")
		}
		if _, err := f.store.Get(context.Background(), "+15005550006"); err == nil {
			t.Error("store.Get() found a record, want expired record removed")
		}
	})

	t.Run("store outage fails closed", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.issue(t, "+15005550006", "123456")
		f.store.getErr = errors.New("store down")

		// Act
		out, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			PhoneNumber: "+15005550006", Code: "123456", ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err != nil {
			t.Fatalf("VerifyOTP() error = %v", err)
		}
		if out.Valid {
			t.Error("VerifyOTP().Valid = true, want false on backend outage")
		}
	})

	t.Run("malformed phone is invalid and audited", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		out, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			PhoneNumber: "not-a-phone", Code: "123456", ActorAddress: "10.0.0.1:5000",
		})

		// Assert
		if err != nil {
			t.Fatalf("VerifyOTP() error = %v", err)
		}
		if out.Valid {
			t.Error("VerifyOTP().Valid = true, want false")
		}

		evs := f.repoDB.recorded()
		if len(evs) != 1 || evs[0].Action != entity.AuditActionOTPVerifyFailed {
			t.Errorf("audit events = %v, want one %s", auditActions(evs), entity.AuditActionOTPVerifyFailed)
		}
	})
}
