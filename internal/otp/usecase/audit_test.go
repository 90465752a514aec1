package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/idempotency"
	"github.com/nimbusheet/otpgate/internal/pkg/jwt"
	"github.com/nimbusheet/otpgate/internal/pkg/storage"
)

type fakeIdempotency struct {
	err error
}

func (f *fakeIdempotency) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if f.err != nil {
		return f.err
	}

	return fn(ctx)
}

func (f *fakeIdempotency) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (f *fakeIdempotency) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdempotency) MarkFailed(context.Context, string, time.Duration) error { return nil }

type fakeStorage struct {
	putBucket string
	putKey    string
	putBody   []byte
	putErr    error
}

func (f *fakeStorage) PutObject(_ context.Context, bucket, key string, r io.Reader, _ storage.PutOptions) (storage.ObjectInfo, error) {
	if f.putErr != nil {
		return storage.ObjectInfo{}, f.putErr
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}

	f.putBucket, f.putKey, f.putBody = bucket, key, body

	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(body))}, nil
}

func (f *fakeStorage) GetObject(context.Context, string, string, storage.GetOptions) (io.ReadCloser, storage.ObjectInfo, error) {
	return io.NopCloser(bytes.NewReader(nil)), storage.ObjectInfo{}, nil
}

func (f *fakeStorage) StatObject(context.Context, string, string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, nil
}

func (f *fakeStorage) DeleteObject(context.Context, string, string) error { return nil }

func (f *fakeStorage) ListObjects(context.Context, string, string, storage.ListOptions) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (f *fakeStorage) PresignGet(context.Context, string, string, time.Duration) (string, error) {
	return "", nil
}

func (f *fakeStorage) PresignPut(context.Context, string, string, storage.PutOptions, time.Duration) (string, error) {
	return "", nil
}

func (f *fakeStorage) Close() error { return nil }

func authedContext() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 7, UserEmail: "ops@nimbusheet.com"})
}

func TestAuditList(t *testing.T) {
	t.Run("returns events for an authenticated caller", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.repoDB.listOut = []entity.AuditEvent{
			{ID: 2, Action: entity.AuditActionOTPVerified, PhoneNumber: "+15005550006", Success: true},
			{ID: 1, Action: entity.AuditActionOTPSent, PhoneNumber: "+15005550006", Success: true},
		}

		// Act
		out, err := f.uc.AuditList(authedContext(), AuditListInput{PhoneNumber: "+15005550006"})

		// Assert
		if err != nil {
			t.Fatalf("AuditList() error = %v", err)
		}
		if len(out.Events) != 2 || out.Events[0].ID != 2 {
			t.Errorf("AuditList() = %+v, want two events newest first", out.Events)
		}
	})

	t.Run("unauthenticated caller is rejected", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.AuditList(context.Background(), AuditListInput{})

		// Assert
		if err == nil {
			t.Fatal("AuditList() error = nil, want unauthorized")
		}
	})

	t.Run("repo failure surfaces as server error", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.repoDB.err = errors.New("db down")

		// Act
		_, err := f.uc.AuditList(authedContext(), AuditListInput{})

		// Assert
		if err == nil {
			t.Fatal("AuditList() error = nil, want error")
		}
	})
}

func TestAuditExport(t *testing.T) {
	dateFrom := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	dateTo := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	t.Run("writes ndjson to object storage", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.repoDB.listOut = []entity.AuditEvent{
			{ID: 2, Action: entity.AuditActionOTPVerified, PhoneNumber: "+15005550006", Success: true},
			{ID: 1, Action: entity.AuditActionOTPSent, PhoneNumber: "+15005550006", Success: true},
		}
		st := &fakeStorage{}
		f.uc.storage = st
		f.uc.idempotency = &fakeIdempotency{}

		// Act
		out, err := f.uc.AuditExport(authedContext(), AuditExportInput{DateFrom: dateFrom, DateTo: dateTo})

		// Assert
		if err != nil {
			t.Fatalf("AuditExport() error = %v", err)
		}
		if out.Bucket != "otp-audit" || out.Count != 2 {
			t.Errorf("AuditExport() = %+v, want bucket otp-audit with two events", out)
		}
		if !strings.HasPrefix(out.Key, "audit-exports/2026-01-01/") {
			t.Errorf("AuditExport().Key = %q, want date-based prefix", out.Key)
		}

		lines := strings.Split(strings.TrimSpace(string(st.putBody)), "\n")
		if len(lines) != 2 {
			t.Fatalf("exported lines = %d, want 2", len(lines))
		}
		if !strings.Contains(lines[0], entity.AuditActionOTPSent.String()) {
			t.Errorf("first export line = %q, want oldest event first", lines[0])
		}
	})

	t.Run("duplicate export is rejected as a conflict", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.uc.storage = &fakeStorage{}
		f.uc.idempotency = &fakeIdempotency{err: idempotency.ErrAlreadyCompleted}

		// Act
		_, err := f.uc.AuditExport(authedContext(), AuditExportInput{DateFrom: dateFrom, DateTo: dateTo})

		// Assert
		if err == nil {
			t.Fatal("AuditExport() error = nil, want conflict")
		}
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.uc.storage = &fakeStorage{}
		f.uc.idempotency = &fakeIdempotency{}

		// Act
		_, err := f.uc.AuditExport(authedContext(), AuditExportInput{DateFrom: dateTo, DateTo: dateFrom})

		// Assert
		if err == nil {
			t.Fatal("AuditExport() error = nil, want invalid input")
		}
	})

	t.Run("unauthenticated caller is rejected", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.AuditExport(context.Background(), AuditExportInput{DateFrom: dateFrom, DateTo: dateTo})

		// Assert
		if err == nil {
			t.Fatal("AuditExport() error = nil, want unauthorized")
		}
	})
}
