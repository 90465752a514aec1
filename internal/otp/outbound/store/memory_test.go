package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/goerror"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func TestMemory(t *testing.T) {
	t.Run("put then get returns the record", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
		s := NewMemory(clk)
		rec := entity.OTPRecord{PhoneNumber: "+15005550006", CodeHash: "abc", IssuedAt: clk.now}

		// Act
		if err := s.Put(context.Background(), rec, 5*time.Minute); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		got, err := s.Get(context.Background(), "+15005550006")

		// Assert
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.CodeHash != "abc" || got.PhoneNumber != "+15005550006" {
			t.Errorf("Get() = %+v, want stored record", got)
		}
	})

	t.Run("get missing record returns not found", func(t *testing.T) {
		// Arrange
		s := NewMemory(&fakeClock{now: time.Now()})

		// Act
		_, err := s.Get(context.Background(), "+15005550006")

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("record expires after ttl", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
		s := NewMemory(clk)
		rec := entity.OTPRecord{PhoneNumber: "+15005550006", CodeHash: "abc", IssuedAt: clk.now}
		if err := s.Put(context.Background(), rec, 5*time.Minute); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		// Act
		clk.now = clk.now.Add(5*time.Minute + time.Second)
		_, err := s.Get(context.Background(), "+15005550006")

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Errorf("Get() after ttl error = %v, want ErrNotFound", err)
		}
	})

	t.Run("later put replaces earlier record", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
		s := NewMemory(clk)
		first := entity.OTPRecord{PhoneNumber: "+15005550006", CodeHash: "first", IssuedAt: clk.now}
		second := entity.OTPRecord{PhoneNumber: "+15005550006", CodeHash: "second", IssuedAt: clk.now}

		// Act
		if err := s.Put(context.Background(), first, 5*time.Minute); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := s.Put(context.Background(), second, 5*time.Minute); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		got, err := s.Get(context.Background(), "+15005550006")

		// Assert
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.CodeHash != "second" {
			t.Errorf("Get().CodeHash = %q, want %q", got.CodeHash, "second")
		}
	})

	t.Run("delete removes the record", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: time.Now()}
		s := NewMemory(clk)
		rec := entity.OTPRecord{PhoneNumber: "+15005550006", CodeHash: "abc", IssuedAt: clk.now}
		if err := s.Put(context.Background(), rec, 5*time.Minute); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		// Act
		if err := s.Delete(context.Background(), "+15005550006"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		_, err := s.Get(context.Background(), "+15005550006")

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete missing record is not an error", func(t *testing.T) {
		// Arrange
		s := NewMemory(&fakeClock{now: time.Now()})

		// Act
		err := s.Delete(context.Background(), "+15005550006")

		// Assert
		if err != nil {
			t.Errorf("Delete() error = %v, want nil", err)
		}
	})
}

func TestNewFromDriver(t *testing.T) {
	t.Run("memory driver", func(t *testing.T) {
		s, err := NewFromDriver(DriverMemory, FactoryOptions{Clock: &fakeClock{now: time.Now()}})
		if err != nil {
			t.Fatalf("NewFromDriver() error = %v", err)
		}
		if _, ok := s.(*Memory); !ok {
			t.Errorf("NewFromDriver() = %T, want *Memory", s)
		}
	})

	t.Run("redis driver without client fails", func(t *testing.T) {
		if _, err := NewFromDriver(DriverRedis, FactoryOptions{}); err == nil {
			t.Error("NewFromDriver() error = nil, want error")
		}
	})

	t.Run("unknown driver fails", func(t *testing.T) {
		if _, err := NewFromDriver(Driver("bolt"), FactoryOptions{}); err == nil {
			t.Error("NewFromDriver() error = nil, want error")
		}
	})
}
