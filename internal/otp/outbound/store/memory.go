package store

import (
	"context"
	"sync"
	"time"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/clock"
	"github.com/nimbusheet/otpgate/internal/pkg/goerror"
)

type memoryEntry struct {
	rec       entity.OTPRecord
	expiresAt time.Time
}

// Memory is a process-local Store for single-instance deployments and tests.
type Memory struct {
	clock clock.Clocker

	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemory returns an empty in-memory store.
func NewMemory(clk clock.Clocker) *Memory {
	return &Memory{
		clock:   clk,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Put(_ context.Context, rec entity.OTPRecord, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[rec.PhoneNumber] = memoryEntry{
		rec:       rec,
		expiresAt: m.clock.Now().Add(ttl),
	}

	return nil
}

func (m *Memory) Get(_ context.Context, phoneNumber string) (*entity.OTPRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[phoneNumber]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	if m.clock.Now().After(e.expiresAt) {
		delete(m.entries, phoneNumber)
		return nil, goerror.ErrNotFound
	}

	rec := e.rec

	return &rec, nil
}

func (m *Memory) Delete(_ context.Context, phoneNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, phoneNumber)

	return nil
}
