package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/config"
	"github.com/nimbusheet/otpgate/internal/pkg/goerror"
	"github.com/nimbusheet/otpgate/internal/pkg/goroutine"
	"github.com/nimbusheet/otpgate/internal/pkg/hash"
	"github.com/nimbusheet/otpgate/internal/pkg/instrument"
	"github.com/nimbusheet/otpgate/internal/pkg/sms"
	"github.com/nimbusheet/otpgate/internal/pkg/validator"
)

const testConfigYAML = `
modules:
  otp:
    rate_limit_max_requests: 3
    rate_limit_window_seconds: 600
    code_ttl_minutes: 5
    audit_export_bucket: otp-audit
`

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type fakeNumberID struct {
	next int64
}

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeStringID struct {
	value string
}

func (f *fakeStringID) Generate() string { return f.value }

type fakeRepoDB struct {
	mu      sync.Mutex
	events  []entity.AuditEvent
	listOut []entity.AuditEvent
	err     error
}

func (f *fakeRepoDB) CreateAuditEvent(_ context.Context, ev entity.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)

	return nil
}

func (f *fakeRepoDB) GetAuditEvents(_ context.Context, _ entity.AuditFilterData) ([]entity.AuditEvent, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.listOut, nil
}

func (f *fakeRepoDB) recorded() []entity.AuditEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.AuditEvent, len(f.events))
	copy(out, f.events)

	return out
}

type fakeMessaging struct {
	mu       sync.Mutex
	issued   []OTPIssuedEvent
	verified []OTPVerifiedEvent
}

func (f *fakeMessaging) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, msg)

	return nil
}

func (f *fakeMessaging) PublishOTPVerified(_ context.Context, msg OTPVerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, msg)

	return nil
}

type fakeStore struct {
	mu      sync.Mutex
	records map[string]entity.OTPRecord
	getErr  error
	putErr  error
	delErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]entity.OTPRecord)}
}

func (f *fakeStore) Put(_ context.Context, rec entity.OTPRecord, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.putErr != nil {
		return f.putErr
	}
	f.records[rec.PhoneNumber] = rec

	return nil
}

func (f *fakeStore) Get(_ context.Context, phoneNumber string) (*entity.OTPRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}

	rec, ok := f.records[phoneNumber]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &rec, nil
}

func (f *fakeStore) Delete(_ context.Context, phoneNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.delErr != nil {
		return f.delErr
	}
	delete(f.records, phoneNumber)

	return nil
}

type fakeLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (f *fakeLimiter) TryAcquire(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	f.calls++
	return f.allowed, f.err
}

type fakeChannel struct {
	result sms.Result
	err    error
	sent   []string
}

func (f *fakeChannel) Send(_ context.Context, to, _ string) (sms.Result, error) {
	f.sent = append(f.sent, to)
	return f.result, f.err
}

func (f *fakeChannel) Close() error { return nil }

type fakeGenerator struct {
	code string
	err  error
}

func (f *fakeGenerator) Generate() (string, error) { return f.code, f.err }

type ucFixture struct {
	uc      *Usecase
	repoDB  *fakeRepoDB
	msg     *fakeMessaging
	store   *fakeStore
	limiter *fakeLimiter
	channel *fakeChannel
	clock   *fakeClock
	grm     *goroutine.Manager
}

func newFixture(t *testing.T) *ucFixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("config.NewViperFromBytes() error = %v", err)
	}
	t.Cleanup(func() { _ = cfg.Close() })

	vld, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator.NewV10Validator() error = %v", err)
	}

	f := &ucFixture{
		repoDB:  &fakeRepoDB{},
		msg:     &fakeMessaging{},
		store:   newFakeStore(),
		limiter: &fakeLimiter{allowed: true},
		channel: &fakeChannel{result: sms.Result{Success: true, Message: "queued", DeliveryID: "dl-1"}},
		clock:   &fakeClock{now: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)},
		grm:     goroutine.NewManager(4),
	}

	f.uc = New(Dependency{
		RepoDB:        f.repoDB,
		RepoMessaging: f.msg,
		Store:         f.store,
		Limiter:       f.limiter,
		Channel:       f.channel,
		CodeGenerator: &fakeGenerator{code: "123456"},
		HMAC:          hash.NewHMACSHA256("otp-test-secret"),
		Config:        cfg,
		UID:           &fakeNumberID{},
		OID:           &fakeStringID{value: "export-1"},
		Clock:         f.clock,
		Validator:     vld,
		Goroutine:     f.grm,
		Instrument:    instrument.NewNoop(),
	})

	return f
}

func auditActions(evs []entity.AuditEvent) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Action.String())
	}

	return out
}
