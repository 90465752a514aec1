package usecase

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/clock"
	"github.com/nimbusheet/otpgate/internal/pkg/config"
	"github.com/nimbusheet/otpgate/internal/pkg/goerror"
	"github.com/nimbusheet/otpgate/internal/pkg/goroutine"
	"github.com/nimbusheet/otpgate/internal/pkg/hash"
	"github.com/nimbusheet/otpgate/internal/pkg/idempotency"
	"github.com/nimbusheet/otpgate/internal/pkg/instrument"
	"github.com/nimbusheet/otpgate/internal/pkg/jwt"
	"github.com/nimbusheet/otpgate/internal/pkg/otpcode"
	"github.com/nimbusheet/otpgate/internal/pkg/ratelimit"
	"github.com/nimbusheet/otpgate/internal/pkg/sms"
	"github.com/nimbusheet/otpgate/internal/pkg/storage"
	"github.com/nimbusheet/otpgate/internal/pkg/uid"
	"github.com/nimbusheet/otpgate/internal/pkg/validator"
)

// Messages returned to callers for expected issuance failures.
const (
	MsgInvalidPhoneNumber = "Invalid phone number format"
	MsgRateLimited        = "Rate limit exceeded. Please try again later."
	MsgOTPSent            = "OTP sent successfully"
	MsgStoreFailed        = "Failed to store verification code"
)

type repoDB interface {
	CreateAuditEvent(ctx context.Context, ev entity.AuditEvent) error
	GetAuditEvents(ctx context.Context, filter entity.AuditFilterData) ([]entity.AuditEvent, error)
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
	PublishOTPVerified(ctx context.Context, msg OTPVerifiedEvent) error
}

type otpStore interface {
	Put(ctx context.Context, rec entity.OTPRecord, ttl time.Duration) error
	Get(ctx context.Context, phoneNumber string) (*entity.OTPRecord, error)
	Delete(ctx context.Context, phoneNumber string) error
}

// OTPIssuedEvent is published after a passcode is delivered and stored.
type OTPIssuedEvent struct {
	PhoneNumber string
	DeliveryID  string
	IssuedAt    time.Time
}

// OTPVerifiedEvent is published after a passcode is successfully consumed.
type OTPVerifiedEvent struct {
	PhoneNumber string
	VerifiedAt  time.Time
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	store         otpStore
	limiter       ratelimit.Limiter
	channel       sms.Channel
	codegen       otpcode.Generator
	hmac          hash.Hash
	idempotency   idempotency.Idempotency
	storage       storage.Storage
	cfg           config.Config
	uid           uid.NumberID
	oid           uid.StringID
	clock         clock.Clocker
	validator     validator.Validator
	jwt           jwt.JWT
	goroutine     *goroutine.Manager
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Store         otpStore
	Limiter       ratelimit.Limiter
	Channel       sms.Channel
	CodeGenerator otpcode.Generator
	HMAC          hash.Hash
	Idempotency   idempotency.Idempotency
	Storage       storage.Storage
	Config        config.Config
	UID           uid.NumberID
	OID           uid.StringID
	Clock         clock.Clocker
	Validator     validator.Validator
	JWT           jwt.JWT
	Goroutine     *goroutine.Manager
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		store:         dep.Store,
		limiter:       dep.Limiter,
		channel:       dep.Channel,
		codegen:       dep.CodeGenerator,
		hmac:          dep.HMAC,
		idempotency:   dep.Idempotency,
		storage:       dep.Storage,
		cfg:           dep.Config,
		uid:           dep.UID,
		oid:           dep.OID,
		clock:         dep.Clock,
		validator:     dep.Validator,
		jwt:           dep.JWT,
		goroutine:     dep.Goroutine,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	claims := jwt.GetAuth(ctx)
	if claims == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	return claims, nil
}

// recordAudit appends one event to the audit trail. Recording failures are
// logged but never surfaced, the caller's outcome is already decided.
func (s *Usecase) recordAudit(ctx context.Context, action entity.AuditAction, phoneNumber, actor string, success bool, details map[string]any) {
	ev := entity.AuditEvent{
		ID:           s.uid.Generate(),
		Action:       action,
		Resource:     entity.AuditResourceSMSOTP,
		PhoneNumber:  phoneNumber,
		ActorAddress: actor,
		Success:      success,
		Details:      details,
		OccurredAt:   s.clock.Now(),
	}

	if err := s.repoDB.CreateAuditEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "failed to repo create audit event",
			"action", action.String(), "phone_number", phoneNumber, "error", err)
	}
}
