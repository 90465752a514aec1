package otp

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nimbusheet/otpgate/internal/otp/inbound"
	"github.com/nimbusheet/otpgate/internal/otp/outbound/db"
	"github.com/nimbusheet/otpgate/internal/otp/outbound/mq"
	"github.com/nimbusheet/otpgate/internal/otp/outbound/store"
	"github.com/nimbusheet/otpgate/internal/otp/usecase"
	"github.com/nimbusheet/otpgate/internal/pkg/clock"
	"github.com/nimbusheet/otpgate/internal/pkg/config"
	"github.com/nimbusheet/otpgate/internal/pkg/goroutine"
	"github.com/nimbusheet/otpgate/internal/pkg/hash"
	"github.com/nimbusheet/otpgate/internal/pkg/idempotency"
	"github.com/nimbusheet/otpgate/internal/pkg/instrument"
	"github.com/nimbusheet/otpgate/internal/pkg/jwt"
	"github.com/nimbusheet/otpgate/internal/pkg/messaging"
	"github.com/nimbusheet/otpgate/internal/pkg/otpcode"
	"github.com/nimbusheet/otpgate/internal/pkg/ratelimit"
	"github.com/nimbusheet/otpgate/internal/pkg/router"
	"github.com/nimbusheet/otpgate/internal/pkg/sms"
	"github.com/nimbusheet/otpgate/internal/pkg/storage"
	"github.com/nimbusheet/otpgate/internal/pkg/uid"
	"github.com/nimbusheet/otpgate/internal/pkg/validator"
)

type Dependency struct {
	DBConn        *pgxpool.Pool              `validate:"required"`
	Store         store.Store                `validate:"required"`
	Limiter       ratelimit.Limiter          `validate:"required"`
	Channel       sms.Channel                `validate:"required"`
	CodeGenerator otpcode.Generator          `validate:"required"`
	Goroutine     *goroutine.Manager         `validate:"required"`
	Router        *router.Router             `validate:"required"`
	Idempotency   idempotency.Idempotency    `validate:"required"`
	Messaging     messaging.Messaging        `validate:"required"`
	Storage       storage.Storage            `validate:"required"`
	Config        config.Config              `validate:"required"`
	Instrument    instrument.Instrumentation `validate:"required"`
	UID           uid.NumberID               `validate:"required"`
	OID           uid.StringID               `validate:"required"`
	HMAC          hash.Hash                  `validate:"required"`
	Clock         clock.Clocker              `validate:"required"`
	Validator     validator.Validator        `validate:"required"`
	JWT           jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAudit := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAudit,
		RepoMessaging: repoMsg,
		Store:         dep.Store,
		Limiter:       dep.Limiter,
		Channel:       dep.Channel,
		CodeGenerator: dep.CodeGenerator,
		HMAC:          dep.HMAC,
		Idempotency:   dep.Idempotency,
		Storage:       dep.Storage,
		Config:        dep.Config,
		UID:           dep.UID,
		OID:           dep.OID,
		Clock:         dep.Clock,
		Validator:     dep.Validator,
		JWT:           dep.JWT,
		Goroutine:     dep.Goroutine,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
