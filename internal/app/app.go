package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nimbusheet/otpgate/internal/otp/outbound/store"
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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	jwt       jwt.JWT
	codegen   otpcode.Generator

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	messaging messaging.Messaging
	storage   storage.Storage
	otpStore  store.Store
	limiter   ratelimit.Limiter
	channel   sms.Channel

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initStorage()
	app.initMessaging()
	app.initOTPBackends()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
