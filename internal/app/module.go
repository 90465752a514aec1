package app

import (
	"log/slog"
	"os"

	"github.com/nimbusheet/otpgate/internal/otp"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.otp.enabled") {
		if err := otp.New(otp.Dependency{
			DBConn:        a.dbConn,
			Store:         a.otpStore,
			Limiter:       a.limiter,
			Channel:       a.channel,
			CodeGenerator: a.codegen,
			Goroutine:     a.goroutine,
			Router:        a.router,
			Idempotency:   a.idemp,
			Messaging:     a.messaging,
			Storage:       a.storage,
			Config:        a.config,
			Instrument:    a.ins,
			UID:           a.uid,
			OID:           a.oid,
			HMAC:          a.hmac,
			Clock:         a.clock,
			Validator:     a.validator,
			JWT:           a.jwt,
		}); err != nil {
			slog.Error("failed to init module otp", "error", err)
			os.Exit(1)
		}
	}
}
