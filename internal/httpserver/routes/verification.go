package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/minedex/minedex/internal/httpserver/deps"
	"github.com/minedex/minedex/internal/httpserver/handlers"
	"github.com/minedex/minedex/internal/httpserver/mw"
)

func init() { Register(registerVerification) }

func registerVerification(r chi.Router, d deps.Deps) {
	// Sending a code costs an outbound mail, so this one is rate limited.
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:        d.SendCodeBurst,
		RefillPerMin: d.SendCodePerMin,
		TrustProxy:   d.TrustProxy,
	})).Post("/api/send-verification-code", handlers.SendVerificationCode(d))

	r.Post("/api/verify-code", handlers.VerifyCode(d))
}
