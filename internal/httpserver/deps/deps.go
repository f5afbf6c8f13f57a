package deps

import (
	"time"

	"github.com/minedex/minedex/internal/logger"
	"github.com/minedex/minedex/internal/probe"
	"github.com/minedex/minedex/internal/registry"
	redisstore "github.com/minedex/minedex/internal/store/redis"
	"github.com/minedex/minedex/internal/verify"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Registry *registry.Store
	Verifier *verify.Manager
	Prober   *probe.Prober

	StatusCache    *redisstore.Store // nil when redis is not configured
	StatusCacheTTL time.Duration
	RefreshTrigger chan struct{} // nil when the background refresher is disabled

	TrustProxy     bool
	AllowedOrigins []string
	SendCodeBurst  int
	SendCodePerMin int
}
