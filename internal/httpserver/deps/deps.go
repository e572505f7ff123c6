package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/navdeck/internal/catalog"
	"github.com/MrSnakeDoc/navdeck/internal/config"
	"github.com/MrSnakeDoc/navdeck/internal/domain"
	"github.com/MrSnakeDoc/navdeck/internal/logger"
	"github.com/MrSnakeDoc/navdeck/internal/scheduler"
)

// StatsStore is the read side of the fetch statistics plus the role view
// counter. *store/redis.Store implements it.
type StatsStore interface {
	GetAllSourceStats(ctx context.Context) ([]domain.SourceStats, error)
	GetRoleViews(ctx context.Context) (map[string]int64, error)
	IncrementRoleView(ctx context.Context, role string) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the server
	AllowedCIDRS []string         // IPs allowed to access ops endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy

	Config        *config.Config
	Catalog       *catalog.Service
	Schemas       *scheduler.SchemaReloader
	Stats         StatsStore    // nil when statistics are disabled
	RedisClient   *redis.Client // nil when statistics are disabled
	ReloadTrigger chan struct{} // manual schema reload
}

// Now returns TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
