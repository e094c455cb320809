// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/dalemusser/scholarhub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"github.com/dalemusser/scholarhub/internal/app/system/tasks"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// background holds what Startup and BuildHandler start and Shutdown stops.
// Hooks receive DBDeps by value, so this lives at package level.
type background struct {
	mu     sync.Mutex
	runner *tasks.Runner
	stops  []func()
}

var bg background

func (b *background) addStop(f func()) {
	b.mu.Lock()
	b.stops = append(b.stops, f)
	b.mu.Unlock()
}

func (b *background) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.runner != nil {
		b.runner.Stop()
		b.runner = nil
	}
	for _, f := range b.stops {
		f()
	}
	b.stops = nil
}

// Startup applies timeout overrides and starts the background jobs.
// It runs after DB connections and schema setup, before the handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeout overrides applied", zap.Int("count", n))
	}

	runner := tasks.NewRunner(logger,
		tasks.PresenceSweepJob(userstore.New(deps.MongoDatabase), logger, appCfg.PresenceTimeout),
		tasks.OAuthStateCleanupJob(oauthstate.New(deps.MongoDatabase), logger),
	)
	runner.Start()

	bg.mu.Lock()
	bg.runner = runner
	bg.mu.Unlock()
	return nil
}
