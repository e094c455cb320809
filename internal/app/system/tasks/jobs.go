// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"go.uber.org/zap"
)

// PresenceSweepJob marks users offline when their last heartbeat is older than timeout.
// Browsers that close without logging out never send the offline update themselves.
func PresenceSweepJob(userStore *userstore.Store, logger *zap.Logger, timeout time.Duration) Job {
	return Job{
		Name:     "presence-sweep",
		Interval: 1 * time.Minute,
		Run: func(ctx context.Context) error {
			count, err := userStore.MarkStaleOffline(ctx, time.Now().Add(-timeout))
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("marked idle users offline",
					zap.Int64("count", count),
					zap.Duration("timeout", timeout))
			}
			return nil
		},
	}
}

// OAuthStateCleanupJob creates a job that removes expired OAuth state tokens.
// This is a backup for when MongoDB's TTL index cleanup is delayed.
func OAuthStateCleanupJob(stateStore *oauthstate.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := stateStore.CleanupExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("cleaned up expired OAuth states", zap.Int64("count", count))
			}
			return nil
		},
	}
}
