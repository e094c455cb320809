// internal/app/bootstrap/services.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/system/mailer"
	"github.com/dalemusser/scholarhub/internal/app/system/ratelimit"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// trackWindow is the fixed window for track_rate_limit.
const trackWindow = time.Minute

// newMailSender returns the Sender for the configured mail_provider.
func newMailSender(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (mailer.Sender, error) {
	switch appCfg.MailProvider {
	case mailSMTP:
		return mailer.NewSMTPSender(appCfg.MailSMTPHost, appCfg.MailSMTPPort, appCfg.MailSMTPUser, appCfg.MailSMTPPass), nil
	case mailSES:
		sctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		defer cancel()
		s, err := mailer.NewSESSender(sctx, appCfg.MailSESRegion)
		if err != nil {
			return nil, fmt.Errorf("SES sender: %w", err)
		}
		return s, nil
	case mailSendGrid:
		return mailer.NewSendGridSender(appCfg.MailSendGridKey), nil
	case mailLog, "":
		return mailer.LogSender{Log: logger}, nil
	default:
		return nil, fmt.Errorf("unknown mail_provider %q", appCfg.MailProvider)
	}
}

// newTrackLimiter picks the Redis limiter when a client is available.
// A zero limit disables limiting. The returned stop func releases the
// in-memory limiter's cleanup goroutine.
func newTrackLimiter(rdb *redis.Client, limit int) (ratelimit.Limiter, func()) {
	if limit <= 0 {
		return nil, func() {}
	}
	if rdb != nil {
		return ratelimit.NewRedis(rdb, "scholarhub:track:", limit, trackWindow), func() {}
	}
	m := ratelimit.NewMemory(limit, trackWindow)
	return m, m.Close
}
