package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vennlabs/pulseboard/internal/clients"
)

const HEALTHCHECK_TIMER = 15

// MonitorScoringServiceHealth polls the remote scoring service and keeps the
// shared health flag current. Only started when the remote engine is active.
func MonitorScoringServiceHealth(ctx context.Context, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := clients.GetScoringClient().HealthCheck()
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Scoring service is unhealthy")
			}
		}
	}
}
