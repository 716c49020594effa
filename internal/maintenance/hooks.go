package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/fivea/internal/roster"
	"github.com/albapepper/fivea/internal/teams"
)

// Requeuer returns generated matches to pending. *match.Store implements it.
type Requeuer interface {
	RequeueForPlayer(ctx context.Context, playerID string, window time.Duration) (int64, error)
}

// AfterImport requeues recently generated matches for every imported
// player. Run it after a bulk import when no API process is listening for
// roster notifications. Requeue counts and failures are added to result.
func AfterImport(ctx context.Context, requeuer Requeuer, players []teams.Player, window time.Duration, result *roster.ImportResult, logger *slog.Logger) {
	start := time.Now()
	for _, p := range players {
		n, err := requeuer.RequeueForPlayer(ctx, p.ID, window)
		if err != nil {
			logger.Warn("Failed to requeue matches", "player_id", p.ID, "error", err)
			result.AddErrorf("requeue %s: %v", p.ID, err)
			continue
		}
		result.MatchesRequeued += int(n)
	}
	logger.Info("Import hooks complete",
		"matches_requeued", result.MatchesRequeued,
		"duration", time.Since(start).Round(time.Millisecond))
}
