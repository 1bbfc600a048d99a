// Package seed fills an empty store with approved example bottles so a fresh
// deployment has something to show.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository"
	"github.com/SARVESHVARADKAR123/bottle/internal/security"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type example struct {
	content      string
	author       string
	presentation domain.Presentation
	age          time.Duration
}

const day = 24 * time.Hour

var examples = []example{
	{"The harbour lamps came on one by one tonight, and for a moment the whole bay felt like a letter being written.", "Night Ferry", domain.Presentation{BottleStyle: 1, Font: 1, Sketch: 3}, 2 * time.Hour},
	{"Found a piece of green sea glass worn smooth as a promise. Someone, somewhere, once drank to something good.", "Glass Finder", domain.Presentation{BottleStyle: 2, Font: 2, Sketch: 0}, day + 5*time.Hour},
	{"The tide took my sandcastle again. I built it anyway, because the building was the point.", "Castle Maker", domain.Presentation{BottleStyle: 3, Font: 3, Sketch: 4}, 2*day + 3*time.Hour},
	{"Gulls argue over the pier every morning. I have started to think they enjoy the argument more than the bread.", "Pier Regular", domain.Presentation{BottleStyle: 4, Font: 4, Sketch: 2}, 4 * day},
	{"If this reaches you on a grey day, know that the fog always lifts by noon here. It will for you too.", "Fog Watcher", domain.Presentation{BottleStyle: 5, Font: 1, Sketch: 1}, 7*day + 8*time.Hour},
	{"Low tide shows the rocks the sea keeps hidden. Some days I feel like low tide, and that is fine.", "Rock Pool", domain.Presentation{BottleStyle: 6, Font: 2, Sketch: 1}, 12 * day},
	{"My grandfather mended nets on this beach for forty years. The knots he taught me still hold.", "Net Mender", domain.Presentation{BottleStyle: 7, Font: 3, Sketch: 3}, 20*day + 6*time.Hour},
	{"Counted eleven boats heading out before dawn. Wished each of them a full hold and a calm way home.", "Early Riser", domain.Presentation{BottleStyle: 8, Font: 4, Sketch: 2}, 33 * day},
	{"The storm last week moved half the dune. Everything here is temporary, and somehow that is comforting.", "Dune Keeper", domain.Presentation{BottleStyle: 1, Font: 1, Sketch: 5}, 54 * day},
	{"Whoever finds this: take your shoes off and stand where the water reaches. Just for a minute.", "Barefoot", domain.Presentation{BottleStyle: 2, Font: 2, Sketch: 0}, 89 * day},
}

// Run inserts the examples when the store holds no messages and reports how
// many were written.
func Run(ctx context.Context, repo repository.MessageRepository, log *zap.Logger, now time.Time) (int, error) {
	count, err := repo.CountMessages(ctx)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	if count > 0 {
		log.Info("seed_skipped", zap.String("existing", humanize.Comma(count)))
		return 0, nil
	}

	oldest := now
	for _, ex := range examples {
		session, err := security.RandomToken(12)
		if err != nil {
			return 0, err
		}

		createdAt := now.Add(-ex.age).UTC()
		msg, err := domain.NewMessage(uuid.NewString(), "seed-"+session, ex.content, ex.author, ex.presentation, "", domain.DefaultLimits, createdAt)
		if err != nil {
			return 0, fmt.Errorf("build example: %w", err)
		}
		msg.Status = domain.StatusApproved

		if err := repo.InsertMessage(ctx, nil, msg); err != nil {
			return 0, fmt.Errorf("insert example: %w", err)
		}
		if createdAt.Before(oldest) {
			oldest = createdAt
		}
	}

	log.Info("seed_inserted",
		zap.Int("messages", len(examples)),
		zap.String("oldest", humanize.RelTime(oldest, now, "ago", "from now")),
	)
	return len(examples), nil
}
